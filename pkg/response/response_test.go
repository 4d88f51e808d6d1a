package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/charlesng35/flaskr/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Success(ctx, http.StatusOK, gin.H{"status": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	require.True(t, resp.Success)
	require.Nil(t, resp.Error)
	require.Equal(t, map[string]interface{}{"status": "ok"}, resp.Data)
}

func TestFailureKeepsData(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Failure(ctx, http.StatusServiceUnavailable, gin.H{"database": "down"})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode(t, rec)
	require.False(t, resp.Success)
	require.Nil(t, resp.Error)
	require.Equal(t, map[string]interface{}{"database": "down"}, resp.Data)
}

func TestErrorWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, appErrors.ErrUnauthorized)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decode(t, rec)
	require.False(t, resp.Success)
	require.Equal(t, &ErrorInfo{Code: "UNAUTHORIZED", Message: "Login required"}, resp.Error)
	require.Empty(t, ctx.Errors)
}

func TestErrorHidesInternalAndRecordsIt(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, appErrors.ErrEntryStore.WithInternal(errors.New("database is locked")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "database is locked")
	require.Len(t, ctx.Errors, 1)
	require.EqualError(t, ctx.Errors[0].Err, "database is locked")
}

func TestErrorWithGenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, appErrors.ErrInternalServer.Code, decode(t, rec).Error.Code)
}

func TestAbortStopsChain(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		Abort(c, appErrors.ErrNotFound)
	}, func(c *gin.Context) {
		reached = true
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.False(t, reached)
}
