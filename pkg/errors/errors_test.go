package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIncludesInternal(t *testing.T) {
	err := ErrEntryStore.WithInternal(stdErrors.New("database is locked"))

	require.Equal(t, "Could not access entries (ENTRY_STORE_ERROR): database is locked", err.Error())
	require.Equal(t, http.StatusInternalServerError, err.StatusCode)
	require.Equal(t, "Could not access entries", ErrEntryStore.Error())
}

func TestWithInternalCopies(t *testing.T) {
	cause := stdErrors.New("no session cookie")
	with := ErrUnauthorized.WithInternal(cause)

	require.NotSame(t, ErrUnauthorized, with)
	require.Nil(t, ErrUnauthorized.Internal)
	require.ErrorIs(t, with, cause)
}

func TestNewBadRequestKeepsCode(t *testing.T) {
	err := NewBadRequest("title is required")

	require.Equal(t, ErrBadRequest.Code, err.Code)
	require.Equal(t, "title is required", err.Message)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, "Invalid request", ErrBadRequest.Message)
}

func TestFromError(t *testing.T) {
	require.Same(t, ErrNotFound, FromError(ErrNotFound))

	wrapped := fmt.Errorf("delete entry: %w", ErrCSRFInvalid)
	require.Same(t, ErrCSRFInvalid, FromError(wrapped))

	out := FromError(stdErrors.New("raw"))
	require.Equal(t, ErrInternalServer.Code, out.Code)
	require.Error(t, out.Internal)

	require.Nil(t, FromError(nil))
}

func TestNilAppErrorIsSafe(t *testing.T) {
	var e *AppError
	require.Equal(t, "<nil>", e.Error())
	require.Nil(t, e.Unwrap())
	require.Nil(t, e.WithInternal(stdErrors.New("x")))
}
