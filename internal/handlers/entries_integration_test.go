package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/flaskr/internal/handlers"
	"github.com/charlesng35/flaskr/internal/handlers/testutil"
	"github.com/charlesng35/flaskr/internal/models"
	"github.com/charlesng35/flaskr/internal/services"
)

func TestIndex(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestEmptyDB(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Get("/")
	require.Contains(t, resp.Body, "No entries yet. Add some!")
}

func TestMessages(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Login(testutil.Username, testutil.Password)

	resp := env.PostForm("/add", url.Values{
		"title": {"<Hello>"},
		"text":  {"<strong>HTML</strong> allowed here"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body, "No entries yet. Add some!")
	require.Contains(t, resp.Body, "&lt;Hello&gt;")
	require.Contains(t, resp.Body, "<strong>HTML</strong> allowed here")
	require.Contains(t, resp.Body, "New entry was successfully posted")

	entries, err := env.Entries.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "<Hello>", entries[0].Title)
}

func TestEntriesListedInInsertionOrder(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Login(testutil.Username, testutil.Password)

	env.PostForm("/add", url.Values{"title": {"first post"}, "text": {"a"}})
	resp := env.PostForm("/add", url.Values{"title": {"second post"}, "text": {"b"}})

	first := strings.Index(resp.Body, "first post")
	second := strings.Index(resp.Body, "second post")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
}

func TestAddSanitizesScripts(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Login(testutil.Username, testutil.Password)

	resp := env.PostForm("/add", url.Values{
		"title": {"xss"},
		"text":  {`<script>alert(1)</script><em onclick="steal()">kept</em>`},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body, "<script>alert(1)</script>")
	require.NotContains(t, resp.Body, "steal()")
	require.Contains(t, resp.Body, "<em>kept</em>")
}

func TestAddWithoutSanitizerRendersRawText(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithoutSanitizer())
	env.Login(testutil.Username, testutil.Password)

	resp := env.PostForm("/add", url.Values{"title": {"raw"}, "text": {`<em onclick="x()">raw</em>`}})
	require.Contains(t, resp.Body, `<em onclick="x()">raw</em>`)
}

func TestAddRequiresLogin(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.PostForm("/add", url.Values{"title": {"sneaky"}, "text": {"nope"}})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	payload := testutil.DecodeResponse(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "UNAUTHORIZED", payload.Error.Code)

	count, err := env.Entries.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)

	logs, err := env.Audit.Recent(context.Background(), services.AuditQuery{Action: services.AuditActionEntryCreate})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, models.AuditResultDenied, logs[0].Result)
}

func TestAddRequiresTitle(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Login(testutil.Username, testutil.Password)

	resp := env.PostForm("/add", url.Values{"text": {"body only"}})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	payload := testutil.DecodeResponse(t, resp)
	require.Equal(t, "title is required", payload.Error.Message)

	resp = env.PostForm("/add", url.Values{"title": {"   "}, "text": {"blank title"}})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	count, err := env.Entries.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestDeleteMessage(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Get("/delete/1")
	require.Equal(t, http.StatusOK, resp.Code)

	var result handlers.DeleteResult
	testutil.DecodeInto(t, resp, &result)
	require.Equal(t, 1, result.Status)
	require.Equal(t, "Post Deleted", result.Message)
}

func TestDeleteRemovesEntry(t *testing.T) {
	env := testutil.NewEnv(t)

	entry, err := env.Entries.Create(context.Background(), services.CreateEntryInput{Title: "Doomed", Text: "bye"})
	require.NoError(t, err)

	resp := env.Get("/delete/" + itoa(entry.ID))
	var result handlers.DeleteResult
	testutil.DecodeInto(t, resp, &result)
	require.Equal(t, 1, result.Status)

	_, err = env.Entries.Get(context.Background(), entry.ID)
	require.ErrorIs(t, err, services.ErrEntryNotFound)

	// A second delete of the same id still reports success.
	resp = env.Get("/delete/" + itoa(entry.ID))
	testutil.DecodeInto(t, resp, &result)
	require.Equal(t, 1, result.Status)

	require.NotContains(t, env.Get("/").Body, "Doomed")
}

func TestDeleteInvalidID(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/delete/abc", "/delete/-1", "/delete/0"} {
		resp := env.Get(path)
		require.Equal(t, http.StatusOK, resp.Code, path)

		var result handlers.DeleteResult
		testutil.DecodeInto(t, resp, &result)
		require.Equal(t, 0, result.Status, path)
		require.Equal(t, "Error", result.Message, path)
	}
}

func TestDeleteCanRequireLogin(t *testing.T) {
	env := testutil.NewEnv(t, testutil.WithRequireLoginForDelete())

	entry, err := env.Entries.Create(context.Background(), services.CreateEntryInput{Title: "Guarded", Text: "x"})
	require.NoError(t, err)

	resp := env.Get("/delete/" + itoa(entry.ID))
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	_, err = env.Entries.Get(context.Background(), entry.ID)
	require.NoError(t, err)

	env.Login(testutil.Username, testutil.Password)
	resp = env.Get("/delete/" + itoa(entry.ID))
	var result handlers.DeleteResult
	testutil.DecodeInto(t, resp, &result)
	require.Equal(t, 1, result.Status)
}

func TestSearch(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Get("/search/")
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestSearchMatchesTitleOrTextIgnoringCase(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	_, err := env.Entries.Create(ctx, services.CreateEntryInput{Title: "Learning Go", Text: "channels"})
	require.NoError(t, err)
	_, err = env.Entries.Create(ctx, services.CreateEntryInput{Title: "Dinner", Text: "GOULASH recipe"})
	require.NoError(t, err)
	_, err = env.Entries.Create(ctx, services.CreateEntryInput{Title: "Unrelated", Text: "nothing here"})
	require.NoError(t, err)

	resp := env.Get("/search/?query=go")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body, "Learning Go")
	require.Contains(t, resp.Body, "Dinner")
	require.NotContains(t, resp.Body, "Unrelated")

	resp = env.PostForm("/search/", url.Values{"query": {"RECIPE"}})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body, "Dinner")
	require.NotContains(t, resp.Body, "Learning Go")

	resp = env.Get("/search/?query=zzz")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body, "No entries match")
}

func TestSearchReportsStoreFailure(t *testing.T) {
	env := testutil.NewEnv(t)
	require.NoError(t, env.DB.Migrator().DropTable(&models.Entry{}))

	resp := env.Get("/search/?query=go")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Contains(t, resp.Body, "Search failed, please try again")
	require.NotContains(t, resp.Body, "No entries match")
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Get("/does-not-exist")
	require.Equal(t, http.StatusNotFound, resp.Code)
	payload := testutil.DecodeResponse(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "NOT_FOUND", payload.Error.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
