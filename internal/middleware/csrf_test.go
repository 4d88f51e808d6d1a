package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newCSRFRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CSRF())
	r.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	r.POST("/submit", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func issueCSRFCookie(t *testing.T, r *gin.Engine) (*http.Cookie, string) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, w.Code)

	resp := w.Result()
	defer resp.Body.Close()

	var csrfCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CSRFCookieName {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)
	return csrfCookie, w.Body.String()
}

func TestCSRFIssuesTokenOnSafeMethod(t *testing.T) {
	r := newCSRFRouter()

	cookie, rendered := issueCSRFCookie(t, r)
	require.NotEmpty(t, cookie.Value)
	require.Equal(t, cookie.Value, rendered)
}

func TestCSRFValidatesSubmissions(t *testing.T) {
	r := newCSRFRouter()
	cookie, token := issueCSRFCookie(t, r)

	cases := []struct {
		name       string
		withCookie bool
		header     string
		form       url.Values
		wantStatus int
	}{
		{"header token", true, token, nil, http.StatusNoContent},
		{"form token", true, "", url.Values{CSRFFormField: {token}, "title": {"hello"}}, http.StatusNoContent},
		{"forged header", true, "forged", nil, http.StatusForbidden},
		{"forged form field", true, "", url.Values{CSRFFormField: {"forged"}}, http.StatusForbidden},
		{"nothing submitted", true, "", nil, http.StatusForbidden},
		{"no cookie", false, token, nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(tc.form.Encode()))
			if tc.form != nil {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if tc.withCookie {
				req.AddCookie(cookie)
			}
			if tc.header != "" {
				req.Header.Set(CSRFHeaderName, tc.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusForbidden {
				require.Contains(t, w.Body.String(), `"code":"CSRF_TOKEN_INVALID"`)
			}
		})
	}
}
