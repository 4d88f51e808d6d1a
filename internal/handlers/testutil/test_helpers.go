package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/api"
	"github.com/charlesng35/flaskr/internal/app"
	iauth "github.com/charlesng35/flaskr/internal/auth"
	sharedtestutil "github.com/charlesng35/flaskr/internal/database/testutil"
	"github.com/charlesng35/flaskr/internal/middleware"
	"github.com/charlesng35/flaskr/internal/services"
	"github.com/charlesng35/flaskr/pkg/response"
)

const (
	// Username is the credential configured for every test environment.
	Username = "admin"
	// Password is the credential configured for every test environment.
	Password = "default"
)

// EnvOption customises the configuration used by NewEnv.
type EnvOption func(*app.Config)

// WithCSRF enables CSRF protection on the router.
func WithCSRF() EnvOption {
	return func(cfg *app.Config) { cfg.Server.CSRF.Enabled = true }
}

// WithRequireLoginForDelete gates the delete route behind the session flag.
func WithRequireLoginForDelete() EnvOption {
	return func(cfg *app.Config) { cfg.Auth.RequireLoginForDelete = true }
}

// WithoutSanitizer renders entry text exactly as stored.
func WithoutSanitizer() EnvOption {
	return func(cfg *app.Config) { cfg.Server.SanitizeHTML = false }
}

// Env encapsulates a running router backed by an in-memory database. The
// client keeps cookies and follows redirects like a browser.
type Env struct {
	T       *testing.T
	DB      *gorm.DB
	Config  *app.Config
	Entries *services.EntryService
	Audit   *services.AuditService
	Server  *httptest.Server
	Client  *http.Client

	csrfToken string
}

// Response is a fully read HTTP response.
type Response struct {
	Code   int
	Header http.Header
	Body   string
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	cfg := &app.Config{
		Server: app.ServerConfig{SanitizeHTML: true},
		Auth: app.AuthConfig{
			Username: Username,
			Password: Password,
			Session: app.SessionSettings{
				Secret: "test-suite-session-secret",
				Issuer: "flaskr-test",
				TTL:    time.Hour,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	guard, err := iauth.NewGuard(cfg.Auth.Credentials())
	require.NoError(t, err)
	codec, err := iauth.NewSessionCodec(cfg.Auth.SessionCodecConfig())
	require.NoError(t, err)
	entries, err := services.NewEntryService(db)
	require.NoError(t, err)
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	router, err := api.NewRouter(api.Deps{
		Config:   cfg,
		DB:       db,
		Guard:    guard,
		Sessions: codec,
		Entries:  entries,
		Audit:    audit,
	})
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &Env{
		T:       t,
		DB:      db,
		Config:  cfg,
		Entries: entries,
		Audit:   audit,
		Server:  server,
		Client:  &http.Client{Jar: jar},
	}
}

// Get issues a GET request, following redirects.
func (e *Env) Get(path string) Response {
	e.T.Helper()
	req, err := http.NewRequest(http.MethodGet, e.Server.URL+path, nil)
	require.NoError(e.T, err)
	return e.do(req)
}

// PostForm submits form values, following redirects. When CSRF protection is
// enabled the token captured from an earlier page is attached.
func (e *Env) PostForm(path string, values url.Values) Response {
	e.T.Helper()
	if e.Config.Server.CSRF.Enabled && e.csrfToken == "" {
		e.Get("/")
	}

	req, err := http.NewRequest(http.MethodPost, e.Server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(e.T, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if e.csrfToken != "" {
		req.Header.Set(middleware.CSRFHeaderName, e.csrfToken)
	}
	return e.do(req)
}

// Login posts the given credentials to /login.
func (e *Env) Login(username, password string) Response {
	e.T.Helper()
	return e.PostForm("/login", url.Values{"username": {username}, "password": {password}})
}

// Logout visits /logout.
func (e *Env) Logout() Response {
	e.T.Helper()
	return e.Get("/logout")
}

// SessionCookie returns the raw session cookie held by the client, if any.
func (e *Env) SessionCookie() *http.Cookie {
	u, err := url.Parse(e.Server.URL)
	require.NoError(e.T, err)
	for _, c := range e.Client.Jar.Cookies(u) {
		if c.Name == e.Config.Auth.CookieName() {
			return c
		}
	}
	return nil
}

// SetSessionCookie replaces the session cookie held by the client.
func (e *Env) SetSessionCookie(value string) {
	u, err := url.Parse(e.Server.URL)
	require.NoError(e.T, err)
	e.Client.Jar.SetCookies(u, []*http.Cookie{{Name: e.Config.Auth.CookieName(), Value: value, Path: "/"}})
}

func (e *Env) do(req *http.Request) Response {
	e.T.Helper()

	resp, err := e.Client.Do(req)
	require.NoError(e.T, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(e.T, err)

	if token := resp.Header.Get(middleware.CSRFHeaderName); token != "" {
		e.csrfToken = token
	}

	return Response{Code: resp.StatusCode, Header: resp.Header, Body: string(body)}
}

// DecodeResponse parses the standard JSON envelope.
func DecodeResponse(t *testing.T, resp Response) response.Response {
	t.Helper()
	var payload response.Response
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &payload), resp.Body)
	return payload
}

// DecodeInto unmarshals a JSON body into dest.
func DecodeInto[T any](t *testing.T, resp Response, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), dest), resp.Body)
}
