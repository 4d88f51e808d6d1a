package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/flaskr/internal/app"
	"github.com/charlesng35/flaskr/internal/database"
	"github.com/charlesng35/flaskr/internal/models"
)

func testConfig(t *testing.T) *app.Config {
	t.Helper()
	return &app.Config{
		Server:   app.ServerConfig{SanitizeHTML: true},
		Database: app.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "flaskr.db")},
		Auth: app.AuthConfig{
			Username: "admin",
			Password: "default",
			Session:  app.SessionSettings{Secret: "bootstrap-secret", TTL: time.Hour},
		},
		Maintenance: app.MaintenanceConfig{AuditRetentionDays: 30, AuditSchedule: "@daily"},
	}
}

func TestBootstrapRuntimeServesIndex(t *testing.T) {
	cfg := testConfig(t)

	stack, err := bootstrapRuntime(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(context.Background(), zap.NewNop()) })

	require.True(t, stack.DB.Migrator().HasTable(&models.Entry{}))
	require.True(t, stack.DB.Migrator().HasTable(&models.AuditLog{}))

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No entries yet. Add some!")
}

func TestBootstrapRuntimeRejectsMissingCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Password = ""

	_, err := bootstrapRuntime(cfg, zap.NewNop())
	require.ErrorContains(t, err, "initialise auth guard")
}

func TestRunInitDBCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "init.db")
	t.Setenv("FLASKR_DATABASE_PATH", dbPath)

	require.NoError(t, runInitDB(dir))

	db, err := database.Open(database.Config{Driver: "sqlite", Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.True(t, db.Migrator().HasTable(&models.Entry{}))
}

func TestLoadApplicationConfigMissingPath(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.ErrorContains(t, err, "does not exist")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	require.True(t, names["serve"])
	require.True(t, names["initdb"])
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}
