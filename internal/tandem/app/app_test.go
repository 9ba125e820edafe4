package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWiresSQLiteAndLocalPhotos(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := LoadConfig()
	cfg.DatabaseFile = filepath.Join(dir, "tandem.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.UploadsDir = filepath.Join(dir, "uploads")
	cfg.LogLevel = "error"

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	badges, err := app.badgeService.ListBadges(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, badges)

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, ":8080", app.server.Addr)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	cfg.StoreDriver = "postgres"
	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}
