package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	require.Equal(t, StoreSQLite, cfg.StoreDriver)
	require.Equal(t, BlobLocal, cfg.BlobDriver)
	require.Equal(t, 15*time.Minute, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.FormTokenTTL)
	require.Equal(t, 10*time.Minute, cfg.HousekeepingInterval)
	require.True(t, cfg.SecureCookies)
	require.False(t, cfg.ExposeVerificationLinks)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TANDEM_STORE", "Mongo")
	t.Setenv("TANDEM_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("TANDEM_SESSION_TTL", "30")
	t.Setenv("TANDEM_BADGE_TIMEOUT", "2s")
	t.Setenv("TANDEM_SECURE_COOKIES", "false")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, StoreMongo, cfg.StoreDriver)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 2*time.Second, cfg.BadgeTimeout)
	require.False(t, cfg.SecureCookies)
	require.Equal(t, 8080, cfg.Port)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	base := LoadConfig()

	cfg := base
	cfg.StoreDriver = "postgres"
	require.ErrorContains(t, cfg.Validate(), "unknown TANDEM_STORE")

	cfg = base
	cfg.StoreDriver = StoreMongo
	require.ErrorContains(t, cfg.Validate(), "TANDEM_MONGO_URI")

	cfg = base
	cfg.BlobDriver = BlobS3
	require.ErrorContains(t, cfg.Validate(), "TANDEM_S3_BUCKET")

	cfg = base
	cfg.Port = 0
	cfg.BlobDriver = "ftp"
	err := cfg.Validate()
	require.ErrorContains(t, err, "PORT")
	require.ErrorContains(t, err, "unknown TANDEM_BLOB")
}
