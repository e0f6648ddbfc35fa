package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "studycloud.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
sweep:
  interval: 90s
smtp:
  host: smtp.example.com
  from: tasks@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset fields keep defaults")
	assert.Equal(t, 90*time.Second, cfg.Sweep.Interval)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadMissingFileIsOptional(t *testing.T) {
	t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STUDYCLOUD_SERVER_PORT", "9999")
	t.Setenv("STUDYCLOUD_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("STUDYCLOUD_AUTH_ADMIN_EMAIL", "boss@example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
	assert.Equal(t, "boss@example.com", cfg.Auth.AdminEmail)
}

func TestValidate(t *testing.T) {
	t.Run("jwt secret required", func(t *testing.T) {
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")
		t.Setenv("STUDYCLOUD_SERVER_PORT", "70000")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("smtp host without from", func(t *testing.T) {
		t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")
		t.Setenv("STUDYCLOUD_SMTP_HOST", "smtp.example.com")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.from")
	})

	t.Run("sweep interval must be positive", func(t *testing.T) {
		t.Setenv("STUDYCLOUD_AUTH_JWT_SECRET", "test-secret")
		t.Setenv("STUDYCLOUD_SWEEP_INTERVAL", "0s")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sweep.interval")
	})
}
