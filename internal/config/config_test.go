package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredCreds(t *testing.T) {
	t.Helper()
	t.Setenv("SOCIAL_IDENTIFIER", "user@example.test")
	t.Setenv("SOCIAL_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredCreds(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "user@example.test", cfg.Credentials.Identifier)
	assert.Equal(t, "secret", cfg.Credentials.Secret)
	assert.False(t, cfg.Credentials.TwoFactorEnabled)
	assert.True(t, cfg.Credentials.Headless)
	assert.False(t, cfg.Credentials.PersistCookies)

	assert.Equal(t, "https://www.linkedin.com", cfg.Runtime.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Runtime.NavTimeout)
	assert.Equal(t, 3, cfg.Runtime.NavAttempts)
	assert.Equal(t, 5*time.Second, cfg.Runtime.ElementTimeout)
	assert.Equal(t, 3, cfg.Runtime.CheckpointDepth)
	assert.Equal(t, "snapshots", cfg.Runtime.SnapshotDir)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("SOCIAL_IDENTIFIER", "")
	t.Setenv("SOCIAL_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredCreds(t)
	t.Setenv("SOCIAL_BASE_URL", "http://127.0.0.1:9999")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("SOCIAL_2FA_ENABLED", "true")
	t.Setenv("SOCIAL_2FA_CODE", "123456")
	t.Setenv("SESSION_PERSIST_COOKIES", "true")
	t.Setenv("NAV_TIMEOUT", "12s")
	t.Setenv("NAV_ATTEMPTS", "5")
	t.Setenv("CHECKPOINT_GRACE", "90s")
	t.Setenv("CHECKPOINT_DEPTH", "2")
	t.Setenv("SNAPSHOT_DIR", "/tmp/snaps")
	t.Setenv("BROWSER_PROFILE_DIR", "/tmp/profile")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.Runtime.BaseURL)
	assert.False(t, cfg.Credentials.Headless)
	assert.True(t, cfg.Credentials.TwoFactorEnabled)
	assert.Equal(t, "123456", cfg.Credentials.TwoFactorCode)
	assert.True(t, cfg.Credentials.PersistCookies)
	assert.Equal(t, 12*time.Second, cfg.Runtime.NavTimeout)
	assert.Equal(t, 5, cfg.Runtime.NavAttempts)
	assert.Equal(t, 90*time.Second, cfg.Runtime.CheckpointGrace)
	assert.Equal(t, 2, cfg.Runtime.CheckpointDepth)
	assert.Equal(t, "/tmp/snaps", cfg.Runtime.SnapshotDir)
	assert.Equal(t, "/tmp/profile", cfg.Runtime.ProfileDir)
}

func TestLoad_MalformedValuesFallBackToDefaults(t *testing.T) {
	setRequiredCreds(t)
	t.Setenv("NAV_TIMEOUT", "soon")
	t.Setenv("NAV_ATTEMPTS", "many")
	t.Setenv("BROWSER_HEADLESS", "yes please")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Runtime.NavTimeout)
	assert.Equal(t, 3, cfg.Runtime.NavAttempts)
	assert.True(t, cfg.Credentials.Headless)
}
