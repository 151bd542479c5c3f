package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Credentials is the opaque credential structure supplied by the host.
// It is immutable for the lifetime of one session.
type Credentials struct {
	Identifier       string
	Secret           string
	TwoFactorEnabled bool
	TwoFactorCode    string
	Headless         bool
	PersistCookies   bool
}

// Runtime holds the tuning knobs shared by all components of one batch run.
type Runtime struct {
	BaseURL         string
	NavTimeout      time.Duration
	NavAttempts     int
	ElementTimeout  time.Duration
	SettleDelay     time.Duration
	CheckpointGrace time.Duration
	CheckpointDepth int
	SessionTimeout  time.Duration
	SnapshotDir     string
	ProfileDir      string
}

type Config struct {
	Credentials Credentials
	Runtime     Runtime
}

var ErrMissingCredentials = errors.New("config: SOCIAL_IDENTIFIER and SOCIAL_SECRET are required")

// Load reads .env plus the APP_ENV-specific overlay, same layering the rest
// of the tooling uses: base file first, then .env.<APP_ENV> overrides it.
func Load() (*Config, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	// Missing files are fine: CI and the host runtime inject real env vars.
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(fmt.Sprintf(".env.%s", appEnv))

	cfg := &Config{
		Credentials: Credentials{
			Identifier:       os.Getenv("SOCIAL_IDENTIFIER"),
			Secret:           os.Getenv("SOCIAL_SECRET"),
			TwoFactorEnabled: getBool("SOCIAL_2FA_ENABLED", false),
			TwoFactorCode:    os.Getenv("SOCIAL_2FA_CODE"),
			Headless:         getBool("BROWSER_HEADLESS", true),
			PersistCookies:   getBool("SESSION_PERSIST_COOKIES", false),
		},
		Runtime: DefaultRuntime(),
	}

	if v := os.Getenv("SOCIAL_BASE_URL"); v != "" {
		cfg.Runtime.BaseURL = v
	}
	cfg.Runtime.NavTimeout = getDuration("NAV_TIMEOUT", cfg.Runtime.NavTimeout)
	cfg.Runtime.NavAttempts = getInt("NAV_ATTEMPTS", cfg.Runtime.NavAttempts)
	cfg.Runtime.ElementTimeout = getDuration("ELEMENT_TIMEOUT", cfg.Runtime.ElementTimeout)
	cfg.Runtime.SettleDelay = getDuration("SETTLE_DELAY", cfg.Runtime.SettleDelay)
	cfg.Runtime.CheckpointGrace = getDuration("CHECKPOINT_GRACE", cfg.Runtime.CheckpointGrace)
	cfg.Runtime.CheckpointDepth = getInt("CHECKPOINT_DEPTH", cfg.Runtime.CheckpointDepth)
	cfg.Runtime.SessionTimeout = getDuration("SESSION_TIMEOUT", cfg.Runtime.SessionTimeout)
	if v := os.Getenv("SNAPSHOT_DIR"); v != "" {
		cfg.Runtime.SnapshotDir = v
	}
	if v := os.Getenv("BROWSER_PROFILE_DIR"); v != "" {
		cfg.Runtime.ProfileDir = v
	}

	if cfg.Credentials.Identifier == "" || cfg.Credentials.Secret == "" {
		return nil, ErrMissingCredentials
	}

	return cfg, nil
}

func DefaultRuntime() Runtime {
	return Runtime{
		BaseURL:         "https://www.linkedin.com",
		NavTimeout:      30 * time.Second,
		NavAttempts:     3,
		ElementTimeout:  5 * time.Second,
		SettleDelay:     2 * time.Second,
		CheckpointGrace: 30 * time.Second,
		CheckpointDepth: 3,
		SessionTimeout:  10 * time.Minute,
		SnapshotDir:     "snapshots",
	}
}

func getBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return parsed
}
