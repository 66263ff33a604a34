package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", t.TempDir()+"/studio.db")
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("EMAIL_PROVIDER", "log")
}

func TestLoadProductionConfig_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddress())
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 5, cfg.Auth.MaxFailedAttempts)
	assert.Equal(t, 2*time.Hour, cfg.Auth.LockoutDuration)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.Equal(t, "@every 1h", cfg.Scheduler.JobExpirySpec)
	assert.True(t, cfg.IsProduction())
	assert.Empty(t, cfg.Security.AllowedOrigins)
}

func TestLoadProductionConfig_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://studio.example, https://admin.studio.example ,")
	t.Setenv("AUTH_LOCKOUT_DURATION", "45m")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://studio.example", "https://admin.studio.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 45*time.Minute, cfg.Auth.LockoutDuration)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoadProductionConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"short jwt secret", "JWT_SECRET_KEY", "too-short", "JWT_SECRET_KEY must be at least 32 characters"},
		{"unknown db driver", "DB_DRIVER", "mysql", "DB_DRIVER must be one of"},
		{"weak bcrypt", "BCRYPT_COST", "4", "BCRYPT_COST must be between 10 and 14"},
		{"unknown mail provider", "EMAIL_PROVIDER", "pigeon", "EMAIL_PROVIDER must be one of"},
		{"unknown log level", "LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		{"zero lockout", "AUTH_LOCKOUT_DURATION", "0s", "AUTH_LOCKOUT_DURATION must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadProductionConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateProductionConfig_SMTPRequiresHost(t *testing.T) {
	setMinimalEnv(t)
	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	cfg.Email.Provider = "smtp"
	cfg.Email.Host = ""
	err = ValidateProductionConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_HOST is required")
	assert.Contains(t, err.Error(), "EMAIL_FROM_EMAIL is required")
}
