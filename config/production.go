// Package config provides configuration management and environment variable handling for the application
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProductionConfig holds all configuration for the service
type ProductionConfig struct {
	Database   DatabaseConfig   `json:"database"`
	Server     ServerConfig     `json:"server"`
	Security   SecurityConfig   `json:"security"`
	JWT        JWTConfig        `json:"jwt"`
	Auth       AuthConfig       `json:"auth"`
	Email      EmailConfig      `json:"email"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    MetricsConfig    `json:"metrics"`
	Cache      CacheConfig      `json:"cache"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
	Admin      AdminConfig      `json:"admin"`
	Deployment DeploymentConfig `json:"deployment"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver"` // postgres or sqlite
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	SQLitePath      string        `json:"sqlite_path"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	SlowQueryTime   time.Duration `json:"slow_query_time"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
}

type SecurityConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`

	// requests per window
	AuthRateLimit   int           `json:"auth_rate_limit"`
	GlobalRateLimit int           `json:"global_rate_limit"`
	RateLimitWindow time.Duration `json:"rate_limit_window"`

	BcryptCost int `json:"bcrypt_cost"`

	CookieSecure bool   `json:"cookie_secure"`
	CookieDomain string `json:"cookie_domain"`
}

type JWTConfig struct {
	SecretKey  string        `json:"secret_key"`
	PrivateKey string        `json:"private_key"`  // RSA private key in PEM format
	PublicKey  string        `json:"public_key"`   // RSA public key in PEM format
	UseRSAKeys bool          `json:"use_rsa_keys"` // Whether to use RSA keys instead of secret key
	TokenTTL   time.Duration `json:"token_ttl"`
	Issuer     string        `json:"issuer"`
	Audience   string        `json:"audience"`
}

type AuthConfig struct {
	MaxFailedAttempts int           `json:"max_failed_attempts"`
	LockoutDuration   time.Duration `json:"lockout_duration"`
}

type EmailConfig struct {
	Provider    string        `json:"provider"` // smtp or log
	Host        string        `json:"host"`
	Port        int           `json:"port"`
	Username    string        `json:"username"`
	Password    string        `json:"password"`
	FromEmail   string        `json:"from_email"`
	FromName    string        `json:"from_name"`
	UseTLS      bool          `json:"use_tls"`
	Timeout     time.Duration `json:"timeout"`
	CompanyName string        `json:"company_name"`
}

type LoggingConfig struct {
	Level           string `json:"level"`
	Format          string `json:"format"`
	Output          string `json:"output"`
	FilePath        string `json:"file_path"`
	MaxSize         int    `json:"max_size"`
	MaxBackups      int    `json:"max_backups"`
	MaxAge          int    `json:"max_age"`
	Compress        bool   `json:"compress"`
	EnableAccessLog bool   `json:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Provider        string        `json:"provider"` // redis or memory
	RedisURL        string        `json:"redis_url"`
	RedisPrefix     string        `json:"redis_prefix"`
	DefaultTTL      time.Duration `json:"default_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

type SchedulerConfig struct {
	Enabled       bool   `json:"enabled"`
	JobExpirySpec string `json:"job_expiry_spec"`
}

// AdminConfig covers the bootstrap account and the inbox for new-submission alerts
type AdminConfig struct {
	DefaultUsername   string `json:"default_username"`
	DefaultEmail      string `json:"default_email"`
	DefaultPassword   string `json:"-"`
	NotificationEmail string `json:"notification_email"`
}

type DeploymentConfig struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
	CommitHash  string `json:"commit_hash"`
	BuildTime   string `json:"build_time"`
}

// IsProduction reports whether APP_ENV selects production
func (c *ProductionConfig) IsProduction() bool {
	return c.Deployment.Environment == "production"
}

// ListenAddress returns host:port for the HTTP server
func (c *ProductionConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

var defaults = map[string]any{
	"DB_DRIVER":             "postgres",
	"DB_HOST":               "localhost",
	"DB_PORT":               5432,
	"DB_NAME":               "studio",
	"DB_USER":               "studio",
	"DB_SSL_MODE":           "disable",
	"DB_SQLITE_PATH":        "data/studio.db",
	"DB_MAX_OPEN_CONNS":     25,
	"DB_MAX_IDLE_CONNS":     5,
	"DB_CONN_MAX_LIFETIME":  "30m",
	"DB_CONN_MAX_IDLE_TIME": "5m",
	"DB_SLOW_QUERY_TIME":    "200ms",

	"SERVER_HOST":             "0.0.0.0",
	"SERVER_PORT":             8080,
	"SERVER_READ_TIMEOUT":     "10s",
	"SERVER_WRITE_TIMEOUT":    "30s",
	"SERVER_IDLE_TIMEOUT":     "60s",
	"SERVER_SHUTDOWN_TIMEOUT": "15s",
	"SERVER_BODY_LIMIT":       1024 * 1024,

	"CORS_ALLOWED_ORIGINS": "",
	"AUTH_RATE_LIMIT":      20,
	"GLOBAL_RATE_LIMIT":    300,
	"RATE_LIMIT_WINDOW":    "1m",
	"BCRYPT_COST":          12,
	"COOKIE_SECURE":        true,
	"COOKIE_DOMAIN":        "",

	"JWT_SECRET_KEY":   "",
	"JWT_PRIVATE_KEY":  "",
	"JWT_PUBLIC_KEY":   "",
	"JWT_USE_RSA_KEYS": false,
	"JWT_TOKEN_TTL":    "24h",
	"JWT_ISSUER":       "studio-hiring-api",
	"JWT_AUDIENCE":     "studio-admin",

	"AUTH_MAX_FAILED_ATTEMPTS": 5,
	"AUTH_LOCKOUT_DURATION":    "2h",

	"EMAIL_PROVIDER":     "smtp",
	"EMAIL_HOST":         "",
	"EMAIL_PORT":         587,
	"EMAIL_USERNAME":     "",
	"EMAIL_PASSWORD":     "",
	"EMAIL_FROM_EMAIL":   "",
	"EMAIL_FROM_NAME":    "Studio",
	"EMAIL_USE_TLS":      true,
	"EMAIL_TIMEOUT":      "30s",
	"EMAIL_COMPANY_NAME": "Studio",

	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "json",
	"LOG_OUTPUT":        "stdout",
	"LOG_FILE_PATH":     "logs/app.log",
	"LOG_MAX_SIZE":      100,
	"LOG_MAX_BACKUPS":   10,
	"LOG_MAX_AGE":       30,
	"LOG_COMPRESS":      true,
	"LOG_ENABLE_ACCESS": true,

	"METRICS_ENABLED": true,
	"METRICS_PATH":    "/metrics",

	"CACHE_ENABLED":          true,
	"CACHE_PROVIDER":         "memory",
	"CACHE_REDIS_URL":        "redis://localhost:6379/0",
	"CACHE_REDIS_PREFIX":     "studio",
	"CACHE_DEFAULT_TTL":      "1m",
	"CACHE_CLEANUP_INTERVAL": "10m",

	"SCHEDULER_ENABLED":         true,
	"SCHEDULER_JOB_EXPIRY_SPEC": "@every 1h",

	"ADMIN_DEFAULT_USERNAME":   "admin",
	"ADMIN_DEFAULT_EMAIL":      "",
	"ADMIN_DEFAULT_PASSWORD":   "",
	"ADMIN_NOTIFICATION_EMAIL": "",

	"APP_ENV":     "production",
	"VERSION":     "1.0.0",
	"COMMIT_HASH": "unknown",
	"BUILD_TIME":  "unknown",
}

// LoadProductionConfig reads an optional .env file, then the environment
func LoadProductionConfig() (*ProductionConfig, error) {
	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Name:            v.GetString("DB_NAME"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			SQLitePath:      v.GetString("DB_SQLITE_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			SlowQueryTime:   v.GetDuration("DB_SLOW_QUERY_TIME"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			BodyLimit:       v.GetInt("SERVER_BODY_LIMIT"),
		},
		Security: SecurityConfig{
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AuthRateLimit:   v.GetInt("AUTH_RATE_LIMIT"),
			GlobalRateLimit: v.GetInt("GLOBAL_RATE_LIMIT"),
			RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			CookieSecure:    v.GetBool("COOKIE_SECURE"),
			CookieDomain:    v.GetString("COOKIE_DOMAIN"),
		},
		JWT: JWTConfig{
			SecretKey:  v.GetString("JWT_SECRET_KEY"),
			PrivateKey: v.GetString("JWT_PRIVATE_KEY"),
			PublicKey:  v.GetString("JWT_PUBLIC_KEY"),
			UseRSAKeys: v.GetBool("JWT_USE_RSA_KEYS"),
			TokenTTL:   v.GetDuration("JWT_TOKEN_TTL"),
			Issuer:     v.GetString("JWT_ISSUER"),
			Audience:   v.GetString("JWT_AUDIENCE"),
		},
		Auth: AuthConfig{
			MaxFailedAttempts: v.GetInt("AUTH_MAX_FAILED_ATTEMPTS"),
			LockoutDuration:   v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Email: EmailConfig{
			Provider:    strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			Host:        v.GetString("EMAIL_HOST"),
			Port:        v.GetInt("EMAIL_PORT"),
			Username:    v.GetString("EMAIL_USERNAME"),
			Password:    v.GetString("EMAIL_PASSWORD"),
			FromEmail:   v.GetString("EMAIL_FROM_EMAIL"),
			FromName:    v.GetString("EMAIL_FROM_NAME"),
			UseTLS:      v.GetBool("EMAIL_USE_TLS"),
			Timeout:     v.GetDuration("EMAIL_TIMEOUT"),
			CompanyName: v.GetString("EMAIL_COMPANY_NAME"),
		},
		Logging: LoggingConfig{
			Level:           strings.ToLower(v.GetString("LOG_LEVEL")),
			Format:          strings.ToLower(v.GetString("LOG_FORMAT")),
			Output:          strings.ToLower(v.GetString("LOG_OUTPUT")),
			FilePath:        v.GetString("LOG_FILE_PATH"),
			MaxSize:         v.GetInt("LOG_MAX_SIZE"),
			MaxBackups:      v.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:          v.GetInt("LOG_MAX_AGE"),
			Compress:        v.GetBool("LOG_COMPRESS"),
			EnableAccessLog: v.GetBool("LOG_ENABLE_ACCESS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Cache: CacheConfig{
			Enabled:         v.GetBool("CACHE_ENABLED"),
			Provider:        strings.ToLower(v.GetString("CACHE_PROVIDER")),
			RedisURL:        v.GetString("CACHE_REDIS_URL"),
			RedisPrefix:     v.GetString("CACHE_REDIS_PREFIX"),
			DefaultTTL:      v.GetDuration("CACHE_DEFAULT_TTL"),
			CleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       v.GetBool("SCHEDULER_ENABLED"),
			JobExpirySpec: v.GetString("SCHEDULER_JOB_EXPIRY_SPEC"),
		},
		Admin: AdminConfig{
			DefaultUsername:   v.GetString("ADMIN_DEFAULT_USERNAME"),
			DefaultEmail:      v.GetString("ADMIN_DEFAULT_EMAIL"),
			DefaultPassword:   v.GetString("ADMIN_DEFAULT_PASSWORD"),
			NotificationEmail: v.GetString("ADMIN_NOTIFICATION_EMAIL"),
		},
		Deployment: DeploymentConfig{
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("VERSION"),
			CommitHash:  v.GetString("COMMIT_HASH"),
			BuildTime:   v.GetString("BUILD_TIME"),
		},
	}

	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads variables from path if it exists. Variables already set
// in the environment win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidateProductionConfig collects every configuration problem into one error
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var problems []string

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			problems = append(problems, "DB_HOST is required")
		}
		if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
			problems = append(problems, "DB_PORT must be between 1 and 65535")
		}
		if cfg.Database.Name == "" {
			problems = append(problems, "DB_NAME is required")
		}
		if cfg.Database.User == "" {
			problems = append(problems, "DB_USER is required")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			problems = append(problems, "DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		problems = append(problems, "DB_DRIVER must be one of: postgres sqlite")
	}

	if cfg.JWT.UseRSAKeys {
		if cfg.JWT.PrivateKey == "" || cfg.JWT.PublicKey == "" {
			problems = append(problems, "JWT_PRIVATE_KEY and JWT_PUBLIC_KEY are required when JWT_USE_RSA_KEYS is set")
		}
	} else if len(cfg.JWT.SecretKey) < 32 {
		problems = append(problems, "JWT_SECRET_KEY must be at least 32 characters long")
	}
	if cfg.JWT.TokenTTL <= 0 {
		problems = append(problems, "JWT_TOKEN_TTL must be positive")
	}
	if cfg.JWT.Issuer == "" {
		problems = append(problems, "JWT_ISSUER is required")
	}
	if cfg.JWT.Audience == "" {
		problems = append(problems, "JWT_AUDIENCE is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, "SERVER_PORT must be between 1 and 65535")
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 || cfg.Server.IdleTimeout <= 0 {
		problems = append(problems, "SERVER_READ_TIMEOUT, SERVER_WRITE_TIMEOUT and SERVER_IDLE_TIMEOUT must be positive")
	}

	if cfg.Security.BcryptCost < 10 || cfg.Security.BcryptCost > 14 {
		problems = append(problems, "BCRYPT_COST must be between 10 and 14")
	}
	if cfg.Security.AuthRateLimit <= 0 || cfg.Security.GlobalRateLimit <= 0 {
		problems = append(problems, "AUTH_RATE_LIMIT and GLOBAL_RATE_LIMIT must be positive")
	}

	if cfg.Auth.MaxFailedAttempts <= 0 {
		problems = append(problems, "AUTH_MAX_FAILED_ATTEMPTS must be positive")
	}
	if cfg.Auth.LockoutDuration <= 0 {
		problems = append(problems, "AUTH_LOCKOUT_DURATION must be positive")
	}

	switch cfg.Email.Provider {
	case "log":
	case "smtp":
		if cfg.Email.Host == "" {
			problems = append(problems, "EMAIL_HOST is required for the smtp provider")
		}
		if cfg.Email.FromEmail == "" {
			problems = append(problems, "EMAIL_FROM_EMAIL is required for the smtp provider")
		}
		if cfg.Email.Port <= 0 || cfg.Email.Port > 65535 {
			problems = append(problems, "EMAIL_PORT must be between 1 and 65535")
		}
	default:
		problems = append(problems, "EMAIL_PROVIDER must be one of: smtp log")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	levelOK := false
	for _, level := range validLevels {
		if cfg.Logging.Level == level {
			levelOK = true
			break
		}
	}
	if !levelOK {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of: %v", validLevels))
	}
	if cfg.Logging.Output != "stdout" && cfg.Logging.FilePath == "" {
		problems = append(problems, "LOG_FILE_PATH is required when LOG_OUTPUT writes to a file")
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Provider != "redis" && cfg.Cache.Provider != "memory" {
			problems = append(problems, "CACHE_PROVIDER must be one of: redis memory")
		}
		if cfg.Cache.Provider == "redis" && cfg.Cache.RedisURL == "" {
			problems = append(problems, "CACHE_REDIS_URL is required when cache is enabled with redis provider")
		}
		if cfg.Cache.DefaultTTL <= 0 {
			problems = append(problems, "CACHE_DEFAULT_TTL must be positive")
		}
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.JobExpirySpec == "" {
		problems = append(problems, "SCHEDULER_JOB_EXPIRY_SPEC is required when the scheduler is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
