// Package config loads and validates the application configuration.
//
// Configuration is read from a YAML file, then overridden by environment
// variables declared through `env` struct tags, then completed with defaults.
// The resulting AppConfig is treated as immutable for the lifetime of the
// process: components receive the sub-sections they need at construction time.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/tastebook/tastebook/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Email         EmailSettings         `yaml:"email"`
	Uploads       UploadSettings        `yaml:"uploads"`
	RateLimit     RateLimitSettings     `yaml:"rate_limit"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains session token settings. The secret and expiry are
// loaded once at startup and passed to the token service at construction.
type JWTSettings struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" env:"JWT_EXPIRY"`
	Issuer string        `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// PasswordResetSettings contains password reset flow settings
type PasswordResetSettings struct {
	TokenExpiry time.Duration `yaml:"token_expiry" env:"RESET_TOKEN_EXPIRY"`
	ResetURL    string        `yaml:"reset_url" env:"RESET_URL"`
}

// EmailSettings contains outbound email settings
type EmailSettings struct {
	APIKey      string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromAddress string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	FromName    string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
}

// UploadSettings contains recipe photo upload settings
type UploadSettings struct {
	Dir         string `yaml:"dir" env:"UPLOAD_DIR"`
	MaxFileSize int64  `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE"`
}

// RateLimitSettings contains rate limiting configuration for credential endpoints
type RateLimitSettings struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
}

// ConnectionString returns the PostgreSQL connection string
func (dbs *DatabaseSettings) ConnectionString() string {
	sslMode := dbs.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, sslMode,
	)
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment returns true when the application runs in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction returns true when the application runs in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting returns true when the application runs in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = "tastebook-api"
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = "tastebook-api"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	if config.PasswordHash.Memory == 0 {
		config.PasswordHash.Memory = 64 * 1024
	}
	if config.PasswordHash.Iterations == 0 {
		config.PasswordHash.Iterations = 3
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = 2
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = 16
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = 32
	}

	if config.PasswordReset.TokenExpiry == 0 {
		config.PasswordReset.TokenExpiry = constants.DefaultResetTokenExpiry
	}
	if config.PasswordReset.ResetURL == "" {
		config.PasswordReset.ResetURL = "http://localhost:3000/resetpassword/%s"
	}

	if config.Email.FromAddress == "" {
		config.Email.FromAddress = "support@tastebook.dev"
	}
	if config.Email.FromName == "" {
		config.Email.FromName = "Tastebook Support"
	}

	if config.Uploads.Dir == "" {
		config.Uploads.Dir = constants.DefaultUploadDir
	}
	if config.Uploads.MaxFileSize == 0 {
		config.Uploads.MaxFileSize = constants.MaxPhotoUploadSize
	}

	if config.RateLimit.RequestsPerSecond == 0 {
		config.RateLimit.RequestsPerSecond = constants.DefaultRateLimitPerSecond
	}
	if config.RateLimit.Burst == 0 {
		config.RateLimit.Burst = constants.DefaultRateLimitBurst
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		return fmt.Errorf("invalid environment: %s", config.App.Environment)
	}

	// In production a real signing secret is mandatory
	if config.App.IsProduction() && (config.JWT.Secret == "" || config.JWT.Secret == "changeme") {
		return fmt.Errorf("JWT secret must be set in production")
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	switch logLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the loaded configuration, masking sensitive values
func logConfig(config *AppConfig) {
	log.Info().
		Str("environment", config.App.Environment).
		Str("server_address", config.Server.ServerAddress()).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Dur("jwt_expiry", config.JWT.Expiry).
		Dur("reset_token_expiry", config.PasswordReset.TokenExpiry).
		Str("upload_dir", config.Uploads.Dir).
		Msg("Configuration loaded")
}
