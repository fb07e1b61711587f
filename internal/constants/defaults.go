// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings and establish boundaries for resource usage.
package constants

import "time"

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 20

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// TopLikedLimit is the number of recipes returned by the top-liked listing.
	TopLikedLimit = 10
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultUploadDir is the default directory for uploaded recipe photos.
	DefaultUploadDir = "./public/uploads"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 10 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Authentication Durations
const (
	// DefaultJWTExpiry is the default validity window of a session token.
	DefaultJWTExpiry = 24 * time.Hour

	// DefaultResetTokenExpiry is the default validity window of a password reset token.
	DefaultResetTokenExpiry = 10 * time.Minute
)

// Rate Limiting Defaults applied to credential endpoints.
const (
	// DefaultRateLimitPerSecond is the sustained request rate allowed per client.
	DefaultRateLimitPerSecond = 2.0

	// DefaultRateLimitBurst is the burst capacity allowed per client.
	DefaultRateLimitBurst = 5

	// DefaultRateLimitCleanupInterval is how often idle per-client limiters
	// are evicted from the limiter store.
	DefaultRateLimitCleanupInterval = 5 * time.Minute
)
