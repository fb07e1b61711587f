// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing,
// request parameters, headers, and cookies. These constants ensure consistent API
// patterns and URL structure throughout the application.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api/v1"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamRecipeID is the URL parameter for recipe identifiers.
	ParamRecipeID = "recipeID"

	// ParamResetToken is the URL parameter for password reset tokens.
	ParamResetToken = "resetToken"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamPage is the query parameter for pagination page number.
	QueryParamPage = "page"

	// QueryParamPageSize is the query parameter for pagination page size.
	QueryParamPageSize = "page_size"

	// QueryParamSearch is the query parameter for text search terms.
	QueryParamSearch = "q"
)

// HTTP Headers used by the API.
const (
	// HeaderAuthorization is the standard authorization header.
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the standard content type header.
	HeaderContentType = "Content-Type"

	// HeaderXRequestID carries the unique request identifier.
	HeaderXRequestID = "X-Request-ID"

	// BearerTokenPrefix is the prefix for bearer tokens in the Authorization header.
	BearerTokenPrefix = "Bearer "

	// ContentTypeJSON is the JSON content type value.
	ContentTypeJSON = "application/json"
)

// Cookies used for session token delivery.
const (
	// SessionTokenCookie is the name of the cookie carrying the session token.
	// The token is also mirrored in the login/register response body for
	// clients that do not use cookies.
	SessionTokenCookie = "token"
)

// Context keys for values bound to the request context by the auth middleware.
const (
	// UserIDContextKey is the context key for the authenticated user ID.
	UserIDContextKey = "user_id"

	// UserNameContextKey is the context key for the authenticated user's display name.
	UserNameContextKey = "user_name"

	// EmailContextKey is the context key for the authenticated user's email.
	EmailContextKey = "email"

	// RequestIDContextKey is the context key for the unique request ID.
	RequestIDContextKey = "request_id"
)

// Recipe categories accepted by the API.
const (
	CategoryAppetizer  = "Appetizer"
	CategoryMainCourse = "Main-course"
	CategoryDessert    = "Dessert"
)

// Limits on request and upload sizes.
const (
	// MaxRequestBodySize is the maximum accepted JSON body size in bytes.
	MaxRequestBodySize = 1 << 20 // 1 MB

	// MaxPhotoUploadSize is the maximum accepted photo upload size in bytes.
	MaxPhotoUploadSize = 5 << 20 // 5 MB

	// DefaultRecipePhoto is the photo file name used when no photo was uploaded.
	DefaultRecipePhoto = "no-photo.jpg"
)
