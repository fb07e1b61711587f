// Package auth provides authentication and authorization functionality for the
// Tastebook API: session token issuance and verification, password hashing,
// request authentication middleware, and the resource ownership guard.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/utils"
)

// ContextKey is a custom type for context keys to prevent collisions.
type ContextKey string

// Context keys for storing authenticated user information and request metadata.
const (
	// UserIDContextKey is the context key for storing the authenticated user ID.
	UserIDContextKey ContextKey = constants.UserIDContextKey

	// UserNameContextKey is the context key for storing the authenticated user's display name.
	UserNameContextKey ContextKey = constants.UserNameContextKey

	// EmailContextKey is the context key for storing the authenticated user's email.
	EmailContextKey ContextKey = constants.EmailContextKey

	// RequestIDContextKey is the context key for storing the unique request ID.
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// Provider defines the authentication mechanism: it extracts credentials
// from the request, verifies them, and returns the identity they encode.
type Provider interface {
	// Authenticate checks the request and returns the user ID, display name,
	// and email embedded in the credentials, or an error if they are missing,
	// malformed, forged, or expired.
	Authenticate(r *http.Request) (int64, string, string, error)
}

// UserChecker reports whether a user record currently exists. The middleware
// uses it to guarantee that the identity bound to the request context always
// corresponds to a real, currently-existing user, not merely a valid token.
type UserChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// JWTAuthProvider implements token-based authentication. It extracts the
// session token from the Authorization header (bearer scheme) or from the
// session cookie, and verifies it with the token service.
type JWTAuthProvider struct {
	jwtService JWTValidator
}

// NewJWTAuthProvider creates a new JWTAuthProvider with the specified validator.
func NewJWTAuthProvider(jwtService JWTValidator) *JWTAuthProvider {
	return &JWTAuthProvider{
		jwtService: jwtService,
	}
}

// Authenticate implements the Provider interface for session tokens.
func (p *JWTAuthProvider) Authenticate(r *http.Request) (int64, string, string, error) {
	authHeader := r.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		// Check for the token in the session cookie as fallback
		cookie, err := r.Cookie(constants.SessionTokenCookie)
		if err != nil {
			return 0, "", "", utils.ErrUnauthorized
		}
		authHeader = constants.BearerTokenPrefix + cookie.Value
	}

	if !strings.HasPrefix(authHeader, constants.BearerTokenPrefix) {
		return 0, "", "", utils.ErrUnauthorized
	}

	token := strings.TrimPrefix(authHeader, constants.BearerTokenPrefix)

	claims, err := p.jwtService.ValidateToken(token)
	if err != nil {
		return 0, "", "", err
	}

	return claims.UserID, claims.Name, claims.Email, nil
}

// RequireAuth returns a middleware that enforces authentication.
//
// A request transitions from unauthenticated to either authenticated or
// rejected: a missing token rejects with 401; a token that fails
// verification rejects with 401; a valid token whose user record no longer
// exists rejects with 401. On success the resolved identity is bound to the
// request context, so downstream handlers may assume it belongs to a real,
// currently-existing user.
func RequireAuth(provider Provider, users UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Use the router's request ID for tracking, generating one only
			// when the middleware chain did not assign it
			requestID := chimiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = uuid.New().String()
			}
			ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

			userID, name, email, err := provider.Authenticate(r)
			if err != nil {
				log.Info().
					Err(err).
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Authentication failed")

				rejectUnauthenticated(w, err)
				return
			}

			// The token alone is not enough: the embedded identity must still
			// resolve to an existing user record.
			exists, err := users.ExistsByID(ctx, userID)
			if err != nil {
				log.Error().
					Err(err).
					Str("request_id", requestID).
					Int64("user_id", userID).
					Msg("User existence check failed")
				utils.InternalServerError(w, err)
				return
			}
			if !exists {
				log.Info().
					Str("request_id", requestID).
					Int64("user_id", userID).
					Msg("Token references a user that no longer exists")
				utils.Unauthorized(w, constants.MsgAuthRequired)
				return
			}

			ctx = context.WithValue(ctx, UserIDContextKey, userID)
			ctx = context.WithValue(ctx, UserNameContextKey, name)
			ctx = context.WithValue(ctx, EmailContextKey, email)

			log.Debug().
				Int64("user_id", userID).
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("User authenticated")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rejectUnauthenticated renders an authentication failure. Expired and
// invalid tokens are both rejected with 401, but keep their distinct error
// codes for diagnostics.
func rejectUnauthenticated(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		utils.ErrorFromAppError(w, appErr)
	case errors.Is(err, utils.ErrExpiredToken):
		utils.ErrorFromAppError(w, utils.NewExpiredTokenError())
	default:
		utils.Unauthorized(w, constants.MsgAuthRequired)
	}
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetUserName extracts the authenticated user's display name from the request context.
func GetUserName(r *http.Request) (string, bool) {
	name, ok := r.Context().Value(UserNameContextKey).(string)
	return name, ok
}

// GetEmail extracts the authenticated user's email from the request context.
func GetEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(EmailContextKey).(string)
	return email, ok
}

// GetRequestID extracts the request ID from the request context, falling
// back to the router-assigned ID for requests that never passed through
// RequireAuth.
func GetRequestID(r *http.Request) (string, bool) {
	if requestID, ok := r.Context().Value(RequestIDContextKey).(string); ok {
		return requestID, true
	}
	if requestID := chimiddleware.GetReqID(r.Context()); requestID != "" {
		return requestID, true
	}
	return "", false
}

// IsAuthenticated checks if the request carries an authenticated identity.
func IsAuthenticated(r *http.Request) bool {
	_, ok := GetUserID(r)
	return ok
}
