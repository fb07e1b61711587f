// Package middleware provides HTTP middleware for the Tastebook API:
// authentication, panic recovery, request logging and rate limiting.
package middleware

import (
	"net/http"

	"github.com/tastebook/tastebook/internal/auth"
)

// JWTAuth returns middleware that authenticates requests with the given JWT
// validator and verifies that the token's subject still exists. Handlers
// behind it can rely on auth.GetUserID returning a live account.
func JWTAuth(jwtValidator auth.JWTValidator, users auth.UserChecker) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtValidator)
	return auth.RequireAuth(provider, users)
}
