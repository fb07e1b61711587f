package auth

// JWTValidator defines the interface for session token verification.
// It is satisfied by *JWTService and by test doubles.
type JWTValidator interface {
	// ValidateToken verifies a session token and returns its claims if valid
	ValidateToken(tokenString string) (*SessionClaims, error)
}
