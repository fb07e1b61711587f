package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/tastebook/tastebook/internal/config"
	"github.com/tastebook/tastebook/internal/utils"
)

// JWT errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// SessionClaims represents the claims in a session token
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed, time-limited session tokens.
// The signing secret, TTL, and issuer are fixed at construction time
// from the immutable JWT configuration; the service holds no other state.
type JWTService struct {
	config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.JWTSettings) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// Expiry returns the configured token validity window.
func (s *JWTService) Expiry() time.Duration {
	return s.config.Expiry
}

// GenerateToken issues a new signed session token embedding the user's
// identity and an absolute expiry of now plus the configured TTL.
// It returns the token string and its unique JWT ID.
func (s *JWTService) GenerateToken(userID int64, name, email string) (string, string, error) {
	jwtID := uuid.New().String()

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken verifies a session token's signature and expiry and returns
// its claims if valid. Expired tokens and malformed or forged tokens both
// fail verification, but produce distinguishable errors for diagnostics:
// an expired token yields utils.ErrExpiredToken, anything else yields
// utils.ErrInvalidToken. Callers must treat both as a rejection.
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	if !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}
