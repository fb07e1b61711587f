package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/config"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/repository"
	"github.com/tastebook/tastebook/internal/utils"
)

// resetTokenBytes is the entropy of the plaintext reset token.
const resetTokenBytes = 20

// PasswordResetService implements the two-step password reset flow:
// RequestReset issues a short-lived single-use token and emails it to the
// account holder, ConsumeReset redeems the token for a new password.
//
// The plaintext token is never stored. The database holds only its SHA-256
// hash, so a leaked users table cannot be replayed into a reset.
type PasswordResetService struct {
	userRepo    repository.UserRepository
	emailSender EmailSender
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
	tokenExpiry time.Duration
	resetURL    string
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	userRepo repository.UserRepository,
	emailSender EmailSender,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
	cfg *config.PasswordResetSettings,
) *PasswordResetService {
	expiry := cfg.TokenExpiry
	if expiry <= 0 {
		expiry = constants.DefaultResetTokenExpiry
	}
	return &PasswordResetService{
		userRepo:    userRepo,
		emailSender: emailSender,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
		tokenExpiry: expiry,
		resetURL:    cfg.ResetURL,
	}
}

// hashResetToken produces the stored form of a reset token.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// generateResetToken returns a random hex token.
func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RequestReset starts the reset flow for the account with the given email.
// If the email cannot be delivered, the stored token is cleared before the
// error is returned, so no token exists that the user never received.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(s.tokenExpiry)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hashResetToken(token), expiry); err != nil {
		return err
	}

	resetURL := s.buildResetURL(token)
	if err := s.emailSender.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		// Roll the token back so an undeliverable token cannot linger
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			log.Error().Err(clearErr).Int64("user_id", user.ID).Msg("Failed to clear reset token after delivery failure")
		}
		return utils.NewDependencyError(constants.MsgEmailDeliveryFailed, err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Time("expires_at", expiry).
		Msg("Password reset requested")

	return nil
}

// ConsumeReset redeems a reset token for a new password. The token is valid
// only if its hash matches a stored hash whose window has not expired; the
// redeeming update clears the stored hash, making the token single-use. On
// success a fresh session token is returned so the user is logged in
// immediately.
func (s *PasswordResetService) ConsumeReset(ctx context.Context, token, newPassword string) (*models.User, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, "", utils.NewBadRequestError(constants.MsgResetTokenInvalid)
	}

	user, err := s.userRepo.GetByResetTokenHash(ctx, hashResetToken(token), time.Now())
	if err != nil {
		return nil, "", err
	}

	hash, salt, err := auth.HashPassword(newPassword, s.passwordCfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ResetPassword(ctx, user.ID, hash, salt); err != nil {
		return nil, "", err
	}

	sessionToken, _, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth("password_reset", user.ID, user.Email, true, "")

	return user.Sanitize(), sessionToken, nil
}

// buildResetURL embeds the plaintext token into the configured reset link.
func (s *PasswordResetService) buildResetURL(token string) string {
	if strings.Contains(s.resetURL, "%s") {
		return fmt.Sprintf(s.resetURL, token)
	}
	return strings.TrimRight(s.resetURL, "/") + "/" + token
}
