package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/repository"
	"github.com/tastebook/tastebook/internal/utils"
)

// AuthService handles registration, login and account maintenance for
// authenticated users.
type AuthService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
	}
}

// RegisterUser creates a new user account with a hashed password and returns
// the sanitized user together with a session token, so registration doubles
// as the first login.
func (s *AuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, string, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		return nil, "", utils.NewDuplicateError("User", "email", reg.Email)
	}

	hash, salt, err := auth.HashPassword(reg.Password, s.passwordCfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(reg.Name, reg.Email)
	user.PasswordHash = hash
	user.Salt = salt

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, _, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth("register", user.ID, user.Email, true, "")

	return user.Sanitize(), token, nil
}

// AuthenticateUser verifies the given credentials and returns the user with a
// fresh session token. A missing account and a wrong password produce the
// same error, so login failures do not reveal which part was wrong.
func (s *AuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login", 0, creds.Email, false, "unknown email")
			return nil, "", utils.NewInvalidCredentialsError()
		}
		return nil, "", err
	}

	valid, err := auth.VerifyPassword(creds.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		utils.LogAuth("login", user.ID, user.Email, false, "wrong password")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	token, _, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth("login", user.ID, user.Email, true, "")

	return user.Sanitize(), token, nil
}

// GetCurrentUser retrieves the authenticated user's profile
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// UpdateDetails changes the user's name and/or email. Empty fields are left
// untouched.
func (s *AuthService) UpdateDetails(ctx context.Context, userID int64, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Email != "" && update.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, update.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if exists {
			return nil, utils.NewDuplicateError("User", "email", update.Email)
		}
		user.Email = update.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", userID).Msg("User details updated")

	return user.Sanitize(), nil
}

// UpdatePassword changes the user's password after verifying the current one,
// and issues a fresh session token for the new credentials.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, update *models.PasswordUpdate) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	valid, err := auth.VerifyPassword(update.CurrentPassword, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		utils.LogAuth("password_change", user.ID, user.Email, false, "wrong current password")
		return "", utils.NewInvalidCredentialsError()
	}

	hash, salt, err := auth.HashPassword(update.NewPassword, s.passwordCfg)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ChangePassword(ctx, userID, hash, salt); err != nil {
		return "", err
	}

	token, _, err := s.jwtService.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	utils.LogAuth("password_change", user.ID, user.Email, true, "")

	return token, nil
}
