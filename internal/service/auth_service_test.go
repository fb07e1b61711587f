package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/config"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(&config.JWTSettings{
		Secret: "test-secret-key-for-unit-tests",
		Expiry: time.Hour,
		Issuer: "tastebook-test",
	})
}

// testPasswordConfig uses low Argon2 cost so the suite stays fast.
func testPasswordConfig() *auth.PasswordConfig {
	cfg := auth.DefaultPasswordConfig()
	cfg.Memory = 16 * 1024
	cfg.Iterations = 1
	return cfg
}

func setupAuthService() (*AuthService, *MockUserRepository) {
	userRepo := NewMockUserRepository()
	svc := NewAuthService(userRepo, testJWTService(), testPasswordConfig())
	return svc, userRepo
}

func registerTestUser(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	user, _, err := svc.RegisterUser(context.Background(), &models.UserRegistration{
		Name:     "Alice",
		Email:    email,
		Password: "Str0ngPassw0rd!",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_RegisterUser(t *testing.T) {
	svc, repo := setupAuthService()

	user, token, err := svc.RegisterUser(context.Background(), &models.UserRegistration{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPassw0rd!",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.PasswordHash, "sanitized user must not expose the hash")

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "Str0ngPassw0rd!", stored.PasswordHash)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService()
	registerTestUser(t, svc, "alice@example.com")

	_, _, err := svc.RegisterUser(context.Background(), &models.UserRegistration{
		Name:     "Imposter",
		Email:    "alice@example.com",
		Password: "An0therPassw0rd!",
	})

	assert.True(t, utils.IsConflictError(err))
}

func TestAuthService_AuthenticateUser(t *testing.T) {
	svc, _ := setupAuthService()
	registered := registerTestUser(t, svc, "alice@example.com")

	user, token, err := svc.AuthenticateUser(context.Background(), &models.UserCredentials{
		Email:    "alice@example.com",
		Password: "Str0ngPassw0rd!",
	})

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	// The token must carry the user's identity
	claims, err := testJWTService().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestAuthService_AuthenticateUser_WrongPassword(t *testing.T) {
	svc, _ := setupAuthService()
	registerTestUser(t, svc, "alice@example.com")

	_, _, err := svc.AuthenticateUser(context.Background(), &models.UserCredentials{
		Email:    "alice@example.com",
		Password: "WrongPassw0rd!",
	})

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}

func TestAuthService_AuthenticateUser_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthService()

	_, _, err := svc.AuthenticateUser(context.Background(), &models.UserCredentials{
		Email:    "nobody@example.com",
		Password: "Str0ngPassw0rd!",
	})

	// Same error as a wrong password, so login failures reveal nothing
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, _ := setupAuthService()
	registered := registerTestUser(t, svc, "alice@example.com")

	user, err := svc.GetCurrentUser(context.Background(), registered.ID)

	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)
	assert.Empty(t, user.Salt)
}

func TestAuthService_UpdateDetails(t *testing.T) {
	svc, _ := setupAuthService()
	registered := registerTestUser(t, svc, "alice@example.com")

	user, err := svc.UpdateDetails(context.Background(), registered.ID, &models.UserUpdate{
		Name:  "Alice Cooper",
		Email: "alice.cooper@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", user.Name)
	assert.Equal(t, "alice.cooper@example.com", user.Email)
}

func TestAuthService_UpdateDetails_EmailTaken(t *testing.T) {
	svc, _ := setupAuthService()
	registerTestUser(t, svc, "taken@example.com")
	registered := registerTestUser(t, svc, "alice@example.com")

	_, err := svc.UpdateDetails(context.Background(), registered.ID, &models.UserUpdate{
		Email: "taken@example.com",
	})

	assert.True(t, utils.IsConflictError(err))
}

func TestAuthService_UpdatePassword(t *testing.T) {
	svc, _ := setupAuthService()
	registered := registerTestUser(t, svc, "alice@example.com")

	token, err := svc.UpdatePassword(context.Background(), registered.ID, &models.PasswordUpdate{
		CurrentPassword: "Str0ngPassw0rd!",
		NewPassword:     "Brand-New-Passw0rd",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Old password no longer works, new one does
	_, _, err = svc.AuthenticateUser(context.Background(), &models.UserCredentials{
		Email:    "alice@example.com",
		Password: "Str0ngPassw0rd!",
	})
	assert.Error(t, err)

	_, _, err = svc.AuthenticateUser(context.Background(), &models.UserCredentials{
		Email:    "alice@example.com",
		Password: "Brand-New-Passw0rd",
	})
	assert.NoError(t, err)
}

func TestAuthService_UpdatePassword_WrongCurrent(t *testing.T) {
	svc, _ := setupAuthService()
	registered := registerTestUser(t, svc, "alice@example.com")

	_, err := svc.UpdatePassword(context.Background(), registered.ID, &models.PasswordUpdate{
		CurrentPassword: "WrongPassw0rd!",
		NewPassword:     "Brand-New-Passw0rd",
	})

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.StatusCode)
}
