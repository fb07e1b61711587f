// Package handlers implements the HTTP layer of the Tastebook API. Handlers
// decode and validate requests, call into the service layer, and render
// responses through the shared response utilities.
package handlers

import (
	"context"
	"mime/multipart"

	"github.com/tastebook/tastebook/internal/models"
)

// AuthManager is the part of the auth service the handlers depend on.
type AuthManager interface {
	RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, string, error)
	AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error)
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateDetails(ctx context.Context, userID int64, update *models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, update *models.PasswordUpdate) (string, error)
}

// PasswordResetManager is the part of the password reset service the
// handlers depend on.
type PasswordResetManager interface {
	RequestReset(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, token, newPassword string) (*models.User, string, error)
}

// RecipeManager is the part of the recipe service the handlers depend on.
type RecipeManager interface {
	CreateRecipe(ctx context.Context, ownerID int64, create *models.RecipeCreate) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	ListRecipes(ctx context.Context, page, pageSize int) ([]*models.Recipe, int, error)
	SearchRecipes(ctx context.Context, term string, page, pageSize int) ([]*models.Recipe, int, error)
	ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, callerID int64, update *models.RecipeUpdate) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, callerID int64) error
	UploadPhoto(ctx context.Context, id, callerID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	LikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error)
	UnlikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error)
	TopLiked(ctx context.Context, limit int) ([]*models.Recipe, error)
	LikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error)
}
