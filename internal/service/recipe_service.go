package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/repository"
	"github.com/tastebook/tastebook/internal/utils"
)

// allowedPhotoExtensions lists the accepted recipe photo formats.
var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// RecipeService handles recipe CRUD, search and the like protocol. All
// mutating operations enforce that the caller owns the recipe; likes are the
// exception, since any authenticated user may like any recipe.
type RecipeService struct {
	recipeRepo  repository.RecipeRepository
	uploadDir   string
	maxPhotoLen int64
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipeRepo repository.RecipeRepository, uploadDir string, maxPhotoLen int64) *RecipeService {
	if maxPhotoLen <= 0 {
		maxPhotoLen = constants.MaxPhotoUploadSize
	}
	return &RecipeService{
		recipeRepo:  recipeRepo,
		uploadDir:   uploadDir,
		maxPhotoLen: maxPhotoLen,
	}
}

// CreateRecipe creates a recipe owned by the given user
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID int64, create *models.RecipeCreate) (*models.Recipe, error) {
	recipe := models.NewRecipe(ownerID, create)

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// GetRecipe retrieves a single recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

// ListRecipes retrieves a page of recipes with the total count
func (s *RecipeService) ListRecipes(ctx context.Context, page, pageSize int) ([]*models.Recipe, int, error) {
	offset := (page - 1) * pageSize
	return s.recipeRepo.List(ctx, offset, pageSize)
}

// SearchRecipes retrieves a page of recipes matching the search term
func (s *RecipeService) SearchRecipes(ctx context.Context, term string, page, pageSize int) ([]*models.Recipe, int, error) {
	offset := (page - 1) * pageSize
	return s.recipeRepo.Search(ctx, strings.TrimSpace(term), offset, pageSize)
}

// ListNewest retrieves the most recently added recipes
func (s *RecipeService) ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error) {
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	return s.recipeRepo.ListNewest(ctx, limit)
}

// ListByOwner retrieves all recipes created by the given user
func (s *RecipeService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error) {
	return s.recipeRepo.ListByOwner(ctx, ownerID)
}

// UpdateRecipe applies the update to a recipe after verifying that the
// caller owns it
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, callerID int64, update *models.RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := auth.RequireOwnerOf(recipe, callerID); err != nil {
		return nil, err
	}

	update.Apply(recipe)

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

// DeleteRecipe removes a recipe after verifying that the caller owns it.
// The recipe's stored photo is deleted best-effort alongside the row.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, callerID int64) error {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.RequireOwnerOf(recipe, callerID); err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.removePhotoFile(recipe.Photo)

	return nil
}

// UploadPhoto stores an uploaded photo for a recipe the caller owns and
// records the new filename. Filenames are random, so uploads never collide
// and never reflect client-supplied names.
func (s *RecipeService) UploadPhoto(ctx context.Context, id, callerID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := auth.RequireOwnerOf(recipe, callerID); err != nil {
		return "", err
	}

	if header.Size > s.maxPhotoLen {
		return "", utils.NewBadRequestError(fmt.Sprintf("Photo exceeds the maximum size of %d bytes", s.maxPhotoLen))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPhotoExtensions[ext] {
		return "", utils.NewBadRequestError("Photo must be a jpg, jpeg, png or webp image")
	}

	filename := fmt.Sprintf("photo_%d_%s%s", id, uuid.New().String(), ext)

	if err := s.savePhotoFile(file, filename); err != nil {
		return "", err
	}

	if err := s.recipeRepo.UpdatePhoto(ctx, id, filename); err != nil {
		s.removePhotoFile(filename)
		return "", err
	}

	// The previous photo is no longer referenced
	if recipe.Photo != filename {
		s.removePhotoFile(recipe.Photo)
	}

	log.Info().Int64("recipe_id", id).Str("photo", filename).Msg("Recipe photo updated")

	return filename, nil
}

// savePhotoFile writes the uploaded content under the configured upload dir.
func (s *RecipeService) savePhotoFile(file multipart.File, filename string) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.maxPhotoLen+1)); err != nil {
		return fmt.Errorf("failed to store photo: %w", err)
	}

	return nil
}

// removePhotoFile deletes a stored photo, ignoring the shared default image
// and missing files.
func (s *RecipeService) removePhotoFile(filename string) {
	if filename == "" || filename == constants.DefaultRecipePhoto {
		return
	}
	if err := os.Remove(filepath.Join(s.uploadDir, filename)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("photo", filename).Msg("Failed to remove photo file")
	}
}

// LikeRecipe records a like by the given user and returns the refreshed
// recipe. Liking a recipe twice is rejected by the repository's conditional
// insert.
func (s *RecipeService) LikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error) {
	if err := s.recipeRepo.Like(ctx, recipeID, userID); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, recipeID)
}

// UnlikeRecipe removes the given user's like and returns the refreshed
// recipe. Unliking a recipe the user never liked is rejected.
func (s *RecipeService) UnlikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error) {
	if err := s.recipeRepo.Unlike(ctx, recipeID, userID); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, recipeID)
}

// TopLiked retrieves the most liked recipes
func (s *RecipeService) TopLiked(ctx context.Context, limit int) ([]*models.Recipe, error) {
	if limit <= 0 || limit > constants.TopLikedLimit {
		limit = constants.TopLikedLimit
	}
	return s.recipeRepo.ListTopLiked(ctx, limit)
}

// LikedBy retrieves the recipes the given user has liked
func (s *RecipeService) LikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	return s.recipeRepo.ListLikedBy(ctx, userID)
}
