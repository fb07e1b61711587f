package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

const (
	aliceID int64 = 1
	bobID   int64 = 2
)

func setupRecipeService(t *testing.T) (*RecipeService, *MockRecipeRepository) {
	repo := NewMockRecipeRepository()
	svc := NewRecipeService(repo, t.TempDir(), 0)
	return svc, repo
}

func createTestRecipe(t *testing.T, svc *RecipeService, ownerID int64) *models.Recipe {
	t.Helper()
	recipe, err := svc.CreateRecipe(context.Background(), ownerID, &models.RecipeCreate{
		Name:         "Shakshuka",
		Ingredients:  []string{"eggs", "tomatoes", "cumin"},
		Instructions: "Simmer the sauce, crack in the eggs, cover until set.",
		TimeMinutes:  25,
		Servings:     2,
		Category:     "Main-course",
	})
	require.NoError(t, err)
	return recipe
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	svc, _ := setupRecipeService(t)

	recipe := createTestRecipe(t, svc, aliceID)

	assert.Equal(t, aliceID, recipe.OwnerID)
	assert.Equal(t, "shakshuka", recipe.Slug)
	assert.Equal(t, "no-photo.jpg", recipe.Photo)
	assert.Equal(t, 0, recipe.Likes)
}

func TestRecipeService_UpdateRecipe_Owner(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	updated, err := svc.UpdateRecipe(context.Background(), recipe.ID, aliceID, &models.RecipeUpdate{
		Name:     "Shakshuka Deluxe",
		Servings: 4,
	})

	require.NoError(t, err)
	assert.Equal(t, "Shakshuka Deluxe", updated.Name)
	assert.Equal(t, "shakshuka-deluxe", updated.Slug)
	assert.Equal(t, 4, updated.Servings)
	// Untouched fields survive
	assert.Equal(t, 25, updated.TimeMinutes)
}

func TestRecipeService_UpdateRecipe_NotOwner(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	_, err := svc.UpdateRecipe(context.Background(), recipe.ID, bobID, &models.RecipeUpdate{
		Name: "Bob's Shakshuka",
	})

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)

	// The recipe is unchanged
	unchanged, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shakshuka", unchanged.Name)
}

func TestRecipeService_DeleteRecipe_Owner(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	err := svc.DeleteRecipe(context.Background(), recipe.ID, aliceID)

	require.NoError(t, err)
	_, err = svc.GetRecipe(context.Background(), recipe.ID)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestRecipeService_DeleteRecipe_NotOwner(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	err := svc.DeleteRecipe(context.Background(), recipe.ID, bobID)

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)
}

func TestRecipeService_DeleteRecipe_NotFound(t *testing.T) {
	svc, _ := setupRecipeService(t)

	err := svc.DeleteRecipe(context.Background(), 999, aliceID)

	assert.True(t, utils.IsNotFoundError(err))
}

func TestRecipeService_LikeRecipe(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	// Owners may like their own recipes, like anyone else
	liked, err := svc.LikeRecipe(context.Background(), recipe.ID, bobID)

	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Contains(t, liked.LikedBy, bobID)
	assert.Equal(t, len(liked.LikedBy), liked.Likes)
}

func TestRecipeService_LikeRecipe_Twice(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	_, err := svc.LikeRecipe(context.Background(), recipe.ID, bobID)
	require.NoError(t, err)

	_, err = svc.LikeRecipe(context.Background(), recipe.ID, bobID)

	assert.True(t, utils.IsConflictError(err))

	// The counter did not move
	current, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Likes)
}

func TestRecipeService_UnlikeRecipe(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	_, err := svc.LikeRecipe(context.Background(), recipe.ID, bobID)
	require.NoError(t, err)

	unliked, err := svc.UnlikeRecipe(context.Background(), recipe.ID, bobID)

	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.NotContains(t, unliked.LikedBy, bobID)
}

func TestRecipeService_UnlikeRecipe_NeverLiked(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)

	_, err := svc.UnlikeRecipe(context.Background(), recipe.ID, bobID)

	assert.True(t, utils.IsConflictError(err))
}

func TestRecipeService_LikeRecipe_NotFound(t *testing.T) {
	svc, _ := setupRecipeService(t)

	_, err := svc.LikeRecipe(context.Background(), 999, bobID)

	assert.True(t, utils.IsNotFoundError(err))
}

func TestRecipeService_TopLiked(t *testing.T) {
	svc, _ := setupRecipeService(t)
	first := createTestRecipe(t, svc, aliceID)
	second := createTestRecipe(t, svc, aliceID)

	_, err := svc.LikeRecipe(context.Background(), second.ID, bobID)
	require.NoError(t, err)

	top, err := svc.TopLiked(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, second.ID, top[0].ID)
	assert.Equal(t, first.ID, top[1].ID)
}

func TestRecipeService_LikedBy(t *testing.T) {
	svc, _ := setupRecipeService(t)
	recipe := createTestRecipe(t, svc, aliceID)
	createTestRecipe(t, svc, aliceID)

	_, err := svc.LikeRecipe(context.Background(), recipe.ID, bobID)
	require.NoError(t, err)

	liked, err := svc.LikedBy(context.Background(), bobID)

	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, recipe.ID, liked[0].ID)
}

func TestRecipeService_ListRecipes_Pagination(t *testing.T) {
	svc, _ := setupRecipeService(t)
	for i := 0; i < 5; i++ {
		createTestRecipe(t, svc, aliceID)
	}

	page, total, err := svc.ListRecipes(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Equal(t, 5, total)
}
