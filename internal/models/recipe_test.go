package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
)

func TestNewRecipe(t *testing.T) {
	create := &models.RecipeCreate{
		Name:         "Chicken Tikka Masala",
		Ingredients:  []string{"chicken", "yogurt", "tomatoes"},
		Instructions: "Marinate, grill, simmer in sauce.",
		TimeMinutes:  60,
		Servings:     4,
		Category:     "Main-course",
	}

	recipe := models.NewRecipe(7, create)

	assert.NotNil(t, recipe, "NewRecipe should return a non-nil Recipe")
	assert.Equal(t, int64(7), recipe.OwnerID, "Recipe should belong to the creating user")
	assert.Equal(t, "Chicken Tikka Masala", recipe.Name)
	assert.Equal(t, "chicken-tikka-masala", recipe.Slug, "Slug should be derived from the name")
	assert.Equal(t, constants.DefaultRecipePhoto, recipe.Photo, "New recipes get the default photo")
	assert.Zero(t, recipe.Likes, "New recipes start with zero likes")
	assert.False(t, recipe.CreatedAt.IsZero(), "CreatedAt should be set")
}

func TestRecipe_Owner(t *testing.T) {
	recipe := &models.Recipe{ID: 1, OwnerID: 9}
	assert.Equal(t, int64(9), recipe.Owner())
}

func TestRecipeUpdate_Apply(t *testing.T) {
	recipe := &models.Recipe{
		ID:           1,
		OwnerID:      7,
		Name:         "Old Name",
		Slug:         "old-name",
		Ingredients:  []string{"flour"},
		Instructions: "Original instructions.",
		TimeMinutes:  30,
		Servings:     2,
		Category:     "Dessert",
		UpdatedAt:    time.Now().Add(-time.Hour),
	}

	update := &models.RecipeUpdate{
		Name:     "New Name",
		Servings: 6,
	}
	update.Apply(recipe)

	assert.Equal(t, "New Name", recipe.Name)
	assert.Equal(t, "new-name", recipe.Slug, "Slug should be re-derived when the name changes")
	assert.Equal(t, 6, recipe.Servings)

	// Untouched fields survive
	assert.Equal(t, []string{"flour"}, recipe.Ingredients)
	assert.Equal(t, "Original instructions.", recipe.Instructions)
	assert.Equal(t, 30, recipe.TimeMinutes)
	assert.Equal(t, "Dessert", recipe.Category)

	assert.WithinDuration(t, time.Now(), recipe.UpdatedAt, time.Second, "UpdatedAt should be refreshed")
}

func TestRecipeUpdate_Apply_Empty(t *testing.T) {
	recipe := &models.Recipe{
		Name:     "Keep Me",
		Slug:     "keep-me",
		Servings: 2,
	}

	update := &models.RecipeUpdate{}
	update.Apply(recipe)

	assert.Equal(t, "Keep Me", recipe.Name, "Empty update should change nothing but the timestamp")
	assert.Equal(t, "keep-me", recipe.Slug)
	assert.Equal(t, 2, recipe.Servings)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Shakshuka", "shakshuka"},
		{"spaces", "Chicken Tikka Masala", "chicken-tikka-masala"},
		{"punctuation", "Mom's Best Pie!", "mom-s-best-pie"},
		{"consecutive separators", "Fish  &  Chips", "fish-chips"},
		{"leading and trailing", "  Tacos  ", "tacos"},
		{"digits", "5-Minute Oats", "5-minute-oats"},
		{"empty", "", ""},
		{"only separators", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.Slugify(tt.input))
		})
	}
}
