package models

import (
	"strings"
	"time"

	"github.com/tastebook/tastebook/internal/constants"
)

// Recipe represents a recipe owned by exactly one user. Ownership is
// immutable after creation. Likes holds the denormalized like counter;
// the invariant Likes == len(LikedBy) is enforced by the repository's
// conditional like/unlike updates.
type Recipe struct {
	ID           int64     `json:"id" db:"recipe_id"`
	OwnerID      int64     `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	Ingredients  []string  `json:"ingredients" db:"ingredients"`
	Instructions string    `json:"instructions" db:"instructions"`
	TimeMinutes  int       `json:"time" db:"time_minutes"`
	Servings     int       `json:"servings" db:"servings"`
	Category     string    `json:"category" db:"category"`
	Photo        string    `json:"photo" db:"photo"`
	Likes        int       `json:"likes" db:"likes"`
	LikedBy      []int64   `json:"liked_by,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Owner returns the ID of the user who owns the recipe.
func (r *Recipe) Owner() int64 {
	return r.OwnerID
}

// NewRecipe creates a recipe owned by the given user, deriving the slug
// from the name and applying the default photo.
func NewRecipe(ownerID int64, create *RecipeCreate) *Recipe {
	now := time.Now()
	return &Recipe{
		OwnerID:      ownerID,
		Name:         create.Name,
		Slug:         Slugify(create.Name),
		Ingredients:  create.Ingredients,
		Instructions: create.Instructions,
		TimeMinutes:  create.TimeMinutes,
		Servings:     create.Servings,
		Category:     create.Category,
		Photo:        constants.DefaultRecipePhoto,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RecipeCreate represents the data required to create a recipe.
type RecipeCreate struct {
	Name         string   `json:"name" validate:"required,max=50"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required,max=100"`
	Instructions string   `json:"instructions" validate:"required,max=900"`
	TimeMinutes  int      `json:"time" validate:"required,gt=0"`
	Servings     int      `json:"servings" validate:"required,gt=0"`
	Category     string   `json:"category" validate:"required,oneof=Appetizer Main-course Dessert"`
}

// RecipeUpdate represents the recipe fields an owner may change.
type RecipeUpdate struct {
	Name         string   `json:"name" validate:"omitempty,max=50"`
	Ingredients  []string `json:"ingredients" validate:"omitempty,min=1,dive,required,max=100"`
	Instructions string   `json:"instructions" validate:"omitempty,max=900"`
	TimeMinutes  int      `json:"time" validate:"omitempty,gt=0"`
	Servings     int      `json:"servings" validate:"omitempty,gt=0"`
	Category     string   `json:"category" validate:"omitempty,oneof=Appetizer Main-course Dessert"`
}

// Apply copies the non-zero update fields onto the recipe, re-deriving
// the slug when the name changes.
func (u *RecipeUpdate) Apply(r *Recipe) {
	if u.Name != "" {
		r.Name = u.Name
		r.Slug = Slugify(u.Name)
	}
	if len(u.Ingredients) > 0 {
		r.Ingredients = u.Ingredients
	}
	if u.Instructions != "" {
		r.Instructions = u.Instructions
	}
	if u.TimeMinutes > 0 {
		r.TimeMinutes = u.TimeMinutes
	}
	if u.Servings > 0 {
		r.Servings = u.Servings
	}
	if u.Category != "" {
		r.Category = u.Category
	}
	r.UpdatedAt = time.Now()
}

// Slugify derives a URL-friendly slug from a recipe name: lowercase,
// alphanumeric runs joined by single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
