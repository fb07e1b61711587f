package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/database"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

// RecipeRepository defines methods for interacting with recipe data
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, offset, limit int) ([]*models.Recipe, int, error)
	ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error)
	Search(ctx context.Context, term string, offset, limit int) ([]*models.Recipe, int, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	UpdatePhoto(ctx context.Context, id int64, photo string) error
	Like(ctx context.Context, recipeID, userID int64) error
	Unlike(ctx context.Context, recipeID, userID int64) error
	ListTopLiked(ctx context.Context, limit int) ([]*models.Recipe, error)
	ListLikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error)
}

// PostgresRecipeRepository is a PostgreSQL implementation of RecipeRepository
type PostgresRecipeRepository struct {
	db *database.Pool
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *database.Pool) RecipeRepository {
	return &PostgresRecipeRepository{
		db: db,
	}
}

const recipeColumns = `recipe_id, owner_id, name, slug, ingredients, instructions, time_minutes, servings, category, photo, likes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// prefixColumns qualifies each column in a comma-separated list with a table
// alias, for queries that join recipes against recipe_likes.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, col := range parts {
		parts[i] = alias + "." + col
	}
	return strings.Join(parts, ", ")
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	recipe := &models.Recipe{}

	err := row.Scan(
		&recipe.ID,
		&recipe.OwnerID,
		&recipe.Name,
		&recipe.Slug,
		pq.Array(&recipe.Ingredients),
		&recipe.Instructions,
		&recipe.TimeMinutes,
		&recipe.Servings,
		&recipe.Category,
		&recipe.Photo,
		&recipe.Likes,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func scanRecipes(rows *sql.Rows) ([]*models.Recipe, error) {
	recipes := make([]*models.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe rows: %w", err)
	}
	return recipes, nil
}

// Create adds a new recipe to the database
func (r *PostgresRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	startTime := time.Now()

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	query := `
        INSERT INTO recipes (owner_id, name, slug, ingredients, instructions, time_minutes, servings, category, photo, likes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $11)
        RETURNING recipe_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		recipe.OwnerID,
		recipe.Name,
		recipe.Slug,
		pq.Array(recipe.Ingredients),
		recipe.Instructions,
		recipe.TimeMinutes,
		recipe.Servings,
		recipe.Category,
		recipe.Photo,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{recipe.OwnerID, recipe.Name, recipe.Slug},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	log.Info().
		Int64("recipe_id", recipe.ID).
		Int64("owner_id", recipe.OwnerID).
		Str("slug", recipe.Slug).
		Msg("Recipe created")

	return nil
}

// GetByID retrieves a recipe by ID, including the set of users who liked it
func (r *PostgresRecipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM recipes WHERE recipe_id = $1`, recipeColumns)

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	likedBy, err := r.getLikers(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.LikedBy = likedBy

	return recipe, nil
}

// getLikers returns the IDs of users who have liked the recipe.
func (r *PostgresRecipeRepository) getLikers(ctx context.Context, recipeID int64) ([]int64, error) {
	startTime := time.Now()

	query := `SELECT user_id FROM recipe_likes WHERE recipe_id = $1 ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, recipeID)

	utils.LogDBQuery(query, []interface{}{recipeID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to get recipe likers: %w", err)
	}
	defer rows.Close()

	likers := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan liker row: %w", err)
		}
		likers = append(likers, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liker rows: %w", err)
	}

	return likers, nil
}

// List retrieves recipes ordered by creation date with pagination, along
// with the total recipe count for pagination metadata
func (r *PostgresRecipeRepository) List(ctx context.Context, offset, limit int) ([]*models.Recipe, int, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, recipeColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)

	utils.LogDBQuery(query, []interface{}{limit, offset}, time.Since(startTime), err)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM recipes`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	return recipes, total, nil
}

// ListNewest retrieves the most recently added recipes
func (r *PostgresRecipeRepository) ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        ORDER BY created_at DESC
        LIMIT $1
    `, recipeColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)

	utils.LogDBQuery(query, []interface{}{limit}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list newest recipes: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// ListByOwner retrieves all recipes created by a user
func (r *PostgresRecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `, recipeColumns)

	rows, err := r.db.QueryContext(ctx, query, ownerID)

	utils.LogDBQuery(query, []interface{}{ownerID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list recipes by owner: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// Search retrieves recipes whose name, category or ingredients match the
// given term, case-insensitively, with pagination
func (r *PostgresRecipeRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.Recipe, int, error) {
	startTime := time.Now()

	pattern := "%" + term + "%"

	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        WHERE name ILIKE $1
           OR category ILIKE $1
           OR array_to_string(ingredients, ' ') ILIKE $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, recipeColumns)

	rows, err := r.db.QueryContext(ctx, query, pattern, limit, offset)

	utils.LogDBQuery(query, []interface{}{pattern, limit, offset}, time.Since(startTime), err)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `
        SELECT COUNT(*) FROM recipes
        WHERE name ILIKE $1
           OR category ILIKE $1
           OR array_to_string(ingredients, ' ') ILIKE $1
    `
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	return recipes, total, nil
}

// Update updates a recipe's editable fields
func (r *PostgresRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	startTime := time.Now()

	recipe.UpdatedAt = time.Now()

	query := `
        UPDATE recipes
        SET name = $1, slug = $2, ingredients = $3, instructions = $4, time_minutes = $5, servings = $6, category = $7, updated_at = $8
        WHERE recipe_id = $9
    `

	result, err := r.db.ExecContext(
		ctx,
		query,
		recipe.Name,
		recipe.Slug,
		pq.Array(recipe.Ingredients),
		recipe.Instructions,
		recipe.TimeMinutes,
		recipe.Servings,
		recipe.Category,
		recipe.UpdatedAt,
		recipe.ID,
	)

	utils.LogDBQuery(query, []interface{}{recipe.Name, recipe.Slug, recipe.ID}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Recipe", recipe.ID)
	}

	return nil
}

// Delete removes a recipe. Likes are removed by the ON DELETE CASCADE on
// recipe_likes.
func (r *PostgresRecipeRepository) Delete(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `DELETE FROM recipes WHERE recipe_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Recipe", id)
	}

	log.Info().Int64("recipe_id", id).Msg("Recipe deleted")

	return nil
}

// UpdatePhoto sets the stored photo filename for a recipe
func (r *PostgresRecipeRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	startTime := time.Now()

	query := `
        UPDATE recipes
        SET photo = $1, updated_at = $2
        WHERE recipe_id = $3
    `

	result, err := r.db.ExecContext(ctx, query, photo, time.Now(), id)

	utils.LogDBQuery(query, []interface{}{photo, id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to update recipe photo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Recipe", id)
	}

	return nil
}

// Like records that a user liked a recipe and increments the like counter.
// The membership insert uses ON CONFLICT DO NOTHING, so a second like by the
// same user affects zero rows and is rejected without a prior read. Both
// statements run in one transaction, keeping the counter equal to the number
// of membership rows.
func (r *PostgresRecipeRepository) Like(ctx context.Context, recipeID, userID int64) error {
	startTime := time.Now()

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		insertQuery := `
            INSERT INTO recipe_likes (recipe_id, user_id, created_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (recipe_id, user_id) DO NOTHING
        `

		result, err := tx.ExecContext(ctx, insertQuery, recipeID, userID, time.Now())
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
				return utils.NewNotFoundError("Recipe", recipeID)
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return utils.NewConflictError(constants.MsgAlreadyLiked)
		}

		updateQuery := `UPDATE recipes SET likes = likes + 1 WHERE recipe_id = $1`

		counterResult, err := tx.ExecContext(ctx, updateQuery, recipeID)
		if err != nil {
			return fmt.Errorf("failed to increment like counter: %w", err)
		}

		counterRows, err := counterResult.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if counterRows == 0 {
			return utils.NewNotFoundError("Recipe", recipeID)
		}

		return nil
	})

	utils.LogDBQuery("like recipe transaction", []interface{}{recipeID, userID}, time.Since(startTime), err)

	if err != nil {
		return err
	}

	log.Info().
		Int64("recipe_id", recipeID).
		Int64("user_id", userID).
		Msg("Recipe liked")

	return nil
}

// Unlike removes a user's like from a recipe and decrements the like
// counter. A delete affecting zero rows means the user never liked the
// recipe, and the counter is left untouched.
func (r *PostgresRecipeRepository) Unlike(ctx context.Context, recipeID, userID int64) error {
	startTime := time.Now()

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		deleteQuery := `DELETE FROM recipe_likes WHERE recipe_id = $1 AND user_id = $2`

		result, err := tx.ExecContext(ctx, deleteQuery, recipeID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return utils.NewConflictError(constants.MsgNotLiked)
		}

		updateQuery := `UPDATE recipes SET likes = likes - 1 WHERE recipe_id = $1 AND likes > 0`

		if _, err := tx.ExecContext(ctx, updateQuery, recipeID); err != nil {
			return fmt.Errorf("failed to decrement like counter: %w", err)
		}

		return nil
	})

	utils.LogDBQuery("unlike recipe transaction", []interface{}{recipeID, userID}, time.Since(startTime), err)

	if err != nil {
		return err
	}

	log.Info().
		Int64("recipe_id", recipeID).
		Int64("user_id", userID).
		Msg("Recipe unliked")

	return nil
}

// ListTopLiked retrieves the most liked recipes
func (r *PostgresRecipeRepository) ListTopLiked(ctx context.Context, limit int) ([]*models.Recipe, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM recipes
        ORDER BY likes DESC, created_at DESC
        LIMIT $1
    `, recipeColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)

	utils.LogDBQuery(query, []interface{}{limit}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list top liked recipes: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// ListLikedBy retrieves all recipes a user has liked
func (r *PostgresRecipeRepository) ListLikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM recipes r
        INNER JOIN recipe_likes l ON l.recipe_id = r.recipe_id
        WHERE l.user_id = $1
        ORDER BY l.created_at DESC
    `, prefixColumns("r", recipeColumns))

	rows, err := r.db.QueryContext(ctx, query, userID)

	utils.LogDBQuery(query, []interface{}{userID}, time.Since(startTime), err)

	if err != nil {
		return nil, fmt.Errorf("failed to list liked recipes: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}
