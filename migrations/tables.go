package migrations

import (
	"context"
	"database/sql"
)

// GetMigrations returns all migrations in execution order. Order matters:
// recipes references users and recipe_likes references both.
func GetMigrations() []Migration {
	return []Migration{
		createUsersTable(),
		createRecipesTable(),
		createRecipeLikesTable(),
	}
}

// createUsersTable creates the users table.
func createUsersTable() Migration {
	return Migration{
		Name:        "001_create_users_table",
		Description: "Creates the users table with credential and password reset columns",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
                CREATE TABLE IF NOT EXISTS users (
                    user_id BIGSERIAL PRIMARY KEY,
                    name VARCHAR(255) NOT NULL,
                    email VARCHAR(255) NOT NULL,
                    password_hash VARCHAR(255) NOT NULL,
                    salt VARCHAR(255) NOT NULL,
                    reset_token_hash VARCHAR(64),
                    reset_token_expiry TIMESTAMP,
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    CONSTRAINT users_email_key UNIQUE (email)
                );

                CREATE INDEX IF NOT EXISTS idx_users_email ON users (email);
                CREATE INDEX IF NOT EXISTS idx_users_reset_token_hash ON users (reset_token_hash)
                    WHERE reset_token_hash IS NOT NULL;
            `
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createRecipesTable creates the recipes table.
func createRecipesTable() Migration {
	return Migration{
		Name:        "002_create_recipes_table",
		Description: "Creates the recipes table with ingredients array and like counter",
		TableName:   "recipes",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
                CREATE TABLE IF NOT EXISTS recipes (
                    recipe_id BIGSERIAL PRIMARY KEY,
                    owner_id BIGINT NOT NULL,
                    name VARCHAR(255) NOT NULL,
                    slug VARCHAR(255) NOT NULL,
                    ingredients TEXT[] NOT NULL DEFAULT '{}',
                    instructions TEXT NOT NULL,
                    time_minutes INTEGER NOT NULL,
                    servings INTEGER NOT NULL,
                    category VARCHAR(50) NOT NULL,
                    photo VARCHAR(255) NOT NULL,
                    likes INTEGER NOT NULL DEFAULT 0,
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    CONSTRAINT fk_recipes_owner FOREIGN KEY (owner_id)
                        REFERENCES users (user_id) ON DELETE CASCADE
                );

                CREATE INDEX IF NOT EXISTS idx_recipes_owner_id ON recipes (owner_id);
                CREATE INDEX IF NOT EXISTS idx_recipes_category ON recipes (category);
                CREATE INDEX IF NOT EXISTS idx_recipes_created_at ON recipes (created_at DESC);
                CREATE INDEX IF NOT EXISTS idx_recipes_likes ON recipes (likes DESC);
            `
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createRecipeLikesTable creates the recipe_likes join table.
func createRecipeLikesTable() Migration {
	return Migration{
		Name:        "003_create_recipe_likes_table",
		Description: "Creates the recipe_likes table recording which user liked which recipe",
		TableName:   "recipe_likes",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
                CREATE TABLE IF NOT EXISTS recipe_likes (
                    recipe_id BIGINT NOT NULL,
                    user_id BIGINT NOT NULL,
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    CONSTRAINT recipe_likes_pkey PRIMARY KEY (recipe_id, user_id),
                    CONSTRAINT fk_recipe_likes_recipe FOREIGN KEY (recipe_id)
                        REFERENCES recipes (recipe_id) ON DELETE CASCADE,
                    CONSTRAINT fk_recipe_likes_user FOREIGN KEY (user_id)
                        REFERENCES users (user_id) ON DELETE CASCADE
                );

                CREATE INDEX IF NOT EXISTS idx_recipe_likes_user_id ON recipe_likes (user_id);
            `
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
