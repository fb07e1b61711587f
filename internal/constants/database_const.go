// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and frequently used column names. Using these constants
// instead of string literals ensures consistent database access patterns and
// simplifies schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information,
	// including password hashes and password reset fields.
	TableUsers = "users"

	// TableRecipes is the name of the table storing recipes and their like counters.
	TableRecipes = "recipes"

	// TableRecipeLikes is the name of the table recording which user liked which
	// recipe. Its composite primary key enforces the at-most-once-like invariant.
	TableRecipeLikes = "recipe_likes"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnUserID is the column name for user identifier keys.
	ColumnUserID = "user_id"

	// ColumnRecipeID is the column name for recipe identifier keys.
	ColumnRecipeID = "recipe_id"
)

// PostgreSQL error codes checked by the repository layer.
const (
	// PGUniqueViolation is the PostgreSQL error code for unique constraint violations.
	PGUniqueViolation = "23505"
)
