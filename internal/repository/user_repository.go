// Package repository implements data access for the Tastebook API on top of
// PostgreSQL. Repositories translate database failures into typed application
// errors and log every query with its duration.
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

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ChangePassword(ctx context.Context, id int64, passwordHash, salt string) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetResetToken(ctx context.Context, id int64, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
	GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, id int64, passwordHash, salt string) error
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = `user_id, name, email, password_hash, salt, reset_token_hash, reset_token_expiry, created_at, updated_at`

// scanUser scans a full user row, converting the nullable reset fields.
func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var resetHash sql.NullString
	var resetExpiry sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&resetHash,
		&resetExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resetHash.Valid {
		user.ResetTokenHash = &resetHash.String
	}
	if resetExpiry.Valid {
		user.ResetTokenExpiry = &resetExpiry.Time
	}

	return user, nil
}

// Create adds a new user to the database
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (name, email, password_hash, salt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING user_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Email, "[REDACTED]", "[REDACTED]", user.CreatedAt, user.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations on the email column
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGUniqueViolation {
			if strings.Contains(pqErr.Constraint, "email") {
				return utils.NewDuplicateError("User", "email", user.Email)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// Update updates a user's profile fields (name and email)
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	user.UpdatedAt = time.Now()

	query := `
        UPDATE users
        SET name = $1, email = $2, updated_at = $3
        WHERE user_id = $4
    `

	result, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.UpdatedAt, user.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Email, user.UpdatedAt, user.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constants.PGUniqueViolation {
			if strings.Contains(pqErr.Constraint, "email") {
				return utils.NewDuplicateError("User", "email", user.Email)
			}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", user.ID)
	}

	return nil
}

// ChangePassword updates a user's password hash and salt
func (r *PostgresUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash, salt string) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET password_hash = $1, salt = $2, updated_at = $3
        WHERE user_id = $4
    `

	result, err := r.db.ExecContext(ctx, query, passwordHash, salt, time.Now(), id)

	utils.LogDBQuery(
		query,
		[]interface{}{"[REDACTED]", "[REDACTED]", time.Now(), id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().Int64("user_id", id).Msg("Password changed")

	return nil
}

// ExistsByID checks if a user exists with the given ID
func (r *PostgresUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	startTime := time.Now()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// SetResetToken stores the hash and expiry of an outstanding password reset
// token on the user record. Only the hash is ever persisted; the plaintext
// token travels to the user by email.
func (r *PostgresUserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiry time.Time) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET reset_token_hash = $1, reset_token_expiry = $2, updated_at = $3
        WHERE user_id = $4
    `

	result, err := r.db.ExecContext(ctx, query, tokenHash, expiry, time.Now(), id)

	utils.LogDBQuery(
		query,
		[]interface{}{"[REDACTED]", expiry, time.Now(), id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	return nil
}

// ClearResetToken removes the reset token fields from the user record.
// Called after a successful reset and after a failed email delivery, so a
// token that was never delivered can never be redeemed.
func (r *PostgresUserRepository) ClearResetToken(ctx context.Context, id int64) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = $1
        WHERE user_id = $2
    `

	_, err := r.db.ExecContext(ctx, query, time.Now(), id)

	utils.LogDBQuery(query, []interface{}{time.Now(), id}, time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to clear reset token: %w", err)
	}

	return nil
}

// GetByResetTokenHash retrieves the user whose stored reset token hash
// matches and whose reset window has not yet expired. Both conditions are
// part of the query, so an expired token never resolves to a user.
func (r *PostgresUserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s FROM users
        WHERE reset_token_hash = $1 AND reset_token_expiry > $2
    `, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, tokenHash, now))

	utils.LogDBQuery(query, []interface{}{"[REDACTED]", now}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewBadRequestError(constants.MsgResetTokenInvalid)
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return user, nil
}

// ResetPassword sets a new password hash and clears the reset token fields in
// a single statement, making the reset token single-use.
func (r *PostgresUserRepository) ResetPassword(ctx context.Context, id int64, passwordHash, salt string) error {
	startTime := time.Now()

	query := `
        UPDATE users
        SET password_hash = $1, salt = $2, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = $3
        WHERE user_id = $4
    `

	result, err := r.db.ExecContext(ctx, query, passwordHash, salt, time.Now(), id)

	utils.LogDBQuery(
		query,
		[]interface{}{"[REDACTED]", "[REDACTED]", time.Now(), id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().Int64("user_id", id).Msg("Password reset completed")

	return nil
}
