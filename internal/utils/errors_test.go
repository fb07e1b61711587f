package utils_test

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/utils"
)

func TestAppError_Error(t *testing.T) {
	err := utils.NewBadRequestError("Invalid request body")
	if err.Error() != "Invalid request body" {
		t.Errorf("Expected plain message, got %q", err.Error())
	}

	fieldErr := utils.NewValidationError("email", "must be a valid email")
	if fieldErr.Error() != "email: must be a valid email" {
		t.Errorf("Expected field-prefixed message, got %q", fieldErr.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := utils.NewNotFoundError("Recipe", 42)
	if !errors.Is(err, utils.ErrNotFound) {
		t.Error("Expected NotFound error to unwrap to ErrNotFound")
	}

	wrapped := fmt.Errorf("loading recipe: %w", err)
	if !utils.IsNotFoundError(wrapped) {
		t.Error("Expected IsNotFoundError to see through wrapping")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *utils.AppError
		statusCode int
	}{
		{"validation", utils.NewValidationError("name", "required"), http.StatusBadRequest},
		{"bad request", utils.NewBadRequestError("bad"), http.StatusBadRequest},
		{"not found", utils.NewNotFoundError("Recipe", 1), http.StatusNotFound},
		{"unauthorized", utils.NewUnauthorizedError(""), http.StatusUnauthorized},
		{"not owner", utils.NewNotOwnerError(), http.StatusForbidden},
		{"conflict", utils.NewConflictError(constants.MsgAlreadyLiked), http.StatusConflict},
		{"duplicate", utils.NewDuplicateError("User", "email", "a@b.c"), http.StatusConflict},
		{"dependency", utils.NewDependencyError("Email could not be sent", errors.New("smtp down")), http.StatusInternalServerError},
		{"internal", utils.NewInternalServerError(errors.New("boom")), http.StatusInternalServerError},
		{"invalid credentials", utils.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{"expired token", utils.NewExpiredTokenError(), http.StatusUnauthorized},
		{"invalid token", utils.NewInvalidTokenError(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, tt.err.StatusCode)
			}
		})
	}
}

func TestParseError_AppErrorPassthrough(t *testing.T) {
	original := utils.NewConflictError(constants.MsgNotLiked)
	parsed := utils.ParseError(original)
	if parsed != original {
		t.Error("Expected ParseError to return the original AppError")
	}
}

func TestParseError_Sentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
	}{
		{"not found sentinel", utils.ErrNotFound, http.StatusNotFound},
		{"unauthorized sentinel", utils.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden sentinel", utils.ErrForbidden, http.StatusForbidden},
		{"invalid credentials sentinel", utils.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired token sentinel", utils.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token sentinel", utils.ErrInvalidToken, http.StatusUnauthorized},
		{"bad request sentinel", utils.ErrBadRequest, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := utils.ParseError(tt.err)
			if parsed.StatusCode != tt.statusCode {
				t.Errorf("Expected status %d, got %d", tt.statusCode, parsed.StatusCode)
			}
		})
	}
}

func TestParseError_PostgresUniqueViolation(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_email_key",
	}

	parsed := utils.ParseError(pqErr)
	if parsed.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", parsed.StatusCode)
	}
	if parsed.Field != "email" {
		t.Errorf("Expected field 'email' from constraint name, got %q", parsed.Field)
	}
}

func TestParseError_PostgresForeignKeyViolation(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23503",
		Constraint: "fk_recipe_likes_recipe",
	}

	parsed := utils.ParseError(pqErr)
	if parsed.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", parsed.StatusCode)
	}
}

func TestParseError_NoRows(t *testing.T) {
	parsed := utils.ParseError(sql.ErrNoRows)
	if parsed.StatusCode != http.StatusNotFound {
		t.Errorf("Expected sql.ErrNoRows to map to 404, got %d", parsed.StatusCode)
	}
}

func TestParseError_Unknown(t *testing.T) {
	parsed := utils.ParseError(errors.New("something completely different"))
	if parsed.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected unknown errors to map to 500, got %d", parsed.StatusCode)
	}
	if parsed.DevInfo == "" {
		t.Error("Expected DevInfo to carry the original error text")
	}
}

func TestIsConflictError(t *testing.T) {
	if !utils.IsConflictError(utils.NewConflictError(constants.MsgAlreadyLiked)) {
		t.Error("Expected conflict error to be detected")
	}
	if !utils.IsConflictError(utils.NewDuplicateError("User", "email", "a@b.c")) {
		t.Error("Expected duplicate error to be detected as conflict")
	}
	if utils.IsConflictError(utils.NewNotFoundError("Recipe", 1)) {
		t.Error("Expected not found error not to be detected as conflict")
	}
	if utils.IsConflictError(errors.New("plain")) {
		t.Error("Expected plain error not to be detected as conflict")
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !utils.IsNotFoundError(utils.NewNotFoundError("Recipe", 1)) {
		t.Error("Expected not found error to be detected")
	}
	if utils.IsNotFoundError(utils.NewConflictError("conflict")) {
		t.Error("Expected conflict error not to be detected as not found")
	}
}
