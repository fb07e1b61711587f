// Package utils provides utility functions and helpers for the application.
// This file implements a standardized API response system that ensures
// consistent response formats across all API endpoints.
//
// The response system includes:
//   - A standard Response structure for all API responses
//   - Convenience functions for common response types (success, error, pagination)
//   - Pagination parameter extraction
package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/tastebook/tastebook/internal/constants"
)

// Response represents a standardized API response.
// All API endpoints return responses in this format for consistency.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Token   string      `json:"token,omitempty"` // Session token, mirrored in the body for non-cookie clients
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
	Meta    *MetaInfo   `json:"meta,omitempty"`  // Metadata such as pagination information
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details (e.g., validation errors)
}

// MetaInfo represents metadata in the response, primarily pagination information.
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PageSize   int `json:"page_size,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// PaginationParams contains parameters for pagination.
type PaginationParams struct {
	Page     int
	PageSize int
}

// GetPaginationParams extracts and bounds pagination parameters from a request.
func GetPaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{
		Page:     constants.DefaultPage,
		PageSize: constants.DefaultPageSize,
	}

	if p, err := strconv.Atoi(r.URL.Query().Get(constants.QueryParamPage)); err == nil && p > 0 {
		params.Page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get(constants.QueryParamPageSize)); err == nil && ps > 0 {
		params.PageSize = ps
	}
	if params.PageSize > constants.MaxPageSize {
		params.PageSize = constants.MaxPageSize
	}

	return params
}

// JSON sends a JSON response with the given status code and data.
// This is the primary function for sending successful responses.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// JSONWithToken sends a successful JSON response that carries a session token
// in the body alongside the data. Used by login, register, and password reset
// responses so that non-cookie clients can pick up the token.
func JSONWithToken(w http.ResponseWriter, statusCode int, data interface{}, token string) {
	response := Response{
		Success: true,
		Data:    data,
		Token:   token,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code and error information.
// This is the primary function for sending error responses.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError.
// This is the single centralized rendering path for application errors:
// handlers translate failures into AppErrors and delegate here.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	errCode := constants.CodeInternalError
	switch err.Err {
	case ErrNotFound:
		errCode = constants.CodeNotFound
	case ErrBadRequest, ErrValidation:
		errCode = constants.CodeValidationError
	case ErrUnauthorized, ErrInvalidCredentials:
		errCode = constants.CodeAuthenticationFailed
	case ErrForbidden:
		errCode = constants.CodeNotOwner
	case ErrConflict:
		errCode = constants.CodeConflict
	case ErrDuplicate:
		errCode = constants.CodeDuplicate
	case ErrDependency:
		errCode = constants.CodeDependencyFailure
	case ErrExpiredToken:
		errCode = constants.CodeTokenExpired
	case ErrInvalidToken:
		errCode = constants.CodeInvalidToken
	}

	details := err.Details
	if details == nil && err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}

	Error(w, err.StatusCode, errCode, err.Message, details)
}

// Paginated sends a paginated response with the given status code, data, and
// pagination info. Used for endpoints that return collections of items.
func Paginated(w http.ResponseWriter, statusCode int, data interface{}, page, pageSize, totalItems int) {
	totalPages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		totalPages++
	}

	response := Response{
		Success: true,
		Data:    data,
		Meta: &MetaInfo{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: totalItems,
			TotalPages: totalPages,
		},
	}

	SendJSON(w, statusCode, response)
}

// SendJSON is a helper function to send JSON data with proper headers.
// This handles JSON marshaling and error handling for all response types.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	if _, err = w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, http.StatusUnauthorized, constants.CodeAuthenticationFailed, message, nil)
}

// Forbidden sends a 403 Forbidden response with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgNotOwner
	}
	Error(w, http.StatusForbidden, constants.CodeNotOwner, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "The requested resource could not be found"
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response.
// The underlying error is logged but never exposed to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	if err != nil {
		log.Error().Err(err).Msg("Internal server error")
	}
	Error(w, http.StatusInternalServerError, constants.CodeInternalError, "An internal server error occurred", nil)
}
