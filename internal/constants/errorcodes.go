// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing error messages are crafted to be informative without
// revealing implementation details that could aid an attacker.
package constants

// Machine-readable error codes included in error responses.
const (
	// CodeValidationError indicates that input validation failed.
	CodeValidationError = "validation_error"

	// CodeAuthenticationFailed indicates that authentication failed.
	CodeAuthenticationFailed = "authentication_failed"

	// CodeTokenExpired indicates that the presented session token has expired.
	CodeTokenExpired = "token_expired"

	// CodeInvalidToken indicates that the presented token is malformed or forged.
	CodeInvalidToken = "invalid_token"

	// CodeNotOwner indicates that the caller is authenticated but does not own the resource.
	CodeNotOwner = "not_owner"

	// CodeNotFound indicates a missing resource.
	CodeNotFound = "not_found"

	// CodeConflict indicates a state conflict such as a duplicate like.
	CodeConflict = "conflict"

	// CodeDuplicate indicates an attempt to create a resource that already exists.
	CodeDuplicate = "duplicate_resource"

	// CodeDependencyFailure indicates a failure in an external collaborator
	// such as the mail service or the database.
	CodeDependencyFailure = "dependency_failure"

	// CodeInternalError indicates an unexpected internal error.
	CodeInternalError = "internal_error"

	// CodeRateLimited indicates that the client exceeded the request rate limit.
	CodeRateLimited = "rate_limited"
)

// User-facing error messages.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgInvalidCredentials indicates that the email or password is incorrect.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgTokenExpired indicates that the session token has expired.
	MsgTokenExpired = "Session has expired, please log in again"

	// MsgNotOwner indicates that the caller does not own the resource.
	MsgNotOwner = "You are not the owner of this resource"

	// MsgAlreadyLiked indicates that the recipe was already liked by the caller.
	MsgAlreadyLiked = "Recipe already liked"

	// MsgNotLiked indicates that the recipe was not liked by the caller.
	MsgNotLiked = "Recipe not liked yet"

	// MsgResetTokenInvalid indicates that the reset token is invalid or expired.
	MsgResetTokenInvalid = "Invalid or expired password reset token"

	// MsgEmailDeliveryFailed indicates that the reset email could not be sent.
	MsgEmailDeliveryFailed = "Email could not be sent"

	// MsgEmptyRequestBody indicates a missing request body.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates a syntactically invalid request body.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgRequestBodyTooLarge indicates that the request body exceeds the size limit.
	MsgRequestBodyTooLarge = "Request body is too large"

	// MsgTooManyRequests indicates that the rate limit was exceeded.
	MsgTooManyRequests = "Too many requests, please try again later"
)
