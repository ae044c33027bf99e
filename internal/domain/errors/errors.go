package errors

import (
	"errors"
	"fmt"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeBusiness     ErrorType = "business"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypePersistence  ErrorType = "persistence"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 400,
	}
}

func NewBusinessError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeBusiness,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 422,
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "RESOURCE_NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		Retryable:  false,
		StatusCode: 404,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		Retryable:  false,
		StatusCode: 401,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       "FORBIDDEN",
		Message:    message,
		Retryable:  false,
		StatusCode: 403,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       "CONFLICT",
		Message:    message,
		Retryable:  false,
		StatusCode: 409,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Retryable:  true,
		StatusCode: 500,
	}
}

// NewPersistenceError reports a failed catalog write. Settlement callers may
// retry: the auction is left in its prior lifecycle state.
func NewPersistenceError(operation string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Code:       "PERSISTENCE_FAILURE",
		Message:    fmt.Sprintf("catalog write failed: %s", operation),
		Cause:      cause,
		Retryable:  true,
		StatusCode: 503,
		Details:    map[string]interface{}{"operation": operation},
	}
}

// Auction-flow errors

// NewNoActiveAuctionError reports a command that requires a live auction cycle
func NewNoActiveAuctionError() *AppError {
	return &AppError{
		Type:       ErrorTypeBusiness,
		Code:       "NO_ACTIVE_AUCTION",
		Message:    "no active auction",
		Retryable:  false,
		StatusCode: 422,
	}
}

// NewNoEligibleLotError reports a start selection that matched no players
func NewNoEligibleLotError(mode string) *AppError {
	return &AppError{
		Type:       ErrorTypeBusiness,
		Code:       "NO_ELIGIBLE_LOT",
		Message:    "no eligible player found for this mode",
		Retryable:  false,
		StatusCode: 404,
		Details:    map[string]interface{}{"mode": mode},
	}
}

// NewBidTooLowError carries the computed minimum acceptable amount
func NewBidTooLowError(minRequired string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       "BID_TOO_LOW",
		Message:    fmt.Sprintf("bid must be at least %s", minRequired),
		Retryable:  false,
		StatusCode: 400,
		Details:    map[string]interface{}{"min_required": minRequired},
	}
}

// NewInsufficientBudgetError reports a bid above the team's remaining purse
func NewInsufficientBudgetError() *AppError {
	return &AppError{
		Type:       ErrorTypeBusiness,
		Code:       "INSUFFICIENT_BUDGET",
		Message:    "insufficient budget",
		Retryable:  false,
		StatusCode: 422,
	}
}

// NewInvalidStateError reports a lifecycle transition that is not allowed
// from the current state (e.g. resume while not paused).
func NewInvalidStateError(operation, state string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       "INVALID_STATE",
		Message:    fmt.Sprintf("%s is not valid while auction is %s", operation, state),
		Retryable:  false,
		StatusCode: 409,
		Details:    map[string]interface{}{"operation": operation, "state": state},
	}
}

// Predefined common errors
var (
	ErrPlayerNotFound  = NewNotFoundError("player")
	ErrTeamNotFound    = NewNotFoundError("team")
	ErrPlayerSold      = NewBusinessError("PLAYER_ALREADY_SOLD", "Player already sold")
	ErrDuplicateRecord = NewConflictError("Duplicate record detected")
)

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsCode checks if an error carries a specific application code
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500
}
