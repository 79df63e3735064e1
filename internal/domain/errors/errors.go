package errors

import (
	"net/http"
	"strconv"
	"time"

	"majicmall/internal/domain/entity"
	"majicmall/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"Username or email is already registered",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing failed",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Store-related errors
	ErrStoreNotFound = NewBaseError(
		http.StatusNotFound,
		"STORE_NOT_FOUND",
		"Store not found",
		"",
	)

	ErrStoreRequired = NewBaseError(
		http.StatusConflict,
		"STORE_REQUIRED",
		"Create a store before using this feature",
		"",
	)

	ErrStoreArchived = NewBaseError(
		http.StatusConflict,
		"STORE_ARCHIVED",
		"This store is archived; restore it to continue",
		"",
	)

	ErrStoreNotArchived = NewBaseError(
		http.StatusConflict,
		"STORE_NOT_ARCHIVED",
		"Only archived stores can be purged",
		"",
	)

	ErrSlugTaken = NewBaseError(
		http.StatusConflict,
		"SLUG_TAKEN",
		"This store URL is already in use",
		"",
	)

	// Product-related errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Product not found",
		"",
	)

	ErrProductInUse = NewBaseError(
		http.StatusConflict,
		"PRODUCT_IN_USE",
		"Product is referenced by existing orders and cannot be deleted",
		"",
	)

	// Order-related errors
	ErrOrderNotFound = NewBaseError(
		http.StatusNotFound,
		"ORDER_NOT_FOUND",
		"Order not found",
		"",
	)

	ErrInvalidOrderStatus = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ORDER_STATUS",
		"Unknown order status",
		"",
	)

	// Payment-related errors
	ErrPaymentMethodNotFound = NewBaseError(
		http.StatusNotFound,
		"PAYMENT_METHOD_NOT_FOUND",
		"Payment method not found",
		"",
	)

	ErrNoActivePaymentMethod = NewBaseError(
		http.StatusConflict,
		"NO_ACTIVE_PAYMENT_METHOD",
		"No active payment method is configured for this store",
		"",
	)

	ErrPaymentProviderInactive = NewBaseError(
		http.StatusConflict,
		"PAYMENT_PROVIDER_INACTIVE",
		"The requested payment provider is not active for this store",
		"",
	)

	ErrUnknownPaymentProvider = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_PAYMENT_PROVIDER",
		"Unknown payment provider",
		"",
	)

	ErrGatewayUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"PAYMENT_GATEWAY_UNAVAILABLE",
		"The payment gateway is unavailable, please try again",
		"",
	)

	ErrInvalidPlan = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PLAN",
		"Unknown plan",
		"",
	)

	ErrPlanUpgradeNotFound = NewBaseError(
		http.StatusNotFound,
		"PLAN_UPGRADE_NOT_FOUND",
		"Plan checkout session not found",
		"",
	)

	ErrInvalidWebhookPayload = NewBaseError(
		http.StatusBadRequest,
		"INVALID_WEBHOOK_PAYLOAD",
		"Webhook body must be valid JSON",
		"",
	)

	ErrWebhookSignatureInvalid = NewBaseError(
		http.StatusBadRequest,
		"WEBHOOK_SIGNATURE_INVALID",
		"Webhook signature verification failed",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// PurgeTooEarlyError is returned when a purge is attempted inside the restore window.
type PurgeTooEarlyError struct {
	Remaining time.Duration
}

// NewPurgeTooEarlyError creates a purge precondition error carrying the remaining wait.
func NewPurgeTooEarlyError(remaining time.Duration) *PurgeTooEarlyError {
	if remaining < 0 {
		remaining = 0
	}

	return &PurgeTooEarlyError{Remaining: remaining}
}

func (e *PurgeTooEarlyError) Error() string {
	return e.Message()
}

func (e *PurgeTooEarlyError) HTTPCode() int {
	return http.StatusConflict
}

func (e *PurgeTooEarlyError) ErrorCode() string {
	return "PURGE_TOO_EARLY"
}

func (e *PurgeTooEarlyError) Message() string {
	return "Store can be purged in " + entity.HumanizeRemaining(e.Remaining)
}

func (e *PurgeTooEarlyError) Details() string {
	return strconv.FormatInt(int64(e.Remaining/time.Second), 10)
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
