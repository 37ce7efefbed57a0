package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Is reports whether err carries the given error code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Error codes grouped by subsystem.
const (
	CodeInvalidAmount      = "WAL_001"
	CodeInsufficientFunds  = "WAL_002"
	CodeNotFound           = "RES_001"
	CodePermissionDenied   = "PERM_001"
	CodeFinalizedImmutable = "DEP_001"
	CodeNoEligibleAssignee = "DEP_002"
	CodeInvalidStatus      = "DEP_003"
	CodeInvalidCredentials = "AUTH_001"
	CodeInvalidToken       = "AUTH_002"
	CodeValidation         = "REQ_001"
	CodeRateLimited        = "RATE_001"
	CodeInternal           = "SYS_001"
)

// ---- Wallet & Ledger (WAL) ----

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "Amount must be a positive integer", http.StatusBadRequest)
}

func ErrInsufficientFunds() *AppError {
	return New(CodeInsufficientFunds, "Insufficient balance in provider wallet", http.StatusPaymentRequired)
}

// ErrNotFound covers every missing-resource case; the entity name keeps
// wallet/requester/phone/deposit failures distinguishable by context.
func ErrNotFound(entity string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// IsNotFound reports whether err is a not-found failure for the given entity.
func IsNotFound(err error, entity string) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == CodeNotFound && appErr.Message == fmt.Sprintf("%s not found", entity)
}

// ---- Permissions (PERM) ----

func ErrPermissionDenied() *AppError {
	return New(CodePermissionDenied, "Requester does not have permission for this action", http.StatusForbidden)
}

// ---- Deposit Requests (DEP) ----

func ErrFinalizedImmutable() *AppError {
	return New(CodeFinalizedImmutable, "Deposit request is finalized and cannot be modified", http.StatusConflict)
}

func ErrNoEligibleAssignee() *AppError {
	return New(CodeNoEligibleAssignee, "No eligible reviewer available for assignment", http.StatusUnprocessableEntity)
}

func ErrInvalidStatus(status string) *AppError {
	return New(CodeInvalidStatus, fmt.Sprintf("Invalid deposit status: %s", status), http.StatusBadRequest)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimited, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an unexpected lower-level failure. Storage and
// infrastructure errors always surface through here, never as business failures.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}
