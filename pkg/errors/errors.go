package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Taxonomy sentinels. Every BusinessError wraps exactly one of them.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("resource conflict")
	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal error")
)

// Domain errors
var (
	ErrAccountNotFound      = errors.Mark(errors.New("account not found"), ErrNotFound)
	ErrPlanNotAssigned      = errors.Mark(errors.New("account has no plan assigned"), ErrNotFound)
	ErrDuplicateDocument    = errors.Mark(errors.New("document id already registered"), ErrConflict)
	ErrPaymentAlreadyVoided = errors.Mark(errors.New("payment is already voided"), ErrConflict)
	ErrProtectedRole        = errors.Mark(errors.New("role is protected"), ErrConflict)
	ErrSyncInProgress       = errors.Mark(errors.New("status synchronization already running"), ErrConflict)
	ErrUnsupportedFile      = errors.Mark(errors.New("unsupported file type"), ErrValidation)
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeCacheError    = "CACHE_ERROR"
	ErrCodeStorageError  = "STORAGE_ERROR"
)

// Wrap common errors with business context
func WrapNotFound(entity string, id interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %v not found", entity, id),
		ErrNotFound,
	)
}

func WrapAccountNotFound(accountID interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Account with ID %v not found", accountID),
		ErrAccountNotFound,
	)
}

func WrapPlanNotAssigned(accountID interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Account with ID %v has no plan assigned", accountID),
		ErrPlanNotAssigned,
	)
}

func WrapDuplicateDocument(documentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("An account with document %s already exists", documentID),
		ErrDuplicateDocument,
	)
}

func WrapConflict(message string) *BusinessError {
	return NewBusinessError(ErrCodeConflict, message, ErrConflict)
}

func WrapAlreadyVoided(paymentID interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("Payment with ID %v is already voided", paymentID),
		ErrPaymentAlreadyVoided,
	)
}

func WrapProtectedRole(roleName string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("Role %s is protected and cannot be modified", roleName),
		ErrProtectedRole,
	)
}

func WrapSyncInProgress() *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		"A status synchronization is already running",
		ErrSyncInProgress,
	)
}

func WrapValidation(message string, err error) *BusinessError {
	if err == nil {
		err = ErrValidation
	} else {
		err = errors.Mark(err, ErrValidation)
	}
	return NewBusinessError(ErrCodeValidation, message, err)
}

func WrapUnsupportedFile(contentType string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		fmt.Sprintf("File type %q is not allowed", contentType),
		ErrUnsupportedFile,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		errors.Mark(err, ErrInternal),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		errors.Mark(err, ErrInternal),
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"File storage operation failed",
		errors.Mark(err, ErrInternal),
	)
}

// Is and As re-export the cockroachdb helpers so callers need a single import.
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// HTTPStatus maps an error onto the status code the API responds with.
// Anything outside the taxonomy is a 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	case IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to API clients.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
