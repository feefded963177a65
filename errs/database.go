package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Content store taxonomy. Every failure coming out of the repositories wraps
// exactly one of these.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func NewConflict(entity, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrConflict),
		Details:    details,
	}
}

func NewAlreadyExists(entity string) *ApiErr {
	return NewConflict(entity, fmt.Sprintf("%s already exists", entity))
}

// NewDatabaseError classifies a store failure into the content taxonomy
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}

	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)
	errStr := strings.ToLower(cause.Error())

	switch {
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
		}
	case errors.Is(cause, gorm.ErrDuplicatedKey),
		strings.Contains(errStr, "duplicate key"),
		strings.Contains(errStr, "unique constraint"):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        fmt.Errorf("%s %w", entity, ErrConflict),
			Details:    fmt.Sprintf("%s already exists", entity),
			Cause:      cause,
		}
	case errors.Is(cause, gorm.ErrForeignKeyViolated),
		strings.Contains(errStr, "foreign key constraint"):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("invalid reference in %s: %w", entity, ErrValidationFailed),
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
		}
	case errors.Is(cause, context.Canceled), errors.Is(cause, context.DeadlineExceeded):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			err:        ErrStoreUnavailable,
			Details:    details + " before the deadline",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrStoreUnavailable,
		Details:    details,
		Cause:      cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
