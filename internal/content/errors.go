package content

import (
	"errors"

	"github.com/terra-clan/company-site/internal/models"
)

// Resolution errors
var (
	ErrNotFound = errors.New("content not found")
	ErrConflict = errors.New("content key is ambiguous")
	ErrEmptyKey = errors.New("content key is empty")
)

// ValidationError carries field-keyed messages for form input
type ValidationError = models.ValidationError

// StoreError wraps an infrastructure failure so callers can tell it apart
// from ErrNotFound
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": store unavailable: " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is, or wraps, a StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
