package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidRow = errors.New("row has no attributes")
)

// StorageBackendError wraps a failure from the underlying database
// client. The cause stays reachable through Unwrap so callers can
// still inspect driver-level errors.
type StorageBackendError struct {
	Op  string
	Err error
}

func (e *StorageBackendError) Error() string {
	return fmt.Sprintf("storage backend: %s: %v", e.Op, e.Err)
}

func (e *StorageBackendError) Unwrap() error {
	return e.Err
}
