package storage

import (
	"errors"
	"fmt"
)

// Code classifies a storage failure for the UI layer.
type Code string

const (
	CodeUnavailable   Code = "STORAGE_UNAVAILABLE"
	CodeQuotaExceeded Code = "QUOTA_EXCEEDED"
	CodeReadFailed    Code = "READ_ERROR"
	CodeWriteFailed   Code = "WRITE_ERROR"
	CodeDeleteFailed  Code = "DELETE_ERROR"
)

// StorageError is the typed error surfaced by the store. The code is
// machine-readable so the UI can tell quota exhaustion ("delete old
// documents") apart from a broken backend.
type StorageError struct {
	Code Code
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CodeOf extracts the storage code from err, or "" when err is not a
// StorageError.
func CodeOf(err error) Code {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
