package domain

import "errors"

var (
	// ErrNotFound is returned when a document id does not dereference.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidFormat is returned when an imported payload is missing the
	// required header, attendance, or items sections.
	ErrInvalidFormat = errors.New("invalid document format")
)
