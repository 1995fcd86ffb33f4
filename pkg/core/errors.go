package core

import "errors"

var (
	// ErrFormat reports malformed user input: a bad date string, a date of the
	// wrong shape, a positive relative offset or a non-numeric count cell.
	ErrFormat = errors.New("invalid format")

	// ErrType reports a caller passing a value of the wrong kind, such as an
	// integer offset where a date string is required.
	ErrType = errors.New("invalid type")
)
