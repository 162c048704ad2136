package models

import "errors"

// Extraction-stage errors. These abort processing of the invoice they occur
// in; external-call failures never surface here, they degrade per line.
var (
	ErrMalformedDocument = errors.New("malformed invoice document")
	ErrInvalidPrice      = errors.New("invalid price format")
	ErrMissingElement    = errors.New("required invoice element missing")
)
