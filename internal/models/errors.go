package models

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrUserExists          = errors.New("user already exists")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRateLimited         = errors.New("upstream rate limited")
	ErrUpstreamFormat      = errors.New("unexpected upstream response")
	ErrExtractionFormat    = errors.New("invalid extraction output")
	ErrPersistence         = errors.New("persistence failure")
)

const (
	ReasonMalformedOutput = "malformed output"
	ReasonIncompleteData  = "incomplete data"
	ReasonNonNumericPrice = "non-numeric price"
)

// ExtractionFormatError is returned when model output cannot be turned into
// an invoice draft. It matches ErrExtractionFormat with errors.Is.
type ExtractionFormatError struct {
	Reason string
}

func (e *ExtractionFormatError) Error() string {
	return "extraction format: " + e.Reason
}

func (e *ExtractionFormatError) Is(target error) bool {
	return target == ErrExtractionFormat
}
