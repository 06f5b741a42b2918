package services

import "errors"

// Dashboard service errors
var (
	// Input errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidLimit      = errors.New("invalid row limit")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
