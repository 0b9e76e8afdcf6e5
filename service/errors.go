package service

import "errors"

var (
	// ErrInvalidTenure is returned when a tenure resolves to less than one month.
	ErrInvalidTenure = errors.New("tenure must be at least one month")

	// ErrInvalidInput wraps every request validation failure.
	ErrInvalidInput = errors.New("invalid input")
)
