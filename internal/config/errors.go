package config

import "errors"

// Validation errors returned by [Config.Validate].
var (
	// ErrMissingInput indicates no input file was given.
	ErrMissingInput = errors.New("input file is required")
	// ErrInvalidSeparator indicates an empty segment separator.
	ErrInvalidSeparator = errors.New("separator must not be empty")
	// ErrInvalidOutput indicates an unknown output format.
	ErrInvalidOutput = errors.New("invalid output format")
	// ErrInvalidFormat indicates an unknown input format.
	ErrInvalidFormat = errors.New("invalid input format")
	// ErrInvalidLogLevel indicates a level zap does not recognise.
	ErrInvalidLogLevel = errors.New("invalid log level")
)
