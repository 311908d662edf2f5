package envflat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when an input format is not json, yaml or toml.
var ErrUnsupportedFormat = errors.New("envflat: unsupported input format")

// ReadError reports that the input could not be opened or read.
// Traversal never starts when it is returned.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read config file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ParseError reports that the input is not valid structured data for its format.
// Traversal never starts when it is returned.
type ParseError struct {
	Path   string
	Format string // "json", "yaml" or "toml"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s file %s: %v", strings.ToUpper(e.Format), e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
