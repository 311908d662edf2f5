package envflat

import "context"

// Source provides one parsed configuration document (a file, stdin, a remote store).
type Source interface {
	// Load reads and parses the whole document. Returns *ReadError or *ParseError on failure.
	Load(ctx context.Context) (Value, error)

	// Name returns a human-readable identifier (e.g., "file:appsettings.json").
	Name() string
}
