package sourcefile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/envflat"
)

// StdinPath makes a source read standard input instead of a file.
const StdinPath = "-"

// Options configures file source behavior.
type Options struct {
	// Format: "json", "yaml", or "toml". Auto-detected from extension if empty,
	// falling back to "json".
	Format string

	// Stdin is read when the path is "-". Default: os.Stdin.
	Stdin io.Reader
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based configuration source.
func New(path string, opts Options) envflat.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the whole file into an ordered value tree.
func (f *fileSource) Load(ctx context.Context) (envflat.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := f.Format()
	if err != nil {
		return nil, err
	}

	data, err := f.read()
	if err != nil {
		return nil, &envflat.ReadError{Path: f.displayPath(), Err: err}
	}

	root, err := Decode(data, format)
	if err != nil {
		return nil, &envflat.ParseError{Path: f.displayPath(), Format: format, Err: err}
	}
	return root, nil
}

// Format returns the normalized input format: the explicit option when set,
// otherwise the one inferred from the file extension.
func (f *fileSource) Format() (string, error) {
	format := f.opts.Format
	if format == "" {
		format = InferFormat(f.path)
	}
	return normalizeFormat(format)
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	if f.path == StdinPath {
		return "stdin"
	}
	return "file:" + filepath.Base(f.path)
}

func (f *fileSource) read() ([]byte, error) {
	if f.path == StdinPath {
		in := f.opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}
	return os.ReadFile(f.path)
}

func (f *fileSource) displayPath() string {
	if f.path == StdinPath {
		return "<stdin>"
	}
	return f.path
}

// Decode parses data in the given format into a value tree.
func Decode(data []byte, format string) (envflat.Value, error) {
	format, err := normalizeFormat(format)
	if err != nil {
		return nil, err
	}

	// Editors on Windows commonly save appsettings.json with a UTF-8 BOM.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	switch format {
	case "yaml":
		return decodeYAML(data)
	case "toml":
		return decodeTOML(data)
	default:
		return decodeJSON(data)
	}
}

// InferFormat guesses the format from the file extension.
// Unknown extensions and stdin are treated as JSON.
func InferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("%w: %s (supported: yaml, json, toml)", envflat.ErrUnsupportedFormat, format)
	}
}
