package envflat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"al.essio.dev/pkg/shellescape"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Format selects how flattened entries are rendered.
type Format string

const (
	// FormatEnv writes NAME=VALUE lines with the value verbatim.
	FormatEnv Format = "env"
	// FormatExport writes export NAME=VALUE lines safe to eval in a POSIX shell.
	// Values containing shell metacharacters are single-quoted.
	FormatExport Format = "export"
	// FormatJSON writes a single JSON object of name/value strings.
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatEnv, FormatExport, FormatJSON}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatEnv, FormatExport, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: env, export, json)", s)
	}
}

// Write flattens root and renders every entry to w in the given format.
// Returns an error if writing to w fails.
func Write(w io.Writer, root Value, format Format, opts ...Option) error {
	bw := bufio.NewWriter(w)

	var err error
	switch format {
	case FormatEnv, "":
		err = writeLines(bw, root, opts, func(name, value string) string {
			return name + "=" + value + "\n"
		})
	case FormatExport:
		err = writeLines(bw, root, opts, func(name, value string) string {
			return "export " + name + "=" + shellescape.Quote(value) + "\n"
		})
	case FormatJSON:
		err = writeJSON(bw, root, opts)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeLines(w *bufio.Writer, root Value, opts []Option, line func(name, value string) string) error {
	for name, value := range Flatten(root, opts...) {
		if _, err := w.WriteString(line(name, value)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// writeJSON emits an object whose keys keep traversal order. A name seen
// twice keeps its first position and its last value.
func writeJSON(w *bufio.Writer, root Value, opts []Option) error {
	entries := orderedmap.New[string, string]()
	for name, value := range Flatten(root, opts...) {
		entries.Set(name, value)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
