package envflat

import (
	"iter"
	"slices"
	"strconv"

	"github.com/Azhovan/envflat/internal/normalize"
)

// Option configures how names are built using the functional options pattern.
type Option func(*flattenConfig)

// flattenConfig holds options for Flatten.
type flattenConfig struct {
	separator string // Placed between path segments (default: "__")
	prefix    string // Prepended to every name
	sanitize  bool   // Replace bytes outside [A-Z0-9_] with '_'
}

// WithSeparator sets the string placed between path segments.
// Default is "__".
func WithSeparator(sep string) Option {
	return func(cfg *flattenConfig) {
		cfg.separator = sep
	}
}

// WithPrefix prepends prefix (upper-cased) to every emitted name.
func WithPrefix(prefix string) Option {
	return func(cfg *flattenConfig) {
		cfg.prefix = prefix
	}
}

// WithSanitizedNames replaces every byte of a name outside [A-Z0-9_] with '_'.
func WithSanitizedNames() Option {
	return func(cfg *flattenConfig) {
		cfg.sanitize = true
	}
}

func newFlattenConfig(opts []Option) flattenConfig {
	cfg := flattenConfig{separator: normalize.DefaultSeparator}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c flattenConfig) name(path []string) string {
	name := normalize.ApplyPrefix(c.prefix, normalize.JoinEnvName(path, c.separator))
	if c.sanitize {
		name = normalize.Sanitize(name)
	}
	return name
}

// Entry is one flattened leaf.
type Entry struct {
	Name  string
	Value string
}

// String formats the entry as NAME=VALUE.
func (e Entry) String() string {
	return e.Name + "=" + e.Value
}

// Flatten returns the leaves of root as (name, value) pairs in depth-first
// pre-order: object members in declaration order, array elements by index.
// Names are the upper-cased key path joined by the separator; array elements
// contribute their index as a segment. A root leaf and empty containers
// produce nothing. Ranging over the result again restarts the traversal.
func Flatten(root Value, opts ...Option) iter.Seq2[string, string] {
	cfg := newFlattenConfig(opts)
	return func(yield func(string, string) bool) {
		walk(root, nil, cfg, yield)
	}
}

// walk reports false once yield asks to stop. path is never mutated: each
// child receives its own copy extended by one segment.
func walk(v Value, path []string, cfg flattenConfig, yield func(string, string) bool) bool {
	switch v := v.(type) {
	case Object:
		for _, m := range v {
			if !walk(m.Value, extend(path, m.Key), cfg, yield) {
				return false
			}
		}
	case Array:
		for i, elem := range v {
			if !walk(elem, extend(path, strconv.Itoa(i)), cfg, yield) {
				return false
			}
		}
	default:
		if len(path) == 0 {
			return true
		}
		text, _ := Scalar(v)
		return yield(cfg.name(path), text)
	}
	return true
}

// extend returns path ++ [seg] in a fresh backing array.
func extend(path []string, seg string) []string {
	return append(slices.Clip(path), seg)
}

// Collect drains Flatten into a slice.
func Collect(root Value, opts ...Option) []Entry {
	var entries []Entry
	for name, value := range Flatten(root, opts...) {
		entries = append(entries, Entry{Name: name, Value: value})
	}
	return entries
}
