package envflat

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestFlatten_NestedObjects(t *testing.T) {
	root := Object{
		{Key: "A", Value: Object{
			{Key: "B", Value: String("x")},
			{Key: "C", Value: Number("1")},
		}},
	}

	assert.Equal(t, []Entry{
		{Name: "A__B", Value: "x"},
		{Name: "A__C", Value: "1"},
	}, Collect(root))
}

func TestFlatten_Leaves(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "bare string", value: String("hello world"), want: "hello world"},
		{name: "string with quotes is not escaped", value: String(`say "hi"`), want: `say "hi"`},
		{name: "string with equals and newline", value: String("a=b\nc"), want: "a=b\nc"},
		{name: "integer", value: Number("42"), want: "42"},
		{name: "decimal keeps source text", value: Number("1.50"), want: "1.50"},
		{name: "exponent", value: Number("-3e5"), want: "-3e5"},
		{name: "true", value: Bool(true), want: "true"},
		{name: "false", value: Bool(false), want: "false"},
		{name: "null", value: Null{}, want: "null"},
		{name: "nil value treated as null", value: nil, want: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Collect(Object{{Key: "key", Value: tt.value}})
			require.Len(t, entries, 1)
			assert.Equal(t, Entry{Name: "KEY", Value: tt.want}, entries[0])
		})
	}
}

func TestFlatten_RootLeafEmitsNothing(t *testing.T) {
	for _, root := range []Value{String("just a string"), Number("1"), Bool(true), Null{}, nil} {
		assert.Empty(t, Collect(root), "root %#v", root)
	}
}

func TestFlatten_EmptyContainers(t *testing.T) {
	tests := []struct {
		name string
		root Value
		want []Entry
	}{
		{name: "empty root object", root: Object{}},
		{name: "empty root array", root: Array{}},
		{name: "empty nested object", root: Object{{Key: "Empty", Value: Object{}}}},
		{name: "empty nested array", root: Object{{Key: "List", Value: Array{}}}},
		{
			name: "empty containers between leaves",
			root: Object{
				{Key: "a", Value: String("1")},
				{Key: "b", Value: Object{{Key: "c", Value: Array{}}}},
				{Key: "d", Value: String("2")},
			},
			want: []Entry{{Name: "A", Value: "1"}, {Name: "D", Value: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collect(tt.root))
		})
	}
}

// Each array element must carry its index in the name; recursing with the
// parent path would make every element collide on one variable.
func TestFlatten_ArrayIndexIsPartOfName(t *testing.T) {
	root := Object{
		{Key: "List", Value: Array{String("a"), String("b"), String("c")}},
	}

	entries := Collect(root)
	assert.Equal(t, []Entry{
		{Name: "LIST__0", Value: "a"},
		{Name: "LIST__1", Value: "b"},
		{Name: "LIST__2", Value: "c"},
	}, entries)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.Name], "duplicate name %s", e.Name)
		seen[e.Name] = true
	}
}

func TestFlatten_ArraysOfObjectsAndNestedArrays(t *testing.T) {
	root := Object{
		{Key: "Servers", Value: Array{
			Object{{Key: "Host", Value: String("a")}, {Key: "Port", Value: Number("1")}},
			Object{{Key: "Host", Value: String("b")}},
		}},
		{Key: "Matrix", Value: Array{
			Array{Number("1"), Number("2")},
			Array{},
			Array{Number("3")},
		}},
	}

	assert.Equal(t, []string{
		"SERVERS__0__HOST",
		"SERVERS__0__PORT",
		"SERVERS__1__HOST",
		"MATRIX__0__0",
		"MATRIX__0__1",
		"MATRIX__2__0",
	}, names(Collect(root)))
}

func TestFlatten_RootArray(t *testing.T) {
	root := Array{
		String("x"),
		Object{{Key: "k", Value: Bool(false)}},
	}

	assert.Equal(t, []Entry{
		{Name: "0", Value: "x"},
		{Name: "1__K", Value: "false"},
	}, Collect(root))
}

func TestFlatten_DeclarationOrderPreserved(t *testing.T) {
	root := Object{
		{Key: "zeta", Value: String("1")},
		{Key: "alpha", Value: Object{
			{Key: "y", Value: String("2")},
			{Key: "b", Value: String("3")},
		}},
		{Key: "mid", Value: String("4")},
	}

	assert.Equal(t, []string{"ZETA", "ALPHA__Y", "ALPHA__B", "MID"}, names(Collect(root)))
}

func TestFlatten_SiblingPathsAreIndependent(t *testing.T) {
	// Deep enough that append on a shared backing array would overwrite a
	// sibling's segment if paths were not copied.
	root := Object{
		{Key: "a", Value: Object{
			{Key: "b", Value: Object{
				{Key: "c", Value: String("1")},
				{Key: "d", Value: String("2")},
			}},
			{Key: "e", Value: Array{String("3"), Object{{Key: "f", Value: String("4")}}}},
			{Key: "g", Value: String("5")},
		}},
		{Key: "h", Value: String("6")},
	}

	assert.Equal(t, []Entry{
		{Name: "A__B__C", Value: "1"},
		{Name: "A__B__D", Value: "2"},
		{Name: "A__E__0", Value: "3"},
		{Name: "A__E__1__F", Value: "4"},
		{Name: "A__G", Value: "5"},
		{Name: "H", Value: "6"},
	}, Collect(root))
}

func TestFlatten_EmptyKeys(t *testing.T) {
	root := Object{
		{Key: "", Value: String("root")},
		{Key: "a", Value: Object{{Key: "", Value: String("inner")}}},
	}

	assert.Equal(t, []Entry{
		{Name: "", Value: "root"},
		{Name: "A__", Value: "inner"},
	}, Collect(root))
}

func TestFlatten_Options(t *testing.T) {
	root := Object{
		{Key: "my-service", Value: Object{
			{Key: "base.url", Value: String("http://x")},
		}},
		{Key: "list", Value: Array{String("a")}},
	}

	tests := []struct {
		name string
		opts []Option
		want []string
	}{
		{
			name: "defaults",
			want: []string{"MY-SERVICE__BASE.URL", "LIST__0"},
		},
		{
			name: "custom separator",
			opts: []Option{WithSeparator("_")},
			want: []string{"MY-SERVICE_BASE.URL", "LIST_0"},
		},
		{
			name: "prefix",
			opts: []Option{WithPrefix("app_")},
			want: []string{"APP_MY-SERVICE__BASE.URL", "APP_LIST__0"},
		},
		{
			name: "sanitized",
			opts: []Option{WithSanitizedNames()},
			want: []string{"MY_SERVICE__BASE_URL", "LIST__0"},
		},
		{
			name: "all options",
			opts: []Option{WithPrefix("x."), WithSeparator("."), WithSanitizedNames()},
			want: []string{"X_MY_SERVICE_BASE_URL", "X_LIST_0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Collect(root, tt.opts...)))
		})
	}
}

func TestFlatten_PrefixDoesNotNameRootLeaf(t *testing.T) {
	assert.Empty(t, Collect(String("x"), WithPrefix("APP_")))
}

func TestFlatten_StopsEarly(t *testing.T) {
	root := Object{
		{Key: "a", Value: String("1")},
		{Key: "b", Value: Array{String("2"), String("3")}},
		{Key: "c", Value: String("4")},
	}

	var got []string
	for name := range Flatten(root) {
		got = append(got, name)
		if name == "B__0" {
			break
		}
	}
	assert.Equal(t, []string{"A", "B__0"}, got)
}

func TestFlatten_Restartable(t *testing.T) {
	root := Object{{Key: "a", Value: String("1")}, {Key: "b", Value: String("2")}}
	seq := Flatten(root)

	var first, second []string
	for name := range seq {
		first = append(first, name)
	}
	for name := range seq {
		second = append(second, name)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A", "B"}, first)
}

func TestFlatten_Properties(t *testing.T) {
	nameShape := regexp.MustCompile(`^[A-Z0-9]+(__[A-Z0-9]+)*$`)

	trees := []Value{
		Object{
			{Key: "Logging", Value: Object{
				{Key: "LogLevel", Value: Object{
					{Key: "Default", Value: String("Information")},
					{Key: "Microsoft", Value: String("Warning")},
				}},
			}},
			{Key: "AllowedHosts", Value: String("*")},
			{Key: "Kestrel", Value: Object{
				{Key: "Endpoints", Value: Array{
					Object{{Key: "Url", Value: String("http://0.0.0.0:80")}},
					Object{{Key: "Url", Value: String("https://0.0.0.0:443")}, {Key: "Cert", Value: Null{}}},
				}},
			}},
			{Key: "Empty", Value: Object{}},
			{Key: "Ids", Value: Array{Number("1"), Number("2"), Array{}, Bool(true)}},
		},
		Array{Array{Array{String("deep")}}, Object{}},
		Object{},
		String("leaf"),
	}

	for _, root := range trees {
		entries := Collect(root)

		// P1: one line per leaf strictly below the root.
		assert.Len(t, entries, CountLeaves(root))

		seen := make(map[string]bool)
		for _, e := range entries {
			// P3: names are upper-case segments joined by exactly two underscores.
			assert.Regexp(t, nameShape, e.Name)
			// P4: array elements never collide.
			assert.False(t, seen[e.Name], "duplicate name %s", e.Name)
			seen[e.Name] = true
		}
	}
}

func TestEntry_String(t *testing.T) {
	assert.Equal(t, "A__B=x=y", Entry{Name: "A__B", Value: "x=y"}.String())
}

func BenchmarkFlatten(b *testing.B) {
	servers := make(Array, 0, 100)
	for i := 0; i < 100; i++ {
		servers = append(servers, Object{
			{Key: "Host", Value: String("10.0.0.1")},
			{Key: "Port", Value: Number("8080")},
			{Key: "Tags", Value: Array{String("a"), String("b")}},
		})
	}
	root := Object{
		{Key: "Logging", Value: Object{{Key: "Level", Value: String("Debug")}}},
		{Key: "Servers", Value: servers},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range Flatten(root) {
		}
	}
}
