package normalize

import "strings"

// DefaultSeparator joins nesting levels in an environment variable name.
const DefaultSeparator = "__"

// ToUpperASCII upper-cases ASCII letters and leaves every other byte alone.
// Examples:
//   - "Logging" → "LOGGING"
//   - "connectionStrings" → "CONNECTIONSTRINGS"
//   - "straße" → "STRAßE"
func ToUpperASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'a' <= c && c <= 'z' {
			return strings.Map(upperASCII, s)
		}
	}
	return s
}

func upperASCII(r rune) rune {
	if 'a' <= r && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// JoinEnvName upper-cases each segment and joins them with sep.
// The separator goes strictly between segments.
// Examples:
//   - ["Logging", "LogLevel"] → "LOGGING__LOGLEVEL"
//   - ["List", "0"] → "LIST__0"
//   - ["flag"] → "FLAG"
func JoinEnvName(segments []string, sep string) string {
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return ToUpperASCII(segments[0])
	}

	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(ToUpperASCII(seg))
	}
	return b.String()
}

// ApplyPrefix prepends an upper-cased prefix to an environment variable name.
// If prefix is empty, returns the name unchanged.
// Examples:
//   - ApplyPrefix("app_", "DATABASE__HOST") → "APP_DATABASE__HOST"
//   - ApplyPrefix("", "HOST") → "HOST"
func ApplyPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return ToUpperASCII(prefix) + name
}

// Sanitize replaces every byte outside [A-Z0-9_] with an underscore so the
// result is a portable environment variable name.
// Examples:
//   - "API.KEY" → "API_KEY"
//   - "MY-SERVICE__URL" → "MY_SERVICE__URL"
func Sanitize(name string) string {
	b := []byte(name)
	for i, c := range b {
		if !isEnvNameByte(c) {
			b[i] = '_'
		}
	}
	return string(b)
}

func isEnvNameByte(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '_'
}
