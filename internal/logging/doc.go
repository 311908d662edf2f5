// Package logging builds the zap logger used for diagnostics. Logs go to
// stderr so they never mix with flattened output on stdout.
package logging
