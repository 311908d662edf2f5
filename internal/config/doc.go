// Package config resolves the CLI settings from multiple sources (ENVFLAT_*
// environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > Defaults. The defaults reproduce plain NAME=VALUE output with
// "__" between nesting levels.
package config
