// Package sourcefile loads a configuration document from a JSON, YAML, or TOML file.
//
// Format is auto-detected from extension (.json, .yaml, .yml, .toml); anything else is read as JSON.
// The path "-" reads standard input. Object member order is kept for JSON and YAML.
//
// Example:
//
//	source := sourcefile.New("appsettings.json", sourcefile.Options{})
//	root, err := source.Load(ctx)
package sourcefile
