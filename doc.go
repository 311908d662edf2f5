// Package envflat flattens hierarchical configuration into environment variable assignments.
//
// Quick Start:
//
//	src := sourcefile.New("appsettings.json", sourcefile.Options{})
//	root, err := src.Load(context.Background())
//	if err != nil {
//	    return err
//	}
//	for name, value := range envflat.Flatten(root) {
//	    fmt.Printf("%s=%s\n", name, value)
//	}
//
// Naming: {"Logging": {"LogLevel": "Debug"}} → LOGGING__LOGLEVEL=Debug, {"List": ["a"]} → LIST__0=a
//
// Options: WithSeparator, WithPrefix, WithSanitizedNames. Output formats: env, export, json.
package envflat
