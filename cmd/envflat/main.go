package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/Azhovan/envflat"
	"github.com/Azhovan/envflat/internal/config"
	"github.com/Azhovan/envflat/internal/logging"
	"github.com/Azhovan/envflat/sourcefile"
)

var version = "dev"

// cli holds the kingpin application and the values it parses into.
type cli struct {
	app *kingpin.Application

	input     *string
	format    *string
	separator *string
	prefix    *string
	output    *string
	sanitize  *bool
	logLevel  *string

	formatSet, separatorSet, prefixSet, outputSet, sanitizeSet, logLevelSet bool
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("envflat", "Flatten a hierarchical configuration file into KEY=VALUE environment variable lines")
	c.app.Version(version)

	c.input = c.app.Arg("APPSETTINGS_FILE", "Input appsettings file (- for stdin)").Required().String()
	c.format = c.app.Flag("format", "Input format: json, yaml or toml (default: from file extension)").
		Short('f').HintOptions("json", "yaml", "toml").IsSetByUser(&c.formatSet).String()
	c.separator = c.app.Flag("separator", "Separator placed between nesting levels").
		IsSetByUser(&c.separatorSet).String()
	c.prefix = c.app.Flag("prefix", "Prefix prepended to every variable name").
		IsSetByUser(&c.prefixSet).String()
	c.output = c.app.Flag("output", "Output format: env, export or json").
		Short('o').HintOptions("env", "export", "json").IsSetByUser(&c.outputSet).String()
	c.sanitize = c.app.Flag("sanitize", "Replace characters outside [A-Z0-9_] in names with '_'").
		IsSetByUser(&c.sanitizeSet).Bool()
	c.logLevel = c.app.Flag("log-level", "Diagnostic log level written to stderr").
		HintOptions("debug", "info", "warn", "error").IsSetByUser(&c.logLevelSet).String()

	return c
}

// parse reads the command line. A bare "-" names stdin, which kingpin would
// otherwise take for an empty short flag group.
func (c *cli) parse(args []string) (string, error) {
	return c.app.Parse(stdinArgs(args, c.valueFlags()))
}

// valueFlags returns the spellings of every flag that takes a value.
func (c *cli) valueFlags() map[string]bool {
	flags := make(map[string]bool)
	for _, f := range c.app.Model().Flags {
		if f.IsBoolFlag() {
			continue
		}
		flags["--"+f.Name] = true
		if f.Short != 0 {
			flags["-"+string(f.Short)] = true
		}
	}
	return flags
}

// stdinArgs rewrites every bare "-". Following a value flag it is attached to
// the flag (--separator=-, -o-). Otherwise it is the positional input and is
// moved behind "--".
func stdinArgs(args []string, valueFlags map[string]bool) []string {
	out := make([]string, 0, len(args)+1)
	stdin, argsOnly := false, false
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			argsOnly = true
			break
		}
		if arg != "-" {
			out = append(out, arg)
			continue
		}
		if n := len(out); n > 0 && valueFlags[out[n-1]] {
			if strings.HasPrefix(out[n-1], "--") {
				out[n-1] += "=-"
			} else {
				out[n-1] += "-"
			}
			continue
		}
		stdin = true
	}
	if stdin {
		if !argsOnly {
			out = append(out, "--")
		}
		out = append(out, "-")
	}
	return out
}

// overrides returns only the values given on the command line.
func (c *cli) overrides() *config.CLIOverrides {
	o := &config.CLIOverrides{Input: *c.input}
	if c.formatSet {
		o.Format = c.format
	}
	if c.separatorSet {
		o.Separator = c.separator
	}
	if c.prefixSet {
		o.Prefix = c.prefix
	}
	if c.outputSet {
		o.Output = c.output
	}
	if c.sanitizeSet {
		o.Sanitize = c.sanitize
	}
	if c.logLevelSet {
		o.LogLevel = c.logLevel
	}
	return o
}

func main() {
	c := newCLI()
	kingpin.MustParse(c.parse(os.Args[1:]))

	cfg, err := config.Load(c.overrides())
	c.app.FatalIfError(err, "load configuration")

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	err = run(context.Background(), cfg, os.Stdin, os.Stdout, logger)
	_ = logger.Sync()
	c.app.FatalIfError(err, "")
}

// run loads the whole input before writing anything, so a read or parse
// failure never leaves partial output behind.
func run(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	src := sourcefile.New(cfg.Input, sourcefile.Options{Format: cfg.Format, Stdin: stdin})

	root, err := src.Load(ctx)
	if err != nil {
		logger.Debug("failed to load configuration", zap.String("source", src.Name()), zap.Error(err))
		return err
	}

	leaves := envflat.CountLeaves(root)
	logger.Debug("configuration loaded",
		zap.String("source", src.Name()),
		zap.Stringer("root", envflat.KindOf(root)),
		zap.Int("leaves", leaves),
	)
	if leaves == 0 {
		logger.Info("configuration has no named leaves, output is empty", zap.String("source", src.Name()))
	}

	if err := envflat.Write(stdout, root, cfg.Output, cfg.FlattenOptions()...); err != nil {
		return err
	}

	logger.Debug("flattened configuration written",
		zap.String("output", string(cfg.Output)),
		zap.Int("lines", leaves),
	)
	return nil
}
