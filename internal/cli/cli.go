// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/launchgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// argList collects repeated -arg name=value flags.
type argList map[string]string

func (a argList) String() string {
	pairs := make([]string, 0, len(a))
	for name, value := range a {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (a argList) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("argument override %q is not of the form name=value", value)
	}
	a[name] = val
	return nil
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("launchgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
launchgo - A declarative process launch engine.

Usage:
  launchgo [options] [LAUNCH_PATH]

Arguments:
  LAUNCH_PATH
    Path to a single .hcl launch file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	launchFlag := flagSet.String("launch", "", "Path to the launch file or directory.")
	lFlag := flagSet.String("l", "", "Path to the launch file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	graceFlag := flagSet.Duration("shutdown-grace", 0, "Grace period between terminating and killing processes on shutdown. 0 selects the default.")
	overrides := argList{}
	flagSet.Var(overrides, "arg", "Override a launch argument as name=value. May be repeated.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *launchFlag != "" {
		path = *launchFlag
	} else if *lFlag != "" {
		path = *lFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Launch path determined.", "path", path)

	if path == "" {
		slog.Debug("No launch path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *graceFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid shutdown-grace: must not be negative"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		LaunchPath:    path,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		ShutdownGrace: *graceFlag,
		Arguments:     overrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
