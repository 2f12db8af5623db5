package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/samuel-clarke/ddsp/internal/app"
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

// stringList is a repeatable flag value. Each occurrence appends.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ddsp-run", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ddsp-run - Configure and launch DDSP training and sampling runs.

Usage:
  ddsp-run --mode=train --save_dir=DIR --gin_file=FILE [options]
  ddsp-run --runs-file=FILE --run=NAME [options]

The --gin_file and --gin_param options are repeatable; files merge in
order and parameter overrides win over file bindings.

Options:
`)
		flagSet.PrintDefaults()
	}

	var ginFiles, ginParams stringList
	modeFlag := flagSet.String("mode", "", "Run mode. Options: 'train' or 'sample'.")
	saveDirFlag := flagSet.String("save_dir", "", "Directory for checkpoints, summaries, and the operative config.")
	restoreDirFlag := flagSet.String("restore_dir", "", "Directory holding a checkpoint to warm-start from.")
	flagSet.Var(&ginFiles, "gin_file", "Path to a gin configuration file, or a directory of them. Repeatable.")
	flagSet.Var(&ginParams, "gin_param", "A single 'Selector.param = value' override. Repeatable.")
	alsoStderrFlag := flagSet.Bool("alsologtostderr", false, "Also mirror log output to stderr.")
	engineBinFlag := flagSet.String("engine-bin", "", "Path to the compute engine binary. Defaults to 'ddsp-engine'.")
	runsFileFlag := flagSet.String("runs-file", "", "Path to an HCL runs manifest.")
	runFlag := flagSet.String("run", "", "Name of the run to select from the manifest.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *modeFlag == "" && *runsFileFlag == "" && len(ginFiles) == 0 {
		slog.Debug("No mode or manifest provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if *modeFlag != "" && *modeFlag != "train" && *modeFlag != "sample" {
		return nil, false, &ExitError{Code: 2, Message: "invalid mode: must be 'train' or 'sample'"}
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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Mode:            *modeFlag,
		SaveDir:         *saveDirFlag,
		RestoreDir:      *restoreDirFlag,
		GinFiles:        ginFiles,
		GinParams:       ginParams,
		RunsFile:        *runsFileFlag,
		RunName:         *runFlag,
		EngineBin:       *engineBinFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		AlsoLogToStderr: *alsoStderrFlag,
		HealthcheckPort: *healthPortFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
