package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode       string
	SaveDir    string
	RestoreDir string
	GinFiles   []string
	GinParams  []string

	// RunsFile and RunName select a named run from an HCL manifest
	// instead of spelling the invocation out in flags.
	RunsFile string
	RunName  string

	EngineBin       string
	LogFormat       string
	LogLevel        string
	AlsoLogToStderr bool
	HealthcheckPort int
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RunsFile == "" {
		if cfg.Mode == "" {
			return nil, errors.New("mode is a required configuration field and cannot be empty")
		}
		if len(cfg.GinFiles) == 0 {
			return nil, errors.New("at least one gin file is required")
		}
		if cfg.SaveDir == "" {
			return nil, errors.New("save_dir is a required configuration field and cannot be empty")
		}
	} else if cfg.RunName == "" {
		return nil, errors.New("a run name is required when a runs manifest is given")
	}

	// With a manifest in play, an empty EngineBin means "not set on the
	// command line", so the manifest's engine_bin may still fill it in.
	if cfg.EngineBin == "" && cfg.RunsFile == "" {
		cfg.EngineBin = "ddsp-engine"
	}
	return &cfg, nil
}
