package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/model"
	"github.com/samuel-clarke/ddsp/internal/registry"
	"github.com/samuel-clarke/ddsp/internal/runs"
)

// coreModules is the definitive list of component families compiled into
// the ddsp-run binary.
var coreModules = []registry.Module{
	model.Components{},
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	model      *config.Model
	config     *Config
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and
// registry, with the configuration loaded and validated. Critical startup
// errors panic; main recovers them into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, appConfig.AlsoLogToStderr, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if appConfig.RunsFile != "" {
		if err := applyManifestRun(ctx, appConfig); err != nil {
			panic(err)
		}
		if appConfig.EngineBin == "" {
			appConfig.EngineBin = "ddsp-engine"
		}
		logger.Debug("Runs manifest applied.", "run", appConfig.RunName)
	}

	cfgModel, err := loader.Load(ctx, appConfig.GinFiles...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if err := loader.LoadOverrides(ctx, cfgModel, appConfig.GinParams...); err != nil {
		panic(fmt.Errorf("failed to apply configuration overrides: %w", err))
	}
	logger.Debug("Configuration loaded and merged.", "bindings", len(cfgModel.Bindings))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All component families registered.", "count", len(modules))

	if err := reg.ValidateModel(ctx, cfgModel); err != nil {
		panic(err)
	}
	logger.Debug("Configuration validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    cfgModel,
		config:   appConfig,
	}
}

// applyManifestRun fills the app config from a named run in an HCL
// manifest. Flags already set on the command line win over the manifest.
func applyManifestRun(ctx context.Context, appConfig *Config) error {
	manifest, err := runs.Load(ctx, appConfig.RunsFile)
	if err != nil {
		return err
	}
	run, ok := manifest.Run(appConfig.RunName)
	if !ok {
		return fmt.Errorf("run %q not found in %s (have %v)",
			appConfig.RunName, appConfig.RunsFile, manifest.Names())
	}

	if appConfig.Mode == "" {
		appConfig.Mode = run.Mode
	}
	if appConfig.SaveDir == "" {
		appConfig.SaveDir = run.SaveDir
	}
	if appConfig.RestoreDir == "" {
		appConfig.RestoreDir = run.RestoreDir
	}
	if appConfig.EngineBin == "" {
		appConfig.EngineBin = run.EngineBin
	}
	appConfig.GinFiles = append(run.GinFiles, appConfig.GinFiles...)
	appConfig.GinParams = append(run.ParamOverrides(), appConfig.GinParams...)
	return nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the merged configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
