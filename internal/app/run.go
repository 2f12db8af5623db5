package app

import (
	"context"
	"fmt"

	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/launcher"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer func() {
			if err := a.closeHealthcheckServer(); err != nil {
				a.logger.Warn("Health check server did not shut down cleanly.", "error", err)
			}
		}()
	}

	mode, err := launcher.ParseMode(a.config.Mode)
	if err != nil {
		return err
	}

	a.logger.Debug("Building launch plan from config model...")
	resolver := a.registry.NewResolver(a.model)
	plan, err := launcher.BuildPlan(ctx, resolver, a.model, launcher.Options{
		Mode:       mode,
		SaveDir:    a.config.SaveDir,
		RestoreDir: a.config.RestoreDir,
		GinFiles:   a.config.GinFiles,
		GinParams:  a.config.GinParams,
	})
	if err != nil {
		return fmt.Errorf("failed to build launch plan: %w", err)
	}
	a.logger.Info("🚀 Launch plan ready.",
		"run_id", plan.RunID, "mode", plan.Mode, "save_dir", plan.SaveDir)

	engine := launcher.NewExecEngine(a.config.EngineBin, a.outW)
	if err := launcher.Launch(ctx, plan, a.model, engine); err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}

	a.logger.Info("🏁 Run finished.", "run_id", plan.RunID)
	a.logger.Debug("App.Run method finished.")
	return nil
}
