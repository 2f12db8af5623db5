package launcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuel-clarke/ddsp/internal/checkpoint"
	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/gin"
)

// Launch prepares the save directory and dispatches the plan to the
// engine. For training runs a checkpoint janitor enforces the trainer's
// retention setting for the duration of the run.
func Launch(ctx context.Context, plan *Plan, cfgModel *config.Model, engine Engine) error {
	logger := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(plan.SaveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save_dir: %w", err)
	}
	if err := writeOperativeConfig(plan, cfgModel); err != nil {
		return err
	}

	if plan.RestoreDir != "" {
		latest, ok, err := checkpoint.Latest(plan.RestoreDir)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("restore_dir %q contains no checkpoints", plan.RestoreDir)
		}
		logger.Info("Restoring from checkpoint.", "prefix", latest.Prefix(plan.RestoreDir), "step", latest.Step)
	}

	switch plan.Mode {
	case ModeTrain:
		janitor, err := checkpoint.NewJanitor(plan.SaveDir, plan.Trainer.CheckpointsToKeep)
		if err != nil {
			return err
		}
		if err := janitor.Start(ctx); err != nil {
			return err
		}
		defer janitor.Stop()

		logger.Info("Starting training run.",
			"run_id", plan.RunID,
			"num_steps", plan.Train.NumSteps,
			"steps_per_save", plan.Train.StepsPerSave,
			"dataset_shards", len(plan.DataFiles),
		)
		if err := engine.Train(ctx, plan); err != nil {
			return err
		}

	case ModeSample:
		// Sampling restores weights from restore_dir when given,
		// otherwise from the checkpoints already in save_dir.
		if plan.RestoreDir == "" {
			latest, ok, err := checkpoint.Latest(plan.SaveDir)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("sample mode requires a checkpoint in save_dir %q or an explicit restore_dir", plan.SaveDir)
			}
			logger.Info("Sampling from checkpoint.", "prefix", latest.Prefix(plan.SaveDir), "step", latest.Step)
		}
		logger.Info("Starting sampling run.",
			"run_id", plan.RunID,
			"batch_size", plan.Sample.BatchSize,
		)
		if err := engine.Sample(ctx, plan); err != nil {
			return err
		}

	default:
		return fmt.Errorf("invalid mode %q", plan.Mode)
	}

	logger.Info("Run finished.", "run_id", plan.RunID)
	return nil
}

// writeOperativeConfig records the merged configuration the run was
// launched with, in canonical gin form, inside the save directory.
func writeOperativeConfig(plan *Plan, cfgModel *config.Model) error {
	step := 0
	if latest, ok, err := checkpoint.Latest(plan.SaveDir); err == nil && ok {
		step = latest.Step
	}
	path := filepath.Join(plan.SaveDir, fmt.Sprintf("operative_config-%d.gin", step))
	if err := os.WriteFile(path, []byte(gin.FormatModel(cfgModel)), 0o644); err != nil {
		return fmt.Errorf("failed to write operative config: %w", err)
	}
	return nil
}
