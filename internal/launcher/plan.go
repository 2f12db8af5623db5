// Package launcher turns a resolved configuration into a concrete run
// plan and dispatches it to a training engine. The plan captures
// everything a run needs up front (model graph, dataset shards, restore
// checkpoint, directories) so every configuration error surfaces before
// an engine process is started.
package launcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/dag"
	"github.com/samuel-clarke/ddsp/internal/fsutil"
	"github.com/samuel-clarke/ddsp/internal/keypath"
	"github.com/samuel-clarke/ddsp/internal/model"
	"github.com/samuel-clarke/ddsp/internal/registry"
)

// Mode selects what a run does.
type Mode string

const (
	ModeTrain  Mode = "train"
	ModeSample Mode = "sample"
)

// ParseMode validates a mode string from the CLI or a runs manifest.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeTrain, ModeSample:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be 'train' or 'sample'", raw)
	}
}

// Options carries the per-invocation inputs of a run.
type Options struct {
	Mode       Mode
	SaveDir    string
	RestoreDir string
	GinFiles   []string
	GinParams  []string
	EngineBin  string
}

// Plan is a fully validated, ready-to-dispatch run.
type Plan struct {
	RunID      string
	Mode       Mode
	SaveDir    string
	RestoreDir string
	GinFiles   []string
	GinParams  []string

	Model    model.Model
	Graph    *dag.Graph
	Provider *model.VideoProvider
	Train    *model.TrainSettings
	Trainer  *model.TrainerSettings
	Sample   *model.SampleSettings

	DataFiles []string
}

// BuildPlan resolves and validates everything a run needs. The model
// graph is always built, so a broken processor DAG fails both modes.
func BuildPlan(ctx context.Context, res *registry.Resolver, cfgModel *config.Model, opts Options) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	if opts.SaveDir == "" {
		return nil, fmt.Errorf("save_dir is required")
	}

	plan := &Plan{
		RunID:      uuid.NewString(),
		Mode:       opts.Mode,
		SaveDir:    opts.SaveDir,
		RestoreDir: opts.RestoreDir,
		GinFiles:   opts.GinFiles,
		GinParams:  opts.GinParams,
	}

	built, err := res.Instantiate(ctx, "get_model")
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}
	mdl, ok := built.(model.Model)
	if !ok {
		return nil, fmt.Errorf("get_model produced %T, which is not a model", built)
	}
	plan.Model = mdl
	logger.Debug("Model resolved.", "model", mdl.ModelName())

	if ae, ok := mdl.(*model.Autoencoder); ok {
		graph, err := dag.Build(ctx, ae.ProcessorGroup, ae.ConditioningKeys())
		if err != nil {
			return nil, err
		}
		plan.Graph = graph
		logger.Debug("Processor graph validated.", "nodes", len(graph.Nodes()))
	}

	if hasBindings(cfgModel, "data.VideoProvider") {
		built, err := res.Instantiate(ctx, "data.VideoProvider")
		if err != nil {
			return nil, fmt.Errorf("failed to build data provider: %w", err)
		}
		plan.Provider = built.(*model.VideoProvider)
	}

	switch opts.Mode {
	case ModeTrain:
		if err := plan.resolveTrain(ctx, res); err != nil {
			return nil, err
		}
	case ModeSample:
		if err := plan.resolveSample(ctx, res); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid mode %q", opts.Mode)
	}

	return plan, nil
}

func (p *Plan) resolveTrain(ctx context.Context, res *registry.Resolver) error {
	logger := ctxlog.FromContext(ctx)

	if p.Provider == nil {
		return fmt.Errorf("train mode requires a configured data provider (VideoProvider.file_pattern)")
	}
	files, err := fsutil.ExpandPattern(p.Provider.FilePattern)
	if err != nil {
		return fmt.Errorf("invalid file_pattern %q: %w", p.Provider.FilePattern, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("file_pattern %q matches no dataset files", p.Provider.FilePattern)
	}
	p.DataFiles = files
	logger.Debug("Dataset shards located.", "pattern", p.Provider.FilePattern, "files", len(files))

	train, err := res.Instantiate(ctx, "train_util.train")
	if err != nil {
		return err
	}
	p.Train = train.(*model.TrainSettings)

	trainer, err := res.Instantiate(ctx, "trainers.Trainer")
	if err != nil {
		return err
	}
	p.Trainer = trainer.(*model.TrainerSettings)
	return nil
}

func (p *Plan) resolveSample(ctx context.Context, res *registry.Resolver) error {
	sample, err := res.Instantiate(ctx, "eval_util.sample")
	if err != nil {
		return err
	}
	p.Sample = sample.(*model.SampleSettings)
	return nil
}

// hasBindings reports whether any binding in the model addresses the
// given qualified configurable.
func hasBindings(cfgModel *config.Model, qualified string) bool {
	return len(cfgModel.BindingsFor(qualified, keypath.MatchesSuffix)) > 0
}
