package launcher

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/samuel-clarke/ddsp/internal/ctxlog"
)

// Engine executes the compute side of a planned run. Training math and
// synthesis live behind this boundary.
type Engine interface {
	Train(ctx context.Context, plan *Plan) error
	Sample(ctx context.Context, plan *Plan) error
}

// ExecEngine dispatches runs to an external engine binary, forwarding
// the run's configuration as command-line flags.
type ExecEngine struct {
	Bin string
	Out io.Writer
}

var _ Engine = (*ExecEngine)(nil)

// NewExecEngine creates an engine that spawns the given binary.
func NewExecEngine(bin string, out io.Writer) *ExecEngine {
	return &ExecEngine{Bin: bin, Out: out}
}

// Train implements Engine.
func (e *ExecEngine) Train(ctx context.Context, plan *Plan) error {
	return e.run(ctx, plan)
}

// Sample implements Engine.
func (e *ExecEngine) Sample(ctx context.Context, plan *Plan) error {
	return e.run(ctx, plan)
}

func (e *ExecEngine) run(ctx context.Context, plan *Plan) error {
	logger := ctxlog.FromContext(ctx)
	args := EngineArgs(plan)

	logger.Info("Dispatching run to engine.", "bin", e.Bin, "run_id", plan.RunID, "mode", plan.Mode)
	logger.Debug("Engine invocation.", "args", args)

	cmd := exec.CommandContext(ctx, e.Bin, args...)
	cmd.Stdout = e.Out
	cmd.Stderr = e.Out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("engine run failed: %w", err)
	}
	return nil
}

// EngineArgs renders the flag list handed to the engine binary. The
// surface matches the documented invocation: mode, directories, then
// every gin file and parameter override in order.
func EngineArgs(plan *Plan) []string {
	args := []string{
		fmt.Sprintf("--mode=%s", plan.Mode),
		"--alsologtostderr",
		fmt.Sprintf("--save_dir=%s", plan.SaveDir),
	}
	if plan.RestoreDir != "" {
		args = append(args, fmt.Sprintf("--restore_dir=%s", plan.RestoreDir))
	}
	for _, file := range plan.GinFiles {
		args = append(args, fmt.Sprintf("--gin_file=%s", file))
	}
	for _, param := range plan.GinParams {
		args = append(args, fmt.Sprintf("--gin_param=%s", param))
	}
	return args
}
