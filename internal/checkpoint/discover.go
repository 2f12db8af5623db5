// Package checkpoint manages the checkpoint files a training engine
// writes into a run's save directory: discovery of the latest restorable
// step and retention of a bounded number of past checkpoints.
package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// fileRegex matches the files belonging to one checkpoint step, e.g.
// "ckpt-4000.index" and "ckpt-4000.data-00000-of-00001".
var fileRegex = regexp.MustCompile(`^ckpt-(\d+)(?:\..+)?$`)

// Checkpoint is one saved training step and the files that make it up.
type Checkpoint struct {
	Step  int
	Files []string
}

// Prefix returns the step's file prefix within dir, e.g. "dir/ckpt-4000".
func (c Checkpoint) Prefix(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("ckpt-%d", c.Step))
}

// List returns all checkpoints found in dir, ordered by ascending step.
// A directory with no checkpoint files yields an empty slice.
func List(dir string) ([]Checkpoint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan checkpoint directory: %w", err)
	}

	bySteps := make(map[int][]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := fileRegex.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		step, err := strconv.Atoi(m[1])
		if err != nil {
			// Unreachable due to regex `\d+`.
			continue
		}
		bySteps[step] = append(bySteps[step], filepath.Join(dir, entry.Name()))
	}

	checkpoints := make([]Checkpoint, 0, len(bySteps))
	for step, files := range bySteps {
		sort.Strings(files)
		checkpoints = append(checkpoints, Checkpoint{Step: step, Files: files})
	}
	sort.Slice(checkpoints, func(i, j int) bool { return checkpoints[i].Step < checkpoints[j].Step })
	return checkpoints, nil
}

// Latest returns the highest-step checkpoint in dir. The second return is
// false when the directory holds no checkpoints.
func Latest(dir string) (Checkpoint, bool, error) {
	checkpoints, err := List(dir)
	if err != nil {
		return Checkpoint{}, false, err
	}
	if len(checkpoints) == 0 {
		return Checkpoint{}, false, nil
	}
	return checkpoints[len(checkpoints)-1], true, nil
}
