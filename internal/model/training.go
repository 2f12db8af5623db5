package model

import (
	"context"
	"fmt"
)

// TrainSettings configures the train mode of a run (train_util.train).
type TrainSettings struct {
	NumSteps     int `gin:"num_steps"`
	StepsPerSave int `gin:"steps_per_save"`
}

func newTrainSettings() any {
	return &TrainSettings{
		NumSteps:     1000000,
		StepsPerSave: 300,
	}
}

func buildTrainSettings(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*TrainSettings)
	if c.NumSteps <= 0 {
		return nil, fmt.Errorf("num_steps must be positive, got %d", c.NumSteps)
	}
	if c.StepsPerSave <= 0 {
		return nil, fmt.Errorf("steps_per_save must be positive, got %d", c.StepsPerSave)
	}
	if c.StepsPerSave > c.NumSteps {
		return nil, fmt.Errorf("steps_per_save (%d) exceeds num_steps (%d)", c.StepsPerSave, c.NumSteps)
	}
	return c, nil
}

// TrainerSettings configures the checkpoint-writing trainer
// (trainers.Trainer).
type TrainerSettings struct {
	CheckpointsToKeep int     `gin:"checkpoints_to_keep"`
	LearningRate      float64 `gin:"learning_rate"`
}

func newTrainerSettings() any {
	return &TrainerSettings{
		CheckpointsToKeep: 10,
		LearningRate:      0.001,
	}
}

func buildTrainerSettings(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*TrainerSettings)
	if c.CheckpointsToKeep <= 0 {
		return nil, fmt.Errorf("checkpoints_to_keep must be positive, got %d", c.CheckpointsToKeep)
	}
	if c.LearningRate <= 0 {
		return nil, fmt.Errorf("learning_rate must be positive, got %g", c.LearningRate)
	}
	return c, nil
}

// SampleSettings configures the sample mode of a run (eval_util.sample).
type SampleSettings struct {
	BatchSize int `gin:"batch_size"`
}

func newSampleSettings() any {
	return &SampleSettings{BatchSize: 16}
}

func buildSampleSettings(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*SampleSettings)
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return c, nil
}
