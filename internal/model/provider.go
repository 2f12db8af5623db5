package model

import (
	"context"
	"fmt"
)

// VideoProviderConfig parameterizes the paired video/audio dataset reader.
type VideoProviderConfig struct {
	ExampleSecs     float64 `gin:"example_secs"`
	AudioSampleRate int     `gin:"audio_sample_rate"`
	VideoFrameRate  int     `gin:"video_frame_rate"`
	FilePattern     string  `gin:"file_pattern"`
}

// VideoProvider describes the dataset a run reads: shard locations and
// the example geometry derived from its rates.
type VideoProvider struct {
	VideoProviderConfig
}

// NSamples returns the audio samples per example.
func (p *VideoProvider) NSamples() int {
	return int(p.ExampleSecs * float64(p.AudioSampleRate))
}

// NFrames returns the video frames per example.
func (p *VideoProvider) NFrames() int {
	return int(p.ExampleSecs * float64(p.VideoFrameRate))
}

func newVideoProviderConfig() any {
	return &VideoProviderConfig{
		ExampleSecs:     4.0,
		AudioSampleRate: 16000,
		VideoFrameRate:  30,
	}
}

func buildVideoProvider(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*VideoProviderConfig)
	if c.ExampleSecs <= 0 {
		return nil, fmt.Errorf("example_secs must be positive, got %g", c.ExampleSecs)
	}
	if c.AudioSampleRate <= 0 {
		return nil, fmt.Errorf("audio_sample_rate must be positive, got %d", c.AudioSampleRate)
	}
	if c.VideoFrameRate <= 0 {
		return nil, fmt.Errorf("video_frame_rate must be positive, got %d", c.VideoFrameRate)
	}
	if c.FilePattern == "" {
		return nil, fmt.Errorf("file_pattern is required")
	}
	return &VideoProvider{VideoProviderConfig: *c}, nil
}

// DefaultPreprocessorConfig parameterizes the standard conditioning
// preprocessor.
type DefaultPreprocessorConfig struct {
	TimeSteps int `gin:"time_steps"`
}

// DefaultPreprocessor computes the standard conditioning features from
// raw dataset examples.
type DefaultPreprocessor struct {
	DefaultPreprocessorConfig
}

// ProvidedKeys lists the conditioning keys the preprocessor adds.
func (p *DefaultPreprocessor) ProvidedKeys() []string {
	return []string{"audio", "f0_hz", "f0_scaled", "loudness_db", "ld_scaled"}
}

func newDefaultPreprocessorConfig() any {
	return &DefaultPreprocessorConfig{TimeSteps: 1000}
}

func buildDefaultPreprocessor(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*DefaultPreprocessorConfig)
	if c.TimeSteps <= 0 {
		return nil, fmt.Errorf("time_steps must be positive, got %d", c.TimeSteps)
	}
	return &DefaultPreprocessor{DefaultPreprocessorConfig: *c}, nil
}
