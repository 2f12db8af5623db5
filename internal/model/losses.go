package model

import (
	"context"
	"fmt"
)

// spectralLossTypes are the distance norms SpectralLoss supports.
var spectralLossTypes = map[string]bool{"L1": true, "L2": true, "COSINE": true}

// SpectralLossConfig parameterizes the multi-scale spectrogram loss.
type SpectralLossConfig struct {
	LossType     string  `gin:"loss_type"`
	MagWeight    float64 `gin:"mag_weight"`
	LogmagWeight float64 `gin:"logmag_weight"`
	FftSizes     []int   `gin:"fft_sizes"`
}

// SpectralLoss compares audio in the spectral domain at several FFT sizes.
type SpectralLoss struct {
	SpectralLossConfig
}

func (l *SpectralLoss) LossName() string { return "SpectralLoss" }

func newSpectralLossConfig() any {
	return &SpectralLossConfig{
		LossType:     "L1",
		MagWeight:    1.0,
		LogmagWeight: 0.0,
		FftSizes:     []int{2048, 1024, 512, 256, 128, 64},
	}
}

func buildSpectralLoss(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*SpectralLossConfig)
	if !spectralLossTypes[c.LossType] {
		return nil, fmt.Errorf("loss_type must be one of L1, L2, COSINE; got %q", c.LossType)
	}
	if c.MagWeight == 0 && c.LogmagWeight == 0 {
		return nil, fmt.Errorf("at least one of mag_weight and logmag_weight must be non-zero")
	}
	if len(c.FftSizes) == 0 {
		return nil, fmt.Errorf("fft_sizes must not be empty")
	}
	return &SpectralLoss{SpectralLossConfig: *c}, nil
}
