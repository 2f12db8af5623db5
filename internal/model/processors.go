package model

import (
	"context"
	"fmt"
)

// AdditiveConfig parameterizes the harmonic sinusoidal oscillator bank.
type AdditiveConfig struct {
	Name                  string  `gin:"name"`
	SampleRate            int     `gin:"sample_rate"`
	NSamples              int     `gin:"n_samples"`
	NormalizeBelowNyquist bool    `gin:"normalize_below_nyquist"`
	ScaleFn               ScaleFn `gin:"scale_fn"`
}

// Additive is the harmonic synthesizer stage of a processor group.
type Additive struct {
	AdditiveConfig
}

func (a *Additive) ProcessorName() string { return a.Name }
func (a *Additive) Controls() []string {
	return []string{"amplitudes", "harmonic_distribution", "f0_hz"}
}
func (a *Additive) Outputs() []string { return []string{"signal"} }

func newAdditiveConfig() any {
	return &AdditiveConfig{
		Name:                  "additive",
		SampleRate:            16000,
		NSamples:              64000,
		NormalizeBelowNyquist: true,
		ScaleFn:               ScaleFn{Name: "core.exp_sigmoid"},
	}
}

func buildAdditive(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*AdditiveConfig)
	if c.SampleRate <= 0 {
		return nil, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.NSamples <= 0 {
		return nil, fmt.Errorf("n_samples must be positive, got %d", c.NSamples)
	}
	return &Additive{AdditiveConfig: *c}, nil
}

// FilteredNoiseConfig parameterizes the filtered white noise synthesizer.
type FilteredNoiseConfig struct {
	Name        string  `gin:"name"`
	NSamples    int     `gin:"n_samples"`
	WindowSize  int     `gin:"window_size"`
	ScaleFn     ScaleFn `gin:"scale_fn"`
	InitialBias float64 `gin:"initial_bias"`
}

// FilteredNoise is the noise synthesizer stage of a processor group.
type FilteredNoise struct {
	FilteredNoiseConfig
}

func (f *FilteredNoise) ProcessorName() string { return f.Name }
func (f *FilteredNoise) Controls() []string    { return []string{"magnitudes"} }
func (f *FilteredNoise) Outputs() []string     { return []string{"signal"} }

func newFilteredNoiseConfig() any {
	return &FilteredNoiseConfig{
		Name:        "filtered_noise",
		NSamples:    64000,
		WindowSize:  257,
		ScaleFn:     ScaleFn{Name: "core.exp_sigmoid"},
		InitialBias: -5.0,
	}
}

func buildFilteredNoise(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*FilteredNoiseConfig)
	if c.NSamples <= 0 {
		return nil, fmt.Errorf("n_samples must be positive, got %d", c.NSamples)
	}
	if c.WindowSize <= 0 {
		return nil, fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	return &FilteredNoise{FilteredNoiseConfig: *c}, nil
}

// AddConfig parameterizes the signal-combination processor.
type AddConfig struct {
	Name string `gin:"name"`
}

// Add sums two upstream signals.
type Add struct {
	AddConfig
}

func (a *Add) ProcessorName() string { return a.Name }
func (a *Add) Controls() []string    { return []string{"signal_one", "signal_two"} }
func (a *Add) Outputs() []string     { return []string{"signal"} }

func newAddConfig() any {
	return &AddConfig{Name: "add"}
}

func buildAdd(ctx context.Context, cfg any) (any, error) {
	return &Add{AddConfig: *cfg.(*AddConfig)}, nil
}

// TensorToAudioConfig parameterizes the identity passthrough stage.
type TensorToAudioConfig struct {
	Name string `gin:"name"`
}

// TensorToAudio forwards decoder samples unchanged.
type TensorToAudio struct {
	TensorToAudioConfig
}

func (t *TensorToAudio) ProcessorName() string { return t.Name }
func (t *TensorToAudio) Controls() []string    { return []string{"samples"} }
func (t *TensorToAudio) Outputs() []string     { return []string{"signal"} }

func newTensorToAudioConfig() any {
	return &TensorToAudioConfig{Name: "tensor_to_audio"}
}

func buildTensorToAudio(ctx context.Context, cfg any) (any, error) {
	return &TensorToAudio{TensorToAudioConfig: *cfg.(*TensorToAudioConfig)}, nil
}
