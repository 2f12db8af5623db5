package model

import (
	"context"
	"fmt"
)

// VideoEncoderConfig parameterizes the video frame encoder.
type VideoEncoderConfig struct {
	RnnChannels int `gin:"rnn_channels"`
	ZDims       int `gin:"z_dims"`
	ZTimeSteps  int `gin:"z_time_steps"`
}

// VideoEncoder encodes video frames into a latent sequence z.
type VideoEncoder struct {
	VideoEncoderConfig
}

func (e *VideoEncoder) EncoderName() string  { return "VideoEncoder" }
func (e *VideoEncoder) OutputKeys() []string { return []string{"z"} }

func newVideoEncoderConfig() any {
	return &VideoEncoderConfig{
		RnnChannels: 512,
		ZDims:       32,
		ZTimeSteps:  250,
	}
}

func buildVideoEncoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*VideoEncoderConfig)
	if c.ZDims <= 0 {
		return nil, fmt.Errorf("z_dims must be positive, got %d", c.ZDims)
	}
	if c.ZTimeSteps <= 0 {
		return nil, fmt.Errorf("z_time_steps must be positive, got %d", c.ZTimeSteps)
	}
	return &VideoEncoder{VideoEncoderConfig: *c}, nil
}

// MfccRnnEncoderConfig parameterizes the MFCC time-distributed RNN encoder.
type MfccRnnEncoderConfig struct {
	RnnChannels int    `gin:"rnn_channels"`
	RnnType     string `gin:"rnn_type"`
	ZDims       int    `gin:"z_dims"`
	ZTimeSteps  int    `gin:"z_time_steps"`
	SampleRate  int    `gin:"sample_rate"`
}

// MfccRnnEncoder derives z from MFCC audio features.
type MfccRnnEncoder struct {
	MfccRnnEncoderConfig
}

func (e *MfccRnnEncoder) EncoderName() string  { return "MfccTimeDistributedRnnEncoder" }
func (e *MfccRnnEncoder) OutputKeys() []string { return []string{"z"} }

// mfccTimeSteps are the frame counts the encoder's fixed FFT configs support.
var mfccTimeSteps = map[int]bool{63: true, 125: true, 250: true, 500: true, 1000: true}

func newMfccRnnEncoderConfig() any {
	return &MfccRnnEncoderConfig{
		RnnChannels: 512,
		RnnType:     "gru",
		ZDims:       32,
		ZTimeSteps:  250,
		SampleRate:  16000,
	}
}

func buildMfccRnnEncoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*MfccRnnEncoderConfig)
	if !mfccTimeSteps[c.ZTimeSteps] {
		return nil, fmt.Errorf("z_time_steps must be one of 63, 125, 250, 500, 1000; got %d", c.ZTimeSteps)
	}
	return &MfccRnnEncoder{MfccRnnEncoderConfig: *c}, nil
}

// TemporalCNNFcDecoderConfig parameterizes the temporal CNN decoder.
type TemporalCNNFcDecoderConfig struct {
	TemporalCnnChannels int          `gin:"temporal_cnn_channels"`
	WindowSize          int          `gin:"window_size"`
	Ch                  int          `gin:"ch"`
	LayersPerStack      int          `gin:"layers_per_stack"`
	InKeys              []string     `gin:"input_keys"`
	Splits              OutputSplits `gin:"output_splits"`
}

// TemporalCNNFcDecoder decodes conditioning keys through temporal CNN and
// FC stacks into the processor group's control tensors.
type TemporalCNNFcDecoder struct {
	TemporalCNNFcDecoderConfig
}

func (d *TemporalCNNFcDecoder) DecoderName() string  { return "TemporalCNNFcDecoder" }
func (d *TemporalCNNFcDecoder) InputKeys() []string  { return d.InKeys }
func (d *TemporalCNNFcDecoder) OutputKeys() []string { return d.Splits.Names() }

func newTemporalCNNFcDecoderConfig() any {
	return &TemporalCNNFcDecoderConfig{
		TemporalCnnChannels: 512,
		WindowSize:          30,
		Ch:                  512,
		LayersPerStack:      3,
		InKeys:              []string{"ld_scaled", "f0_scaled", "z"},
		Splits: OutputSplits{
			{Name: "amps", Size: 1},
			{Name: "harmonic_distribution", Size: 40},
		},
	}
}

func buildTemporalCNNFcDecoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*TemporalCNNFcDecoderConfig)
	if err := validateDecoderShape(c.InKeys, c.Splits); err != nil {
		return nil, err
	}
	if c.WindowSize <= 0 {
		return nil, fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	return &TemporalCNNFcDecoder{TemporalCNNFcDecoderConfig: *c}, nil
}

// RnnFcDecoderConfig parameterizes the RNN decoder.
type RnnFcDecoderConfig struct {
	RnnChannels    int          `gin:"rnn_channels"`
	Ch             int          `gin:"ch"`
	LayersPerStack int          `gin:"layers_per_stack"`
	InKeys         []string     `gin:"input_keys"`
	Splits         OutputSplits `gin:"output_splits"`
}

// RnnFcDecoder decodes conditioning keys through RNN and FC stacks.
type RnnFcDecoder struct {
	RnnFcDecoderConfig
}

func (d *RnnFcDecoder) DecoderName() string  { return "RnnFcDecoder" }
func (d *RnnFcDecoder) InputKeys() []string  { return d.InKeys }
func (d *RnnFcDecoder) OutputKeys() []string { return d.Splits.Names() }

func newRnnFcDecoderConfig() any {
	return &RnnFcDecoderConfig{
		RnnChannels:    512,
		Ch:             512,
		LayersPerStack: 3,
		InKeys:         []string{"ld_scaled", "f0_scaled", "z"},
		Splits: OutputSplits{
			{Name: "amps", Size: 1},
			{Name: "harmonic_distribution", Size: 40},
		},
	}
}

func buildRnnFcDecoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*RnnFcDecoderConfig)
	if err := validateDecoderShape(c.InKeys, c.Splits); err != nil {
		return nil, err
	}
	return &RnnFcDecoder{RnnFcDecoderConfig: *c}, nil
}

// FcDecoderConfig parameterizes the fully connected decoder.
type FcDecoderConfig struct {
	FcUnits      int          `gin:"fc_units"`
	HiddenLayers int          `gin:"hidden_layers"`
	InKeys       []string     `gin:"input_keys"`
	Splits       OutputSplits `gin:"output_splits"`
}

// FcDecoder decodes conditioning keys through a fully connected stack.
type FcDecoder struct {
	FcDecoderConfig
}

func (d *FcDecoder) DecoderName() string  { return "FcDecoder" }
func (d *FcDecoder) InputKeys() []string  { return d.InKeys }
func (d *FcDecoder) OutputKeys() []string { return d.Splits.Names() }

func newFcDecoderConfig() any {
	return &FcDecoderConfig{
		FcUnits:      512,
		HiddenLayers: 3,
		InKeys:       []string{"object_embedding"},
		Splits: OutputSplits{
			{Name: "frequencies", Size: 200},
			{Name: "gains", Size: 200},
			{Name: "dampings", Size: 200},
		},
	}
}

func buildFcDecoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*FcDecoderConfig)
	if err := validateDecoderShape(c.InKeys, c.Splits); err != nil {
		return nil, err
	}
	return &FcDecoder{FcDecoderConfig: *c}, nil
}

func validateDecoderShape(inputKeys []string, splits OutputSplits) error {
	if len(inputKeys) == 0 {
		return fmt.Errorf("input_keys must not be empty")
	}
	if len(splits) == 0 {
		return fmt.Errorf("output_splits must not be empty")
	}
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if seen[s.Name] {
			return fmt.Errorf("duplicate output split %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
