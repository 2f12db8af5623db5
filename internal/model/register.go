package model

import (
	"github.com/samuel-clarke/ddsp/internal/registry"
)

// Components implements registry.Module for the full component set.
type Components struct{}

var _ registry.Module = (*Components)(nil)

// Register adds every configurable and function handle to the registry
// under its module-qualified gin name.
func (Components) Register(r *registry.Registry) {
	for _, c := range []*registry.Configurable{
		{Name: "data.VideoProvider", NewConfig: newVideoProviderConfig, Build: buildVideoProvider},
		{Name: "preprocessing.DefaultPreprocessor", NewConfig: newDefaultPreprocessorConfig, Build: buildDefaultPreprocessor},
		{Name: "encoders.VideoEncoder", NewConfig: newVideoEncoderConfig, Build: buildVideoEncoder},
		{Name: "encoders.MfccTimeDistributedRnnEncoder", NewConfig: newMfccRnnEncoderConfig, Build: buildMfccRnnEncoder},
		{Name: "decoders.TemporalCNNFcDecoder", NewConfig: newTemporalCNNFcDecoderConfig, Build: buildTemporalCNNFcDecoder},
		{Name: "decoders.RnnFcDecoder", NewConfig: newRnnFcDecoderConfig, Build: buildRnnFcDecoder},
		{Name: "decoders.FcDecoder", NewConfig: newFcDecoderConfig, Build: buildFcDecoder},
		{Name: "synths.Additive", NewConfig: newAdditiveConfig, Build: buildAdditive},
		{Name: "synths.FilteredNoise", NewConfig: newFilteredNoiseConfig, Build: buildFilteredNoise},
		{Name: "synths.TensorToAudio", NewConfig: newTensorToAudioConfig, Build: buildTensorToAudio},
		{Name: "processors.Add", NewConfig: newAddConfig, Build: buildAdd},
		{Name: "processors.ProcessorGroup", NewConfig: newProcessorGroupConfig, Build: buildProcessorGroup},
		{Name: "losses.SpectralLoss", NewConfig: newSpectralLossConfig, Build: buildSpectralLoss},
		{Name: "models.Autoencoder", NewConfig: newAutoencoderConfig, Build: buildAutoencoder},
		{Name: "models.get_model", NewConfig: newGetModelConfig, Build: buildGetModel},
		{Name: "train_util.train", NewConfig: newTrainSettings, Build: buildTrainSettings},
		{Name: "trainers.Trainer", NewConfig: newTrainerSettings, Build: buildTrainerSettings},
		{Name: "eval_util.sample", NewConfig: newSampleSettings, Build: buildSampleSettings},
	} {
		r.RegisterConfigurable(c)
	}

	r.RegisterFunction("core.exp_sigmoid", ScaleFn{Name: "core.exp_sigmoid"})
	r.RegisterFunction("core.exp_tanh", ScaleFn{Name: "core.exp_tanh"})
}
