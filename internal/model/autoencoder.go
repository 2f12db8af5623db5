package model

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

// DagEntry is one stage of a processor group: the processor instance and
// the routing keys feeding its controls, in control order.
type DagEntry struct {
	Processor Processor
	Inputs    []string
}

// DagSpec decodes the gin form of ProcessorGroup.dag: a list of
// (processor reference, [input keys]) pairs.
type DagSpec []DagEntry

var _ config.Unmarshaler = (*DagSpec)(nil)

// UnmarshalGin implements config.Unmarshaler. Because the dag contains
// evaluated references, the resolver hands it over as []any with the
// processors already built.
func (d *DagSpec) UnmarshalGin(v any) error {
	entries, ok := v.([]any)
	if !ok {
		return fmt.Errorf("dag must be a sequence of (processor, inputs) pairs, got %T", v)
	}

	var spec DagSpec
	for i, raw := range entries {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("dag entry %d must be a (processor, inputs) pair", i)
		}
		proc, ok := pair[0].(Processor)
		if !ok {
			return fmt.Errorf("dag entry %d: first element must be a processor reference, got %T", i, pair[0])
		}
		inputs, err := stringSequence(pair[1])
		if err != nil {
			return fmt.Errorf("dag entry %d: inputs: %w", i, err)
		}
		spec = append(spec, DagEntry{Processor: proc, Inputs: inputs})
	}
	*d = spec
	return nil
}

// stringSequence extracts a []string from either resolved form a sequence
// can arrive in: a literal cty tuple/list or an []any of cty strings.
func stringSequence(v any) ([]string, error) {
	switch seq := v.(type) {
	case cty.Value:
		if !seq.Type().IsTupleType() && !seq.Type().IsListType() {
			return nil, fmt.Errorf("expected a sequence of strings, got %s", seq.Type().FriendlyName())
		}
		var out []string
		for it := seq.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.Type() != cty.String {
				return nil, fmt.Errorf("expected a string, got %s", elem.Type().FriendlyName())
			}
			out = append(out, elem.AsString())
		}
		return out, nil
	case []any:
		var out []string
		for _, elem := range seq {
			ev, ok := elem.(cty.Value)
			if !ok || ev.Type() != cty.String {
				return nil, fmt.Errorf("expected a string, got %T", elem)
			}
			out = append(out, ev.AsString())
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a sequence of strings, got %T", v)
	}
}

// ProcessorGroupConfig parameterizes the processor group.
type ProcessorGroupConfig struct {
	Dag DagSpec `gin:"dag"`
}

// ProcessorGroup is the ordered synthesizer pipeline of a model.
type ProcessorGroup struct {
	Dag DagSpec
}

func newProcessorGroupConfig() any {
	return &ProcessorGroupConfig{}
}

func buildProcessorGroup(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*ProcessorGroupConfig)
	if len(c.Dag) == 0 {
		return nil, fmt.Errorf("dag must declare at least one processor")
	}
	return &ProcessorGroup{Dag: c.Dag}, nil
}

// AutoencoderConfig wires the pieces of the autoencoder together. Every
// field is populated by an evaluated reference in configuration.
type AutoencoderConfig struct {
	Preprocessor   Preprocessor    `gin:"preprocessor"`
	Encoder        Encoder         `gin:"encoder"`
	Decoder        Decoder         `gin:"decoder"`
	Losses         []Loss          `gin:"losses"`
	ProcessorGroup *ProcessorGroup `gin:"processor_group"`
}

// Autoencoder is the encoder/decoder/synthesizer model.
type Autoencoder struct {
	Preprocessor   Preprocessor
	Encoder        Encoder
	Decoder        Decoder
	Losses         []Loss
	ProcessorGroup *ProcessorGroup
}

func (a *Autoencoder) ModelName() string { return "Autoencoder" }

// ConditioningKeys returns every key available to the processor group's
// routing: preprocessor outputs, encoder latents, and decoder outputs.
func (a *Autoencoder) ConditioningKeys() []string {
	var keys []string
	if a.Preprocessor != nil {
		keys = append(keys, a.Preprocessor.ProvidedKeys()...)
	}
	if a.Encoder != nil {
		keys = append(keys, a.Encoder.OutputKeys()...)
	}
	keys = append(keys, a.Decoder.OutputKeys()...)
	return keys
}

func newAutoencoderConfig() any {
	return &AutoencoderConfig{}
}

func buildAutoencoder(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*AutoencoderConfig)
	if c.Decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if c.ProcessorGroup == nil {
		return nil, fmt.Errorf("processor_group is required")
	}
	if len(c.Losses) == 0 {
		return nil, fmt.Errorf("at least one loss is required")
	}
	return &Autoencoder{
		Preprocessor:   c.Preprocessor,
		Encoder:        c.Encoder,
		Decoder:        c.Decoder,
		Losses:         c.Losses,
		ProcessorGroup: c.ProcessorGroup,
	}, nil
}

// GetModelConfig holds the model selection of the get_model configurable.
type GetModelConfig struct {
	Model Model `gin:"model"`
}

func newGetModelConfig() any {
	return &GetModelConfig{}
}

func buildGetModel(ctx context.Context, cfg any) (any, error) {
	c := cfg.(*GetModelConfig)
	if c.Model == nil {
		return nil, fmt.Errorf("get_model.model must reference a model, e.g. @models.Autoencoder()")
	}
	return c.Model, nil
}
