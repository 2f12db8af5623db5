package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/samuel-clarke/ddsp/internal/config"
)

// Model is a trainable model selected through the get_model configurable.
type Model interface {
	ModelName() string
}

// Preprocessor transforms raw dataset features into conditioning keys
// before encoding.
type Preprocessor interface {
	ProvidedKeys() []string
}

// Encoder produces latent conditioning keys from dataset features.
type Encoder interface {
	EncoderName() string
	OutputKeys() []string
}

// Decoder maps conditioning keys to named control tensors for the
// processor group.
type Decoder interface {
	DecoderName() string
	InputKeys() []string
	OutputKeys() []string
}

// Loss is a training objective attached to a model.
type Loss interface {
	LossName() string
}

// Processor is a single stage of a processor group: it consumes an ordered
// list of control inputs and produces named output signals.
type Processor interface {
	ProcessorName() string
	Controls() []string
	Outputs() []string
}

// ScaleFn is a handle to a named nonlinearity applied to raw network
// outputs before they reach a synthesizer. The computation lives in the
// engine; configuration only selects it by name.
type ScaleFn struct {
	Name string
}

// IsZero reports whether no scale function is configured.
func (s ScaleFn) IsZero() bool { return s.Name == "" }

// OutputSplit names one slice of a decoder's dense output.
type OutputSplit struct {
	Name string
	Size int
}

// OutputSplits decodes the gin form of output splits: a sequence of
// (name, size) pairs, e.g. (('amps', 1), ('harmonic_distribution', 40)).
type OutputSplits []OutputSplit

var _ config.Unmarshaler = (*OutputSplits)(nil)

// UnmarshalGin implements config.Unmarshaler.
func (o *OutputSplits) UnmarshalGin(v any) error {
	cv, ok := v.(cty.Value)
	if !ok {
		return fmt.Errorf("output_splits must be a sequence of (name, size) pairs, got %T", v)
	}
	if !cv.Type().IsTupleType() && !cv.Type().IsListType() {
		return fmt.Errorf("output_splits must be a sequence, got %s", cv.Type().FriendlyName())
	}

	var splits []OutputSplit
	for it := cv.ElementIterator(); it.Next(); {
		_, pair := it.Element()
		if !pair.Type().IsTupleType() || pair.LengthInt() != 2 {
			return fmt.Errorf("each output split must be a (name, size) pair")
		}
		name := pair.Index(cty.NumberIntVal(0))
		size := pair.Index(cty.NumberIntVal(1))
		if name.Type() != cty.String || size.Type() != cty.Number {
			return fmt.Errorf("each output split must be a (string, number) pair")
		}
		n, _ := size.AsBigFloat().Int64()
		if n <= 0 {
			return fmt.Errorf("output split %q must have a positive size", name.AsString())
		}
		splits = append(splits, OutputSplit{Name: name.AsString(), Size: int(n)})
	}
	*o = splits
	return nil
}

// Names returns the split names in declaration order.
func (o OutputSplits) Names() []string {
	names := make([]string, len(o))
	for i, s := range o {
		names[i] = s.Name
	}
	return names
}

// TotalSize returns the summed width of all splits.
func (o OutputSplits) TotalSize() int {
	total := 0
	for _, s := range o {
		total += s.Size
	}
	return total
}
