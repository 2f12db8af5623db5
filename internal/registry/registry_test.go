package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oscConfig struct {
	Name      string   `gin:"name"`
	Frequency float64  `gin:"frequency"`
	Partials  []int    `gin:"partials"`
	Wave      waveFn   `gin:"wave"`
	Child     *echo    `gin:"child"`
	Layers    []*echo  `gin:"layers"`
	Labels    []string `gin:"labels"`
}

type osc struct {
	oscConfig
}

type echoConfig struct {
	Depth int `gin:"depth"`
}

type echo struct {
	echoConfig
}

type waveFn func(float64) float64

func sigmoidWave(x float64) float64 { return x }

// newTestRegistry mirrors how component families register themselves.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	r.RegisterConfigurable(&Configurable{
		Name:      "synths.Osc",
		NewConfig: func() any { return &oscConfig{Name: "osc", Frequency: 440.0} },
		Build: func(ctx context.Context, cfg any) (any, error) {
			return &osc{oscConfig: *cfg.(*oscConfig)}, nil
		},
	})
	r.RegisterConfigurable(&Configurable{
		Name:      "effects.Echo",
		NewConfig: func() any { return &echoConfig{Depth: 1} },
		Build: func(ctx context.Context, cfg any) (any, error) {
			return &echo{echoConfig: *cfg.(*echoConfig)}, nil
		},
	})
	r.RegisterConfigurable(&Configurable{
		Name:      "effects.Chorus",
		NewConfig: func() any { return &echoConfig{} },
		Build: func(ctx context.Context, cfg any) (any, error) {
			return &echo{echoConfig: *cfg.(*echoConfig)}, nil
		},
	})
	r.RegisterConfigurable(&Configurable{
		Name:      "synths.Chorus",
		NewConfig: func() any { return &echoConfig{} },
		Build: func(ctx context.Context, cfg any) (any, error) {
			return &echo{echoConfig: *cfg.(*echoConfig)}, nil
		},
	})
	r.RegisterFunction("core.exp_sigmoid", waveFn(sigmoidWave))
	return r
}

func TestRegisterConfigurable_DuplicatePanics(t *testing.T) {
	r := newTestRegistry(t)
	assert.Panics(t, func() {
		r.RegisterConfigurable(&Configurable{
			Name:      "synths.Osc",
			NewConfig: func() any { return &oscConfig{} },
			Build:     func(ctx context.Context, cfg any) (any, error) { return nil, nil },
		})
	})
}

func TestRegisterConfigurable_IncompletePanics(t *testing.T) {
	r := New()
	assert.Panics(t, func() {
		r.RegisterConfigurable(&Configurable{Name: "synths.Broken"})
	})
}

func TestRegisterFunction_DuplicatePanics(t *testing.T) {
	r := newTestRegistry(t)
	assert.Panics(t, func() {
		r.RegisterFunction("core.exp_sigmoid", waveFn(sigmoidWave))
	})
}

func TestLookupConfigurable(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("qualified name", func(t *testing.T) {
		c, err := r.LookupConfigurable("synths.Osc")
		require.NoError(t, err)
		assert.Equal(t, "synths.Osc", c.Name)
	})

	t.Run("suffix match", func(t *testing.T) {
		c, err := r.LookupConfigurable("Osc")
		require.NoError(t, err)
		assert.Equal(t, "synths.Osc", c.Name)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := r.LookupConfigurable("Reverb")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no configurable matches")
	})

	t.Run("ambiguous short name", func(t *testing.T) {
		_, err := r.LookupConfigurable("Chorus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
		assert.Contains(t, err.Error(), "effects.Chorus")
		assert.Contains(t, err.Error(), "synths.Chorus")
	})

	t.Run("qualified name disambiguates", func(t *testing.T) {
		c, err := r.LookupConfigurable("effects.Chorus")
		require.NoError(t, err)
		assert.Equal(t, "effects.Chorus", c.Name)
	})
}

func TestLookupFunction(t *testing.T) {
	r := newTestRegistry(t)

	fn, err := r.LookupFunction("exp_sigmoid")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = r.LookupFunction("exp_tanh")
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"effects.Chorus", "effects.Echo", "synths.Chorus", "synths.Osc"}, r.Names())
}
