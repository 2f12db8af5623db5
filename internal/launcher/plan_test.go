package launcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuel-clarke/ddsp/internal/config"
	"github.com/samuel-clarke/ddsp/internal/gin"
	"github.com/samuel-clarke/ddsp/internal/model"
	"github.com/samuel-clarke/ddsp/internal/registry"
)

const planGin = `
get_model.model = @models.Autoencoder()

Autoencoder.preprocessor = @preprocessing.DefaultPreprocessor()
Autoencoder.encoder = @encoders.VideoEncoder()
Autoencoder.decoder = @decoders.TemporalCNNFcDecoder()
Autoencoder.losses = [@losses.SpectralLoss()]
Autoencoder.processor_group = @processors.ProcessorGroup()

TemporalCNNFcDecoder.input_keys = ('ld_scaled', 'f0_scaled', 'z')
TemporalCNNFcDecoder.output_splits = (('amps', 1),
                                      ('harmonic_distribution', 40),
                                      ('noise_magnitudes', 65))

ProcessorGroup.dag = [
  (@synths.Additive(), ['amps', 'harmonic_distribution', 'f0_hz']),
  (@synths.FilteredNoise(), ['noise_magnitudes']),
  (@processors.Add(), ['filtered_noise/signal', 'additive/signal']),
]
`

func loadModel(t *testing.T, src string) *config.Model {
	t.Helper()
	file, err := gin.ParseFile("test.gin", src)
	require.NoError(t, err)
	m := &config.Model{}
	m.Merge(file)
	return m
}

func newResolver(t *testing.T, cfgModel *config.Model) *registry.Resolver {
	t.Helper()
	r := registry.New()
	model.Components{}.Register(r)
	return r.NewResolver(cfgModel)
}

// writeShards creates fake dataset shards and returns the glob matching
// them, pre-bound into gin form.
func writeShards(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, "train.tfrecord-0000"+string(rune('0'+i)))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return filepath.Join(dir, "train.tfrecord-*")
}

func TestParseMode(t *testing.T) {
	for _, raw := range []string{"train", "sample"} {
		mode, err := ParseMode(raw)
		require.NoError(t, err)
		assert.Equal(t, Mode(raw), mode)
	}

	_, err := ParseMode("evaluate")
	require.Error(t, err)
	_, err = ParseMode("")
	require.Error(t, err)
}

func TestBuildPlan_Train(t *testing.T) {
	pattern := writeShards(t, 3)
	cfgModel := loadModel(t, planGin+"\nVideoProvider.file_pattern = '"+pattern+"'\n")

	plan, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
		Mode:    ModeTrain,
		SaveDir: t.TempDir(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.RunID)
	assert.Equal(t, "Autoencoder", plan.Model.ModelName())
	require.NotNil(t, plan.Graph)
	assert.Equal(t, "add", plan.Graph.OutputNode().ID)
	require.NotNil(t, plan.Provider)
	assert.Len(t, plan.DataFiles, 3)
	require.NotNil(t, plan.Train)
	assert.Equal(t, 1000000, plan.Train.NumSteps)
	require.NotNil(t, plan.Trainer)
	assert.Equal(t, 10, plan.Trainer.CheckpointsToKeep)
	assert.Nil(t, plan.Sample)
}

func TestBuildPlan_Sample(t *testing.T) {
	cfgModel := loadModel(t, planGin+"\neval_util.sample.batch_size = 8\n")

	plan, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
		Mode:       ModeSample,
		SaveDir:    t.TempDir(),
		RestoreDir: t.TempDir(),
	})
	require.NoError(t, err)

	require.NotNil(t, plan.Sample)
	assert.Equal(t, 8, plan.Sample.BatchSize)
	assert.Nil(t, plan.Train)
	assert.Nil(t, plan.Provider)
}

func TestBuildPlan_Errors(t *testing.T) {
	t.Run("missing save_dir", func(t *testing.T) {
		cfgModel := loadModel(t, planGin)
		_, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{Mode: ModeTrain})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save_dir is required")
	})

	t.Run("train without provider", func(t *testing.T) {
		cfgModel := loadModel(t, planGin)
		_, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
			Mode:    ModeTrain,
			SaveDir: t.TempDir(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a configured data provider")
	})

	t.Run("pattern matches nothing", func(t *testing.T) {
		pattern := filepath.Join(t.TempDir(), "missing-*")
		cfgModel := loadModel(t, planGin+"\nVideoProvider.file_pattern = '"+pattern+"'\n")
		_, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
			Mode:    ModeTrain,
			SaveDir: t.TempDir(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matches no dataset files")
	})

	t.Run("no model configured", func(t *testing.T) {
		cfgModel := loadModel(t, "eval_util.sample.batch_size = 8\n")
		_, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
			Mode:    ModeSample,
			SaveDir: t.TempDir(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build model")
	})

	t.Run("broken dag fails both modes", func(t *testing.T) {
		broken := planGin + "\nProcessorGroup.dag = [(@processors.Add(), ['missing/signal', 'also_missing'])]\n"
		cfgModel := loadModel(t, broken)
		_, err := BuildPlan(context.Background(), newResolver(t, cfgModel), cfgModel, Options{
			Mode:       ModeSample,
			SaveDir:    t.TempDir(),
			RestoreDir: t.TempDir(),
		})
		require.Error(t, err)
	})
}

func TestEngineArgs(t *testing.T) {
	plan := &Plan{
		Mode:       ModeTrain,
		SaveDir:    "runs/ae",
		RestoreDir: "runs/warm",
		GinFiles:   []string{"configs/ae_video.gin", "configs/extra.gin"},
		GinParams:  []string{"train.num_steps=30000", "Additive.n_samples=32000"},
	}

	assert.Equal(t, []string{
		"--mode=train",
		"--alsologtostderr",
		"--save_dir=runs/ae",
		"--restore_dir=runs/warm",
		"--gin_file=configs/ae_video.gin",
		"--gin_file=configs/extra.gin",
		"--gin_param=train.num_steps=30000",
		"--gin_param=Additive.n_samples=32000",
	}, EngineArgs(plan))
}

func TestEngineArgs_NoRestoreDir(t *testing.T) {
	plan := &Plan{Mode: ModeSample, SaveDir: "runs/ae"}
	args := EngineArgs(plan)
	assert.Equal(t, []string{"--mode=sample", "--alsologtostderr", "--save_dir=runs/ae"}, args)
}
