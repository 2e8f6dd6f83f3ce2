package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/quality"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, config.Default().Validate())
	assert.Nil(t, config.Default().Tensor(), "isotropic by default")
}

func TestLoad_PartialJSON(t *testing.T) {
	p := writeFile(t, "opts.json", `{"goal_min_angle": 35, "insert_body": false}`)
	got, err := config.Load(p)
	require.NoError(t, err)

	want := config.Default()
	want.GoalMinAngle = 35
	want.InsertBody = false
	assert.Empty(t, cmp.Diff(want, got))
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "opts.yaml", "quality_measure: radiusratio\nanisotropic: true\ntensor_field: stretch-z\n")
	got, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, quality.RadiusRatio, got.QualityMeasure)
	tensor := got.Tensor()
	require.NotNil(t, tensor)
	assert.Equal(t, 2.0, tensor.At(2, 2))
	assert.Equal(t, 1.0, tensor.At(0, 0))
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(writeFile(t, "opts.toml", "x = 1"))
	assert.ErrorIs(t, err, config.ErrFormat)

	_, err = config.Load(writeFile(t, "bad.json", `{"shorter_factor": 2}`))
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = config.Load(writeFile(t, "broken.yml", "goal_min_angle: [oops"))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_Fields(t *testing.T) {
	cases := map[string]func(*config.Options){
		"measure":       func(o *config.Options) { o.QualityMeasure = "nope" },
		"tensor":        func(o *config.Options) { o.TensorField = "twist" },
		"goal order":    func(o *config.Options) { o.GoalMaxAngle = o.GoalMinAngle - 1 },
		"longer":        func(o *config.Options) { o.LongerFactor = 1 },
		"percentile":    func(o *config.Options) { o.InsertionThresholdPercentile = 0 },
		"stagnant":      func(o *config.Options) { o.MaxStagnantRounds = 0 },
		"ring":          func(o *config.Options) { o.MaxEdgeRemovalRing = 2 },
		"chop":          func(o *config.Options) { o.JournalChopSize = 1 },
		"target":        func(o *config.Options) { o.TargetEdgeLength = -1 },
		"stop fraction": func(o *config.Options) { o.SizingStopFraction = 1.5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := config.Default()
			mutate(&o)
			assert.ErrorIs(t, o.Validate(), config.ErrInvalid)
		})
	}
}
