package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/blockmcmc/pkg/blockmcmc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromYAML(t *testing.T) {
	b, err := config.FromYAML([]byte(`
algorithm: mcmc
beta: .inf
niter: 10
block_list: [0, 1, 2]
parallel: true
`))
	require.NoError(t, err)

	alg, err := config.Extract[string](b, "algorithm")
	require.NoError(t, err)
	assert.Equal(t, "mcmc", alg)

	var p struct {
		Beta      float64 `param:"beta"`
		NIter     int     `param:"niter"`
		Parallel  bool    `param:"parallel"`
		BlockList []int64 `param:"block_list"`
	}
	require.NoError(t, config.Decode(b, &p))
	assert.True(t, math.IsInf(p.Beta, 1))
	assert.Equal(t, 10, p.NIter)
	assert.True(t, p.Parallel)
	assert.Equal(t, []int64{0, 1, 2}, p.BlockList)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := config.FromYAML([]byte("beta: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestFromJSON(t *testing.T) {
	b, err := config.FromJSON([]byte(`{"beta": "inf", "niter": 4, "c": 0.5}`))
	require.NoError(t, err)

	var p struct {
		Beta  float64 `param:"beta"`
		C     float64 `param:"c"`
		NIter int     `param:"niter"`
	}
	require.NoError(t, config.Decode(b, &p))
	assert.True(t, math.IsInf(p.Beta, 1))
	assert.Equal(t, 0.5, p.C)
	assert.Equal(t, 4, p.NIter)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := config.FromJSON([]byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse json")
}

func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "run.YAML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("niter: 3"), 0o644))
	jsonPath := filepath.Join(tmpDir, "run.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"niter": 4}`), 0o644))
	txtPath := filepath.Join(tmpDir, "run.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("niter=5"), 0o644))

	tests := []struct {
		name    string
		path    string
		want    int
		wantErr string
	}{
		{"yaml upper-case extension", yamlPath, 3, ""},
		{"json", jsonPath, 4, ""},
		{"unsupported extension", txtPath, 0, "unsupported run file extension"},
		{"missing file", filepath.Join(tmpDir, "nope.yml"), 0, "read run file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := config.FromFile(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var p struct {
				NIter int `param:"niter"`
			}
			require.NoError(t, config.Decode(b, &p))
			assert.Equal(t, tt.want, p.NIter)
		})
	}
}

func TestFromAssignments(t *testing.T) {
	b, err := config.FromAssignments([]string{"beta=.inf", "niter=7", "block_list=[0, 2]", "algorithm=gibbs", "label= a=b "})
	require.NoError(t, err)

	var p struct {
		Beta      float64 `param:"beta"`
		NIter     int     `param:"niter"`
		BlockList []int32 `param:"block_list"`
		Algorithm string  `param:"algorithm"`
		Label     string  `param:"label"`
	}
	require.NoError(t, config.Decode(b, &p))
	assert.True(t, math.IsInf(p.Beta, 1))
	assert.Equal(t, 7, p.NIter)
	assert.Equal(t, []int32{0, 2}, p.BlockList)
	assert.Equal(t, "gibbs", p.Algorithm)
	assert.Equal(t, "a=b", p.Label)

	base := config.New(map[string]any{"beta": 1.0, "c": 0.5})
	merged := base.Merge(b)
	c, err := config.Extract[float64](merged, "c")
	require.NoError(t, err)
	assert.Equal(t, 0.5, c)
	beta, err := config.Extract[float64](merged, "beta")
	require.NoError(t, err)
	assert.True(t, math.IsInf(beta, 1))
}

func TestFromAssignments_Invalid(t *testing.T) {
	for _, in := range []string{"beta", "=1", "beta=[unclosed"} {
		_, err := config.FromAssignments([]string{in})
		assert.Error(t, err, in)
	}
}
