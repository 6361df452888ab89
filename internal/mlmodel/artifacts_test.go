package mlmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder(t *testing.T) {
	enc := NewLabelEncoder([]string{"Chennai", "Coimbatore", "Madurai"})

	code, err := enc.Transform("Coimbatore")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	_, err = enc.Transform("Atlantis")
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestStandardScalerTransform(t *testing.T) {
	s := &StandardScaler{Mean: []float64{10, 0}, Scale: []float64{2, 1}}

	out, err := s.Transform([]float64{14, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, out)

	_, err = s.Transform([]float64{1})
	require.Error(t, err)
}

func TestDecisionTreePredict(t *testing.T) {
	tree := DecisionTree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 30, Left: 1, Right: 2},
		{Feature: -1, Class: 2},
		{Feature: -1, Class: 0},
	}}
	assert.Equal(t, 2, tree.Predict([]float64{20}))
	assert.Equal(t, 0, tree.Predict([]float64{31}))
	assert.Equal(t, 2, tree.Predict([]float64{30})) // boundary goes left
}

func TestForestMajorityVote(t *testing.T) {
	leaf := func(class int) DecisionTree {
		return DecisionTree{Nodes: []TreeNode{{Feature: -1, Class: class}}}
	}
	f := &Forest{Trees: []DecisionTree{leaf(1), leaf(1), leaf(3)}}
	assert.Equal(t, 1, f.Predict(nil))

	// Ties break toward the lower class id.
	f = &Forest{Trees: []DecisionTree{leaf(2), leaf(0)}}
	assert.Equal(t, 0, f.Predict(nil))
}

func TestLoad(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "model.json"))
	require.NoError(t, err)

	assert.Equal(t, 14, a.FeatureCount())
	for _, name := range []string{"district", "zone", "season"} {
		enc, err := a.Encoder(name)
		require.NoError(t, err)
		assert.NotEmpty(t, enc.Classes())
	}

	// Low moisture + low temperature: both trees vote class 2.
	vec := make([]float64, 14)
	vec[0], vec[1] = 20, 38
	scaled, err := a.Scaler.Transform(vec)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Model.Predict(scaled))
}

func TestLoadRejectsBadBundles(t *testing.T) {
	write := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	cases := map[string]string{
		"not json":       `{`,
		"no scaler":      `{"encoders":{"district":[],"zone":[],"season":[]},"model":{"trees":[{"nodes":[{"feature":-1}]}]}}`,
		"width mismatch": `{"encoders":{"district":[],"zone":[],"season":[]},"scaler":{"mean":[0,0],"scale":[1]},"model":{"trees":[{"nodes":[{"feature":-1}]}]}}`,
		"no model":       `{"encoders":{"district":[],"zone":[],"season":[]},"scaler":{"mean":[0],"scale":[1]}}`,
		"no encoder":     `{"encoders":{"district":[]},"scaler":{"mean":[0],"scale":[1]},"model":{"trees":[{"nodes":[{"feature":-1}]}]}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
