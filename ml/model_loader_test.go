package ml

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestLoadModelRandomForest(t *testing.T) {
	model, err := LoadModel(openFixture(t, "random_forest_model.json"))
	require.NoError(t, err)
	require.IsType(t, &RandomForest{}, model)
	assert.Equal(t, NumFeatures, model.NumFeatures())
	assert.Len(t, model.(*RandomForest).Trees, 3)
}

func TestLoadModelLogisticRegression(t *testing.T) {
	model, err := LoadModel(openFixture(t, "logistic_model.json"))
	require.NoError(t, err)
	require.IsType(t, &LogisticRegression{}, model)
	assert.Equal(t, NumFeatures, model.NumFeatures())
}

func TestLoadModelErrors(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"type":`,
		"missing type": `{"n_features": 8}`,
		"unknown type": `{"type": "gradient_boosting"}`,
		"no trees":     `{"type": "random_forest", "n_features": 8, "classes": [0, 1], "trees": []}`,
		"bad coef":     `{"type": "logistic_regression", "n_features": 8, "classes": [0, 1], "coef": [1, 2]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadModel(strings.NewReader(payload))
			assert.Error(t, err)
		})
	}
}

func TestLoadScaler(t *testing.T) {
	scaler, err := LoadScaler(openFixture(t, "scaler.json"))
	require.NoError(t, err)
	assert.Equal(t, NumFeatures, scaler.NumFeatures())
	assert.Equal(t, FeatureNames(), scaler.FeatureNames())

	minmax, err := LoadScaler(openFixture(t, "minmax_scaler.json"))
	require.NoError(t, err)
	assert.Equal(t, NumFeatures, minmax.NumFeatures())
	assert.Empty(t, minmax.FeatureNames())
}

func TestLoadScalerErrors(t *testing.T) {
	_, err := LoadScaler(strings.NewReader(`{"type": "robust_scaler"}`))
	assert.Error(t, err)

	_, err = LoadScaler(strings.NewReader(`{"type": "standard_scaler", "mean": [1, 2], "scale": [1]}`))
	assert.Error(t, err)
}
