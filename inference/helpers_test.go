package inference

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"diabetesform/ml"
)

// writeArtifacts lays out a complete artifact directory using the ml
// package fixtures and returns its path.
func writeArtifacts(t *testing.T, modelFixture string) string {
	t.Helper()
	dir := t.TempDir()
	copyFixture(t, filepath.Join("..", "ml", "testdata", modelFixture), filepath.Join(dir, ModelFile))
	copyFixture(t, filepath.Join("..", "ml", "testdata", "scaler.json"), filepath.Join(dir, ScalerFile))
	writeFile(t, filepath.Join(dir, LogoFile), pngBytes(t))
	return dir
}

func copyFixture(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	writeFile(t, dst, data)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	artifacts, err := LoadArtifacts(writeArtifacts(t, "random_forest_model.json"))
	require.NoError(t, err)
	return NewPredictor(artifacts)
}

type fakeScaler struct {
	width int
	names []string
	err   error
}

func (f *fakeScaler) NumFeatures() int       { return f.width }
func (f *fakeScaler) FeatureNames() []string { return f.names }

func (f *fakeScaler) Transform(rows [][]float64) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return rows, nil
}

type fakeClassifier struct {
	width  int
	labels []ml.Label
	probas []float64
	err    error
}

func (f *fakeClassifier) NumFeatures() int { return f.width }

func (f *fakeClassifier) Predict(rows [][]float64) ([]ml.Label, error) {
	return f.labels, f.err
}

func (f *fakeClassifier) PredictProba(rows [][]float64) ([]float64, error) {
	return f.probas, f.err
}
