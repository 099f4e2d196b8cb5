// Package inference loads the fitted artifacts and runs single and
// batch predictions against them.
package inference

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"diabetesform/ml"
)

// Artifact locations relative to the configured base directory.
const (
	ModelFile  = "model/random_forest_model.json"
	ScalerFile = "model/scaler.json"
	LogoFile   = "assets/logo_kucing_bulat.png"
)

// Artifacts is the immutable set of objects every prediction reads.
type Artifacts struct {
	model  ml.Classifier
	scaler ml.Scaler
	logo   []byte
}

// LoadArtifacts reads the classifier, scaler and logo under baseDir.
// The first missing or undecodable file is returned as *ArtifactError.
func LoadArtifacts(baseDir string) (*Artifacts, error) {
	modelPath := filepath.Join(baseDir, ModelFile)
	model, err := loadFile(modelPath, ml.LoadModel)
	if err != nil {
		return nil, &ArtifactError{Artifact: "classifier", Path: modelPath, Err: err}
	}

	scalerPath := filepath.Join(baseDir, ScalerFile)
	scaler, err := loadFile(scalerPath, ml.LoadScaler)
	if err != nil {
		return nil, &ArtifactError{Artifact: "scaler", Path: scalerPath, Err: err}
	}

	logoPath := filepath.Join(baseDir, LogoFile)
	logo, err := os.ReadFile(logoPath)
	if err != nil {
		return nil, &ArtifactError{Artifact: "image", Path: logoPath, Err: err}
	}
	if _, err := png.DecodeConfig(bytes.NewReader(logo)); err != nil {
		return nil, &ArtifactError{Artifact: "image", Path: logoPath, Err: err}
	}

	return NewArtifacts(model, scaler, logo)
}

// NewArtifacts builds the context from already decoded objects and
// checks that both accept the patient feature layout.
func NewArtifacts(model ml.Classifier, scaler ml.Scaler, logo []byte) (*Artifacts, error) {
	if model == nil {
		return nil, &ArtifactError{Artifact: "classifier", Err: errors.New("classifier is nil")}
	}
	if scaler == nil {
		return nil, &ArtifactError{Artifact: "scaler", Err: errors.New("scaler is nil")}
	}
	if n := model.NumFeatures(); n != ml.NumFeatures {
		return nil, &ArtifactError{Artifact: "classifier", Err: fmt.Errorf("fitted on %d features, expected %d", n, ml.NumFeatures)}
	}
	if n := scaler.NumFeatures(); n != ml.NumFeatures {
		return nil, &ArtifactError{Artifact: "scaler", Err: fmt.Errorf("fitted on %d features, expected %d", n, ml.NumFeatures)}
	}
	if names := scaler.FeatureNames(); len(names) > 0 {
		for i, name := range ml.FeatureNames() {
			if names[i] != name {
				return nil, &ArtifactError{Artifact: "scaler", Err: fmt.Errorf("feature %d is %q, expected %q", i, names[i], name)}
			}
		}
	}
	return &Artifacts{
		model:  model,
		scaler: scaler,
		logo:   append([]byte(nil), logo...),
	}, nil
}

// Model returns the loaded classifier.
func (a *Artifacts) Model() ml.Classifier {
	return a.model
}

// Scaler returns the loaded scaler.
func (a *Artifacts) Scaler() ml.Scaler {
	return a.scaler
}

// Logo returns the image asset. Callers must not modify it.
func (a *Artifacts) Logo() []byte {
	return a.logo
}

func loadFile[T any](path string, decode func(r io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return decode(f)
}
