package inference

import (
	"context"
	"errors"
	"fmt"
	"math"

	"diabetesform/ml"
)

// Predictor runs the scaler and classifier for manual and batch input.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	artifacts *Artifacts
}

// NewPredictor returns a predictor reading from artifacts.
func NewPredictor(artifacts *Artifacts) *Predictor {
	return &Predictor{artifacts: artifacts}
}

// Artifacts returns the context the predictor was built with.
func (p *Predictor) Artifacts() *Artifacts {
	return p.artifacts
}

// PredictOne scales a single record and returns the classifier's label
// together with P(Positive).
func (p *Predictor) PredictOne(ctx context.Context, v ml.FeatureVector) (ml.Prediction, error) {
	predictions, err := p.predictRows(ctx, [][]float64{v.Values()})
	if err != nil {
		return ml.Prediction{}, err
	}
	return predictions[0], nil
}

// predictRows transforms every row in one call, then asks the model for
// labels and probabilities in one call each.
func (p *Predictor) predictRows(ctx context.Context, rows [][]float64) ([]ml.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scaled, err := p.artifacts.scaler.Transform(rows)
	if err != nil {
		return nil, classify("scale features", err)
	}
	labels, err := p.artifacts.model.Predict(scaled)
	if err != nil {
		return nil, classify("predict labels", err)
	}
	probas, err := p.artifacts.model.PredictProba(scaled)
	if err != nil {
		return nil, classify("predict probabilities", err)
	}
	if len(labels) != len(rows) || len(probas) != len(rows) {
		return nil, &DownstreamError{Err: fmt.Errorf("model returned %d labels and %d probabilities for %d rows", len(labels), len(probas), len(rows))}
	}

	predictions := make([]ml.Prediction, len(rows))
	for i := range rows {
		if math.IsNaN(probas[i]) || probas[i] < 0 || probas[i] > 1 {
			return nil, &DownstreamError{Err: fmt.Errorf("row %d: probability %v out of range", i, probas[i])}
		}
		predictions[i] = ml.Prediction{Label: labels[i], Probability: probas[i]}
	}
	return predictions, nil
}

func classify(step string, err error) error {
	var shapeErr *ml.ShapeError
	if errors.As(err, &shapeErr) {
		return &SchemaError{Reason: step, Err: err}
	}
	return &DownstreamError{Err: fmt.Errorf("%s: %w", step, err)}
}
