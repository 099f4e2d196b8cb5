package ml

import (
	"errors"
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary linear model.
type LogisticRegression struct {
	Features  int       `json:"n_features"`
	Classes   []int     `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// NumFeatures returns the length of the coefficient vector.
func (lr *LogisticRegression) NumFeatures() int {
	return lr.Features
}

// Predict labels a row Positive when its decision value is above zero.
func (lr *LogisticRegression) Predict(rows [][]float64) ([]Label, error) {
	scores, err := lr.decision(rows)
	if err != nil {
		return nil, err
	}
	labels := make([]Label, len(scores))
	for i, score := range scores {
		if score > 0 {
			labels[i] = Label(lr.Classes[1])
		} else {
			labels[i] = Label(lr.Classes[0])
		}
	}
	return labels, nil
}

// PredictProba returns the sigmoid of each decision value as P(Positive).
func (lr *LogisticRegression) PredictProba(rows [][]float64) ([]float64, error) {
	scores, err := lr.decision(rows)
	if err != nil {
		return nil, err
	}
	probas := make([]float64, len(scores))
	for i, score := range scores {
		p := sigmoid(score)
		if Label(lr.Classes[1]) != Positive {
			p = 1 - p
		}
		probas[i] = p
	}
	return probas, nil
}

func (lr *LogisticRegression) decision(rows [][]float64) ([]float64, error) {
	if err := checkShape(rows, lr.Features); err != nil {
		return nil, err
	}
	scores := make([]float64, len(rows))
	for i, row := range rows {
		score := lr.Intercept
		for j, v := range row {
			score += lr.Coef[j] * v
		}
		scores[i] = score
	}
	return scores, nil
}

func (lr *LogisticRegression) validate() error {
	if lr.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(lr.Coef) != lr.Features {
		return fmt.Errorf("coef has %d entries, expected %d", len(lr.Coef), lr.Features)
	}
	return validateClasses(lr.Classes)
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func validateClasses(classes []int) error {
	if len(classes) != 2 {
		return fmt.Errorf("expected 2 classes, got %d", len(classes))
	}
	seen := map[int]bool{}
	for _, class := range classes {
		if Label(class) != Negative && Label(class) != Positive {
			return fmt.Errorf("unsupported class %d", class)
		}
		if seen[class] {
			return fmt.Errorf("duplicate class %d", class)
		}
		seen[class] = true
	}
	return nil
}
