package ml

import "fmt"

// Label is the binary class predicted for a patient.
type Label int

const (
	Negative Label = 0
	Positive Label = 1
)

func (l Label) String() string {
	if l == Positive {
		return "Positive"
	}
	return "Negative"
}

// Prediction pairs the classifier's label with P(Positive).
type Prediction struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
}

// Classifier is a fitted binary model. Predict returns the model's own
// decision, PredictProba the positive-class probability, both one value
// per input row.
type Classifier interface {
	NumFeatures() int
	Predict(rows [][]float64) ([]Label, error)
	PredictProba(rows [][]float64) ([]float64, error)
}

// Scaler is a fitted per-column transform.
type Scaler interface {
	NumFeatures() int
	FeatureNames() []string
	Transform(rows [][]float64) ([][]float64, error)
}

// ShapeError reports a row whose width differs from what an artifact
// was fitted on.
type ShapeError struct {
	Row  int
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("row %d has %d features, expected %d", e.Row, e.Got, e.Want)
}

func checkShape(rows [][]float64, want int) error {
	for i, row := range rows {
		if len(row) != want {
			return &ShapeError{Row: i, Want: want, Got: len(row)}
		}
	}
	return nil
}
