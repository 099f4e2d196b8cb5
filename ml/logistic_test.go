package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticRegressionLabelFollowsDecision(t *testing.T) {
	model := &LogisticRegression{
		Features:  2,
		Classes:   []int{0, 1},
		Coef:      []float64{1, -1},
		Intercept: 0,
	}
	require.NoError(t, model.validate())

	rows := [][]float64{{2, 0}, {0, 2}, {1, 1}}
	labels, err := model.Predict(rows)
	require.NoError(t, err)
	probas, err := model.PredictProba(rows)
	require.NoError(t, err)

	assert.Equal(t, []Label{Positive, Negative, Negative}, labels)
	assert.InDelta(t, 0.8807970779778823, probas[0], 1e-12)
	assert.InDelta(t, 0.11920292202211755, probas[1], 1e-12)
	assert.Equal(t, 0.5, probas[2])
}

func TestLogisticRegressionReversedClasses(t *testing.T) {
	model := &LogisticRegression{
		Features: 1,
		Classes:  []int{1, 0},
		Coef:     []float64{1},
	}
	labels, err := model.Predict([][]float64{{3}})
	require.NoError(t, err)
	probas, err := model.PredictProba([][]float64{{3}})
	require.NoError(t, err)
	assert.Equal(t, Negative, labels[0])
	assert.Less(t, probas[0], 0.5)
}

func TestSigmoidIsStableForLargeInputs(t *testing.T) {
	assert.Equal(t, 1.0, sigmoid(1000))
	assert.Equal(t, 0.0, sigmoid(-1000))
}

func TestLogisticRegressionValidate(t *testing.T) {
	model := &LogisticRegression{Features: 3, Classes: []int{0, 1}, Coef: []float64{1, 2}}
	assert.Error(t, model.validate())
}
