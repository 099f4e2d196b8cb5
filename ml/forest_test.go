package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stump(threshold float64, left, right []float64) DecisionTree {
	return DecisionTree{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{threshold, -2, -2},
		Value:         [][]float64{{1, 1}, left, right},
	}
}

func TestRandomForestAveragesTrees(t *testing.T) {
	forest := &RandomForest{
		Features: 2,
		Classes:  []int{0, 1},
		Trees: []DecisionTree{
			stump(0.5, []float64{0.9, 0.1}, []float64{0.2, 0.8}),
			stump(1.5, []float64{30, 10}, []float64{0, 40}),
		},
	}
	require.NoError(t, forest.validate())

	rows := [][]float64{{0, 0}, {1, 0}, {2, 0}}
	probas, err := forest.PredictProba(rows)
	require.NoError(t, err)
	assert.InDelta(t, (0.1+0.25)/2, probas[0], 1e-12)
	assert.InDelta(t, (0.8+0.25)/2, probas[1], 1e-12)
	assert.InDelta(t, (0.8+1.0)/2, probas[2], 1e-12)

	labels, err := forest.Predict(rows)
	require.NoError(t, err)
	assert.Equal(t, []Label{Negative, Positive, Positive}, labels)
}

func TestRandomForestTieGoesToFirstClass(t *testing.T) {
	forest := &RandomForest{
		Features: 1,
		Classes:  []int{0, 1},
		Trees:    []DecisionTree{stump(0, []float64{1, 1}, []float64{1, 1})},
	}
	labels, err := forest.Predict([][]float64{{-1}})
	require.NoError(t, err)
	probas, err := forest.PredictProba([][]float64{{-1}})
	require.NoError(t, err)
	assert.Equal(t, Negative, labels[0])
	assert.Equal(t, 0.5, probas[0])
}

func TestRandomForestRejectsWrongWidth(t *testing.T) {
	forest := &RandomForest{
		Features: 2,
		Classes:  []int{0, 1},
		Trees:    []DecisionTree{stump(0.5, []float64{1, 0}, []float64{0, 1})},
	}
	_, err := forest.Predict([][]float64{{1, 2, 3}})
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 3, shapeErr.Got)
}

func TestDecisionTreeValidate(t *testing.T) {
	tree := stump(0.5, []float64{1, 0}, []float64{0, 1})
	tree.ChildrenRight[0] = 0
	assert.Error(t, tree.validate(1, 2))

	tree = stump(0.5, []float64{1, 0}, []float64{0, 1})
	tree.Feature[0] = 4
	assert.Error(t, tree.validate(1, 2))

	tree = stump(0.5, []float64{1}, []float64{0, 1})
	assert.Error(t, tree.validate(1, 2))
}

func TestRandomForestValidateClasses(t *testing.T) {
	forest := &RandomForest{
		Features: 1,
		Classes:  []int{0, 2},
		Trees:    []DecisionTree{stump(0.5, []float64{1, 0}, []float64{0, 1})},
	}
	assert.Error(t, forest.validate())
}
