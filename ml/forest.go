package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted classification tree exported as the parallel
// node arrays scikit-learn keeps in tree_. A node is a leaf when its
// left child is -1.
type DecisionTree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	Features int            `json:"n_features"`
	Classes  []int          `json:"classes"`
	Trees    []DecisionTree `json:"trees"`
}

// NumFeatures returns the row width the forest was fitted on.
func (rf *RandomForest) NumFeatures() int {
	return rf.Features
}

// Predict returns the class with the largest mean probability per row.
func (rf *RandomForest) Predict(rows [][]float64) ([]Label, error) {
	probas, err := rf.classProba(rows)
	if err != nil {
		return nil, err
	}
	labels := make([]Label, len(probas))
	for i, proba := range probas {
		best := 0
		for c := 1; c < len(proba); c++ {
			if proba[c] > proba[best] {
				best = c
			}
		}
		labels[i] = Label(rf.Classes[best])
	}
	return labels, nil
}

// PredictProba returns P(Positive) per row.
func (rf *RandomForest) PredictProba(rows [][]float64) ([]float64, error) {
	probas, err := rf.classProba(rows)
	if err != nil {
		return nil, err
	}
	pos := rf.positiveIndex()
	result := make([]float64, len(probas))
	for i, proba := range probas {
		result[i] = proba[pos]
	}
	return result, nil
}

func (rf *RandomForest) classProba(rows [][]float64) ([][]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.New("model not trained")
	}
	if err := checkShape(rows, rf.Features); err != nil {
		return nil, err
	}
	nClasses := len(rf.Classes)
	result := make([][]float64, len(rows))
	for i, row := range rows {
		sum := make([]float64, nClasses)
		for t := range rf.Trees {
			leaf, err := rf.Trees[t].apply(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", t, err)
			}
			addNormalized(sum, rf.Trees[t].Value[leaf])
		}
		for c := range sum {
			sum[c] /= float64(len(rf.Trees))
		}
		result[i] = sum
	}
	return result, nil
}

func (rf *RandomForest) positiveIndex() int {
	for i, class := range rf.Classes {
		if Label(class) == Positive {
			return i
		}
	}
	return len(rf.Classes) - 1
}

func (rf *RandomForest) validate() error {
	if rf.Features <= 0 {
		return errors.New("n_features must be positive")
	}
	if err := validateClasses(rf.Classes); err != nil {
		return err
	}
	if len(rf.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i := range rf.Trees {
		if err := rf.Trees[i].validate(rf.Features, len(rf.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// apply returns the index of the leaf x falls into. Inputs are compared
// at float32 precision because that is how the fitting library stored
// the split thresholds' operands.
func (dt *DecisionTree) apply(x []float64) (int, error) {
	idx := 0
	for steps := 0; steps <= len(dt.ChildrenLeft); steps++ {
		if dt.ChildrenLeft[idx] == -1 {
			return idx, nil
		}
		if float64(float32(x[dt.Feature[idx]])) <= dt.Threshold[idx] {
			idx = dt.ChildrenLeft[idx]
		} else {
			idx = dt.ChildrenRight[idx]
		}
	}
	return 0, errors.New("invalid tree state")
}

func (dt *DecisionTree) validate(nFeatures, nClasses int) error {
	n := len(dt.ChildrenLeft)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(dt.ChildrenRight) != n || len(dt.Feature) != n || len(dt.Threshold) != n || len(dt.Value) != n {
		return errors.New("node arrays size mismatch")
	}
	for i := 0; i < n; i++ {
		left, right := dt.ChildrenLeft[i], dt.ChildrenRight[i]
		if left == -1 {
			if len(dt.Value[i]) != nClasses {
				return fmt.Errorf("leaf %d has %d class weights, expected %d", i, len(dt.Value[i]), nClasses)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has invalid children", i)
		}
		if dt.Feature[i] < 0 || dt.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d feature index out of range", i)
		}
	}
	return nil
}

func addNormalized(dst, weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for c, w := range weights {
		dst[c] += w / total
	}
}
