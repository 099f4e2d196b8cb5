package ml

import (
	"errors"
	"fmt"
)

// StandardScaler centres each column on its training mean and divides
// by its training standard deviation.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
	Names []string  `json:"feature_names,omitempty"`
}

// NumFeatures returns the number of fitted columns.
func (s *StandardScaler) NumFeatures() int {
	return len(s.Mean)
}

// FeatureNames returns the fitted column names, or nil if none were exported.
func (s *StandardScaler) FeatureNames() []string {
	return s.Names
}

// Transform returns (x - mean) / scale for every cell.
func (s *StandardScaler) Transform(rows [][]float64) ([][]float64, error) {
	if err := checkShape(rows, len(s.Mean)); err != nil {
		return nil, err
	}
	result := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		result[i] = scaled
	}
	return result, nil
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) == 0 {
		return errors.New("scaler has no columns")
	}
	if len(s.Scale) != len(s.Mean) {
		return errors.New("mean/scale length mismatch")
	}
	for i, scale := range s.Scale {
		if scale == 0 {
			return fmt.Errorf("scale of column %d is zero", i)
		}
	}
	return validateNames(s.Names, len(s.Mean))
}

// MinMaxScaler maps each column onto [0, 1] using the training range.
type MinMaxScaler struct {
	DataMin []float64 `json:"data_min"`
	DataMax []float64 `json:"data_max"`
	Names   []string  `json:"feature_names,omitempty"`
}

// NumFeatures returns the number of fitted columns.
func (s *MinMaxScaler) NumFeatures() int {
	return len(s.DataMin)
}

// FeatureNames returns the fitted column names, or nil if none were exported.
func (s *MinMaxScaler) FeatureNames() []string {
	return s.Names
}

// Transform maps every cell through NormalizeFeature.
func (s *MinMaxScaler) Transform(rows [][]float64) ([][]float64, error) {
	if err := checkShape(rows, len(s.DataMin)); err != nil {
		return nil, err
	}
	result := make([][]float64, len(rows))
	for i, row := range rows {
		normalized, err := NormalizeVector(row, s.DataMin, s.DataMax)
		if err != nil {
			return nil, err
		}
		result[i] = normalized
	}
	return result, nil
}

func (s *MinMaxScaler) validate() error {
	if len(s.DataMin) == 0 {
		return errors.New("scaler has no columns")
	}
	if len(s.DataMax) != len(s.DataMin) {
		return errors.New("data_min/data_max length mismatch")
	}
	return validateNames(s.Names, len(s.DataMin))
}

// NormalizeFeature maps value into [min, max] -> [0, 1]. A constant
// column maps to 0.
func NormalizeFeature(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	return (value - min) / (max - min)
}

// NormalizeVector applies NormalizeFeature column by column.
func NormalizeVector(values []float64, mins []float64, maxs []float64) ([]float64, error) {
	if len(values) != len(mins) || len(values) != len(maxs) {
		return nil, errors.New("values/mins/maxs length mismatch")
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = NormalizeFeature(values[i], mins[i], maxs[i])
	}
	return result, nil
}

func validateNames(names []string, width int) error {
	if len(names) != 0 && len(names) != width {
		return fmt.Errorf("feature_names has %d entries, expected %d", len(names), width)
	}
	return nil
}
