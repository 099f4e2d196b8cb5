package inference

import (
	"math"
	"strconv"
	"strings"
)

// ParseFeature parses one raw value of the named feature and applies
// CheckFeature. Form fields and uploaded cells both go through it.
func ParseFeature(name, raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, &SchemaError{Reason: name + " is empty"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &SchemaError{Reason: name + " is not a number", Err: err}
	}
	return v, CheckFeature(name, v)
}

// CheckFeature rejects values no patient record can hold: NaN, the
// infinities and negatives.
func CheckFeature(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &SchemaError{Reason: name + " is not a finite number"}
	}
	if v < 0 {
		return &SchemaError{Reason: name + " must not be negative"}
	}
	return nil
}
