package ml

// NumFeatures is the width of every feature row the artifacts accept.
const NumFeatures = 8

// FeatureVector is one patient record. Field order matches the order
// the scaler and classifier were fitted on and must not change.
// Pregnancies, Glucose, BloodPressure, SkinThickness, Insulin and Age
// are integral by convention.
type FeatureVector struct {
	Pregnancies              float64 `csv:"Pregnancies"`
	Glucose                  float64 `csv:"Glucose"`
	BloodPressure            float64 `csv:"BloodPressure"`
	SkinThickness            float64 `csv:"SkinThickness"`
	Insulin                  float64 `csv:"Insulin"`
	BMI                      float64 `csv:"BMI"`
	DiabetesPedigreeFunction float64 `csv:"DiabetesPedigreeFunction"`
	Age                      float64 `csv:"Age"`
}

// Values flattens the record in fitted order.
func (f FeatureVector) Values() []float64 {
	return []float64{
		f.Pregnancies,
		f.Glucose,
		f.BloodPressure,
		f.SkinThickness,
		f.Insulin,
		f.BMI,
		f.DiabetesPedigreeFunction,
		f.Age,
	}
}

// FeatureNames returns the column names in fitted order.
func FeatureNames() []string {
	return []string{
		"Pregnancies",
		"Glucose",
		"BloodPressure",
		"SkinThickness",
		"Insulin",
		"BMI",
		"DiabetesPedigreeFunction",
		"Age",
	}
}

// FromValues builds a record from values in fitted order.
func FromValues(values []float64) (FeatureVector, error) {
	if len(values) != NumFeatures {
		return FeatureVector{}, &ShapeError{Want: NumFeatures, Got: len(values)}
	}
	return FeatureVector{
		Pregnancies:              values[0],
		Glucose:                  values[1],
		BloodPressure:            values[2],
		SkinThickness:            values[3],
		Insulin:                  values[4],
		BMI:                      values[5],
		DiabetesPedigreeFunction: values[6],
		Age:                      values[7],
	}, nil
}

// Matrix flattens a slice of records into rows for Transform.
func Matrix(features []FeatureVector) [][]float64 {
	rows := make([][]float64, len(features))
	for i, f := range features {
		rows[i] = f.Values()
	}
	return rows
}
