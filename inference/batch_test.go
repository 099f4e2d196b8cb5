package inference

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diabetesform/ml"
)

type annotatedRow struct {
	ml.FeatureVector
	Label       int     `csv:"Prediksi"`
	Probability float64 `csv:"Probabilitas Diabetes"`
}

func TestPredictBatchPreservesOrder(t *testing.T) {
	predictor := newTestPredictor(t)

	result, err := predictor.PredictCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())
	require.Len(t, result.Predictions, 3)

	table, err := ReadTable(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	for i, features := range table.Features() {
		single, err := predictor.PredictOne(context.Background(), features)
		require.NoError(t, err)
		assert.Equal(t, single, result.Predictions[i], "row %d", i)
	}

	assert.Equal(t, ml.Positive, result.Predictions[0].Label)
	assert.Equal(t, ml.Negative, result.Predictions[1].Label)
	assert.Equal(t, Distribution{Negative: 2, Positive: 1}, result.Distribution)
	assert.Equal(t, result.Len(), result.Distribution.Total())
}

func TestPredictBatchEmptyTable(t *testing.T) {
	predictor := newTestPredictor(t)

	result, err := predictor.PredictCSV(context.Background(), strings.NewReader(header))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
	assert.Equal(t, Distribution{}, result.Distribution)
}

func TestPredictBatchWrongColumnCount(t *testing.T) {
	predictor := newTestPredictor(t)

	for _, input := range []string{
		"a,b,c,d,e,f,g\n1,2,3,4,5,6,7\n",
		"a,b,c,d,e,f,g,h,i\n1,2,3,4,5,6,7,8,9\n",
	} {
		result, err := predictor.PredictCSV(context.Background(), strings.NewReader(input))
		assert.Nil(t, result)
		var schemaErr *SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	}
}

func TestPredictBatchIsAllOrNothing(t *testing.T) {
	model := &fakeClassifier{width: 8, err: errors.New("boom")}
	artifacts, err := NewArtifacts(model, &fakeScaler{width: 8}, nil)
	require.NoError(t, err)

	result, err := NewPredictor(artifacts).PredictCSV(context.Background(), strings.NewReader(sampleCSV))
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestBatchResultCSVRoundTrip(t *testing.T) {
	predictor := newTestPredictor(t)
	result, err := predictor.PredictCSV(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteCSV(&buf))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, result.Len()+1)
	assert.Equal(t, append(ml.FeatureNames(), LabelColumn, ProbabilityColumn), records[0])
	for i, record := range records[1:] {
		assert.Equal(t, result.Rows[i], record[:ml.NumFeatures])
		assert.Equal(t, strconv.Itoa(int(result.Predictions[i].Label)), record[ml.NumFeatures])
	}

	var rows []annotatedRow
	require.NoError(t, gocsv.UnmarshalBytes(buf.Bytes(), &rows))
	require.Len(t, rows, result.Len())
	for i, row := range rows {
		assert.Equal(t, int(result.Predictions[i].Label), row.Label)
		assert.Equal(t, result.Predictions[i].Probability, row.Probability)
	}
	assert.Equal(t, 130.0, rows[1].Glucose)
}

func TestBatchResultKeepsOriginalCells(t *testing.T) {
	predictor := newTestPredictor(t)
	input := header + "2,130.0,70,20,85,28.50,0.5,35\n"
	result, err := predictor.PredictCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteCSV(&buf))
	assert.Contains(t, buf.String(), "2,130.0,70,20,85,28.50,0.5,35,0,")
}

func TestDistributionPercent(t *testing.T) {
	d := Distribution{Negative: 3, Positive: 1}
	assert.Equal(t, 75.0, d.Percent(ml.Negative))
	assert.Equal(t, 25.0, d.Percent(ml.Positive))
	assert.Equal(t, 0.0, Distribution{}.Percent(ml.Positive))
}

func TestFormatProbability(t *testing.T) {
	for _, p := range []float64{0, 1, 0.25, 1.0 / 3, 0.6833333333333332} {
		parsed, err := strconv.ParseFloat(FormatProbability(p), 64)
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}
