package inference

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"diabetesform/ml"
)

// Columns appended to the uploaded table, and the download it becomes.
const (
	LabelColumn       = "Prediksi"
	ProbabilityColumn = "Probabilitas Diabetes"
	DownloadName      = "hasil_prediksi.csv"
	DownloadType      = "text/csv"
)

// Distribution counts predicted labels.
type Distribution struct {
	Negative int `json:"negative"`
	Positive int `json:"positive"`
}

// Total is the number of predicted rows.
func (d Distribution) Total() int {
	return d.Negative + d.Positive
}

// Percent returns the share of label l in [0, 100].
func (d Distribution) Percent(l ml.Label) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	count := d.Negative
	if l == ml.Positive {
		count = d.Positive
	}
	return float64(count) * 100 / float64(total)
}

// BatchResult is the uploaded table with one prediction per row, in
// input order.
type BatchResult struct {
	Header       []string
	Rows         [][]string
	Predictions  []ml.Prediction
	Distribution Distribution
}

// PredictBatch predicts every row of t. It returns either a result for
// all rows or an error, never a partial result.
func (p *Predictor) PredictBatch(ctx context.Context, t *Table) (*BatchResult, error) {
	predictions, err := p.predictRows(ctx, ml.Matrix(t.Features()))
	if err != nil {
		return nil, err
	}
	result := &BatchResult{
		Header:      t.Header,
		Rows:        t.Rows,
		Predictions: predictions,
	}
	for _, prediction := range predictions {
		if prediction.Label == ml.Positive {
			result.Distribution.Positive++
		} else {
			result.Distribution.Negative++
		}
	}
	return result, nil
}

// PredictCSV reads an upload and predicts it in one step.
func (p *Predictor) PredictCSV(ctx context.Context, r io.Reader) (*BatchResult, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	return p.PredictBatch(ctx, table)
}

// Len returns the number of predicted rows.
func (b *BatchResult) Len() int {
	return len(b.Rows)
}

// Preview returns up to n leading rows as uploaded.
func (b *BatchResult) Preview(n int) [][]string {
	if n > len(b.Rows) {
		n = len(b.Rows)
	}
	return b.Rows[:n]
}

// AnnotatedHeader is the original header followed by the two derived
// column names.
func (b *BatchResult) AnnotatedHeader() []string {
	header := make([]string, 0, len(b.Header)+2)
	header = append(header, b.Header...)
	return append(header, LabelColumn, ProbabilityColumn)
}

// AnnotatedRows returns each original row followed by its label (0/1)
// and probability.
func (b *BatchResult) AnnotatedRows() [][]string {
	rows := make([][]string, len(b.Rows))
	for i, row := range b.Rows {
		annotated := make([]string, 0, len(row)+2)
		annotated = append(annotated, row...)
		annotated = append(annotated,
			strconv.Itoa(int(b.Predictions[i].Label)),
			FormatProbability(b.Predictions[i].Probability))
		rows[i] = annotated
	}
	return rows
}

// WriteCSV encodes the annotated table as UTF-8 comma-separated values
// with a header row.
func (b *BatchResult) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(b.AnnotatedHeader()); err != nil {
		return err
	}
	if err := writer.WriteAll(b.AnnotatedRows()); err != nil {
		return err
	}
	return writer.Error()
}

// FormatProbability renders p in the shortest form that parses back to
// the same float64.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
