package inference

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"diabetesform/ml"
)

// Table is an uploaded CSV: the header and cells exactly as read, plus
// the cells decoded positionally into feature vectors.
type Table struct {
	Header   []string
	Rows     [][]string
	features []ml.FeatureVector
}

// ReadTable decodes a comma-separated upload. Columns are taken in file
// order; their names are not remapped. Every cell must pass
// ParseFeature, and a failure names the data row and column.
func ReadTable(r io.Reader) (*Table, error) {
	// Spreadsheet exports often carry a BOM; UTF-16 ones are transcoded.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, &DownstreamError{Err: fmt.Errorf("read upload: %w", err)}
	}

	records, err := newCSVReader(data).ReadAll()
	if err != nil {
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, &SchemaError{Reason: "rows have differing column counts", Err: err}
		}
		return nil, &DownstreamError{Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(records) == 0 {
		return nil, &DownstreamError{Err: errors.New("no columns to parse from file")}
	}

	header := records[0]
	if len(header) != ml.NumFeatures {
		return nil, &SchemaError{Reason: fmt.Sprintf("expected %d columns (%s), got %d",
			ml.NumFeatures, strings.Join(ml.FeatureNames(), ", "), len(header))}
	}
	rows := records[1:]
	for i, row := range rows {
		for j, cell := range row {
			name := fmt.Sprintf("row %d column %q", i+1, header[j])
			if _, err := ParseFeature(name, cell); err != nil {
				return nil, err
			}
		}
	}

	body := newCSVReader(data)
	if _, err := body.Read(); err != nil {
		return nil, &DownstreamError{Err: fmt.Errorf("parse csv: %w", err)}
	}
	features := make([]ml.FeatureVector, 0, len(rows))
	if len(rows) > 0 {
		if err := gocsv.UnmarshalCSVWithoutHeaders(body, &features); err != nil {
			return nil, &SchemaError{Reason: "non-numeric value", Err: err}
		}
	}
	if len(features) != len(rows) {
		return nil, &DownstreamError{Err: fmt.Errorf("decoded %d of %d rows", len(features), len(rows))}
	}

	return &Table{Header: header, Rows: rows, features: features}, nil
}

func newCSVReader(data []byte) *csv.Reader {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	return reader
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Features returns the decoded rows in input order.
func (t *Table) Features() []ml.FeatureVector {
	return t.features
}

// Preview returns up to n leading rows.
func (t *Table) Preview(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
