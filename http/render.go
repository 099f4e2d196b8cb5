package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"diabetesform/inference"
	"diabetesform/ml"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const previewRows = 5

const (
	tabManual = "manual"
	tabUpload = "upload"
)

// formField is one number input of the manual form.
type formField struct {
	Name  string
	Label string
	Step  string
	Value string
}

var fieldLabels = map[string]string{
	"BloodPressure":            "Blood Pressure",
	"SkinThickness":            "Skin Thickness",
	"DiabetesPedigreeFunction": "Diabetes Pedigree Function",
}

var fieldSteps = map[string]string{
	"BMI":                      "0.1",
	"DiabetesPedigreeFunction": "0.001",
}

// manualFields returns the form inputs in fitted order, echoing values
// when the user already submitted some.
func manualFields(values map[string]string) []formField {
	fields := make([]formField, 0, ml.NumFeatures)
	for _, name := range ml.FeatureNames() {
		field := formField{Name: name, Label: name, Step: "1", Value: "0"}
		if label, ok := fieldLabels[name]; ok {
			field.Label = label
		}
		if step, ok := fieldSteps[name]; ok {
			field.Step = step
		}
		if v, ok := values[name]; ok {
			field.Value = v
		}
		fields = append(fields, field)
	}
	return fields
}

type manualView struct {
	Prediction ml.Prediction
}

func (v *manualView) Positive() bool {
	return v.Prediction.Label == ml.Positive
}

type batchView struct {
	FileName     string
	Header       []string
	Preview      [][]string
	Annotated    []string
	Rows         [][]string
	Distribution inference.Distribution
	DownloadID   string
}

func newBatchView(fileName string, result *inference.BatchResult, downloadID string) *batchView {
	return &batchView{
		FileName:     fileName,
		Header:       result.Header,
		Preview:      result.Preview(previewRows),
		Annotated:    result.AnnotatedHeader(),
		Rows:         result.AnnotatedRows(),
		Distribution: result.Distribution,
		DownloadID:   downloadID,
	}
}

func (v *batchView) ChartURL() string {
	return fmt.Sprintf("/chart.png?negative=%d&positive=%d", v.Distribution.Negative, v.Distribution.Positive)
}

type pageData struct {
	Tab    string
	Fields []formField
	Manual *manualView
	Batch  *batchView
	Error  string
}

var templateFuncs = template.FuncMap{
	"percent": func(p float64) string {
		return fmt.Sprintf("%.2f%%", p*100)
	},
	"share": func(d inference.Distribution, positive bool) string {
		label := ml.Negative
		if positive {
			label = ml.Positive
		}
		return fmt.Sprintf("%.1f%%", d.Percent(label))
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// render executes the page into a buffer first so a template error
// never leaves a half-written response.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.logger.Error("render page",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
