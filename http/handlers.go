package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"diabetesform/inference"
	"diabetesform/ml"
)

// Handlers serves the form pages and the JSON API.
type Handlers struct {
	predictor      *inference.Predictor
	pages          *template.Template
	downloads      *DownloadStore
	charts         *ChartCache
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewHandlers parses the embedded templates and returns handlers serving
// predictor. Uploads larger than maxUploadBytes are rejected.
func NewHandlers(predictor *inference.Predictor, downloads *DownloadStore, logger *zap.Logger, maxUploadBytes int64) (*Handlers, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	charts, err := NewChartCache(chartCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handlers{
		predictor:      predictor,
		pages:          pages,
		downloads:      downloads,
		charts:         charts,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}, nil
}

// Register adds every page, asset and API route to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.Handle("POST /upload", RequestSizeMiddleware(h.maxUploadBytes)(http.HandlerFunc(h.handleUpload)))
	mux.HandleFunc("GET /download/{id}", h.handleDownload)
	mux.HandleFunc("GET /chart.png", h.handleChart)
	mux.HandleFunc("GET /assets/logo.png", h.handleLogo)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/predict", h.handleAPIPredict)
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	tab := tabManual
	if r.URL.Query().Get("tab") == tabUpload {
		tab = tabUpload
	}
	h.render(w, r, http.StatusOK, &pageData{Tab: tab, Fields: manualFields(nil)})
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, &pageData{
			Tab:    tabManual,
			Fields: manualFields(nil),
			Error:  errorMessage(err),
		})
		return
	}

	submitted := make(map[string]string, ml.NumFeatures)
	for _, name := range ml.FeatureNames() {
		submitted[name] = strings.TrimSpace(r.PostForm.Get(name))
	}
	data := &pageData{Tab: tabManual, Fields: manualFields(submitted)}

	features, err := parseFeatures(submitted)
	if err == nil {
		var prediction ml.Prediction
		prediction, err = h.predictor.PredictOne(r.Context(), features)
		if err == nil {
			data.Manual = &manualView{Prediction: prediction}
		}
	}
	if err != nil {
		h.renderError(w, r, data, err)
		return
	}
	h.render(w, r, http.StatusOK, data)
}

func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Tab: tabUpload, Fields: manualFields(nil)}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			data.Error = errorMessage(fmt.Errorf("file exceeds %s", humanize.Bytes(uint64(h.maxUploadBytes))))
			h.render(w, r, http.StatusRequestEntityTooLarge, data)
		case errors.Is(err, http.ErrMissingFile):
			data.Error = errorMessage(errors.New("pilih file CSV untuk diunggah"))
			h.render(w, r, http.StatusBadRequest, data)
		default:
			data.Error = errorMessage(err)
			h.render(w, r, http.StatusBadRequest, data)
		}
		return
	}
	defer file.Close()

	requestID := GetRequestID(r.Context())
	h.logger.Info("upload received",
		zap.String("request_id", requestID),
		zap.String("file", header.Filename),
		zap.String("size", humanize.Bytes(uint64(header.Size))),
	)

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		data.Error = errorMessage(fmt.Errorf("%s bukan file .csv", header.Filename))
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	result, err := h.predictor.PredictCSV(r.Context(), file)
	if err != nil {
		h.logger.Warn("batch prediction failed",
			zap.String("request_id", requestID),
			zap.String("file", header.Filename),
			zap.Error(err),
		)
		h.renderError(w, r, data, err)
		return
	}

	var encoded bytes.Buffer
	if err := result.WriteCSV(&encoded); err != nil {
		h.renderError(w, r, data, err)
		return
	}
	id := h.downloads.Put(encoded.Bytes())

	h.logger.Info("batch predicted",
		zap.String("request_id", requestID),
		zap.Int("rows", result.Len()),
		zap.Int("positive", result.Distribution.Positive),
		zap.String("download_id", id),
	)

	data.Batch = newBatchView(header.Filename, result, id)
	h.render(w, r, http.StatusOK, data)
}

func (h *Handlers) handleDownload(w http.ResponseWriter, r *http.Request) {
	content, ok := h.downloads.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "download expired or not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", inference.DownloadType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inference.DownloadName))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Write(content)
}

func (h *Handlers) handleChart(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	negative, err := strconv.Atoi(query.Get("negative"))
	if err != nil || negative < 0 {
		http.Error(w, "negative must be a non-negative integer", http.StatusBadRequest)
		return
	}
	positive, err := strconv.Atoi(query.Get("positive"))
	if err != nil || positive < 0 {
		http.Error(w, "positive must be a non-negative integer", http.StatusBadRequest)
		return
	}

	png, err := h.charts.Get(inference.Distribution{Negative: negative, Positive: positive})
	if err != nil {
		if errors.Is(err, errEmptyDistribution) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("render chart", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func (h *Handlers) handleLogo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(h.predictor.Artifacts().Logo())
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type predictResponse struct {
	Label       ml.Label `json:"label"`
	LabelName   string   `json:"label_name"`
	Probability float64  `json:"probability"`
}

func (h *Handlers) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var body map[string]*float64
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	values := make([]float64, 0, ml.NumFeatures)
	for _, name := range ml.FeatureNames() {
		v, ok := body[name]
		if !ok || v == nil {
			writeJSONError(w, http.StatusBadRequest, &inference.SchemaError{Reason: name + " is required"})
			return
		}
		if err := inference.CheckFeature(name, *v); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}
		values = append(values, *v)
	}
	features, err := ml.FromValues(values)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	prediction, err := h.predictor.PredictOne(r.Context(), features)
	if err != nil {
		status := http.StatusInternalServerError
		var schemaErr *inference.SchemaError
		if errors.As(err, &schemaErr) {
			status = http.StatusBadRequest
		}
		h.logger.Warn("api prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		writeJSONError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictResponse{
		Label:       prediction.Label,
		LabelName:   prediction.Label.String(),
		Probability: prediction.Probability,
	})
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// renderError shows err inline on the active tab. Input problems keep a
// 4xx status; anything else is logged and becomes a 500.
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, data *pageData, err error) {
	var (
		schemaErr     *inference.SchemaError
		downstreamErr *inference.DownstreamError
	)
	switch {
	case errors.As(err, &schemaErr):
		data.Error = errorMessage(err)
		h.render(w, r, http.StatusUnprocessableEntity, data)
	case errors.As(err, &downstreamErr):
		data.Error = errorMessage(err)
		h.render(w, r, http.StatusBadRequest, data)
	default:
		h.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func errorMessage(err error) string {
	return "Terjadi kesalahan: " + err.Error()
}

// parseFeatures applies the checks uploaded cells get to form input:
// every field present, numeric, finite and not negative.
func parseFeatures(values map[string]string) (ml.FeatureVector, error) {
	parsed := make([]float64, 0, ml.NumFeatures)
	for _, name := range ml.FeatureNames() {
		v, err := inference.ParseFeature(name, values[name])
		if err != nil {
			return ml.FeatureVector{}, err
		}
		parsed = append(parsed, v)
	}
	return ml.FromValues(parsed)
}
