package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/fetalbio/internal/app"
	"github.com/okian/fetalbio/internal/adapters/reference"
	"github.com/okian/fetalbio/internal/domain/model"
)

// Default classification handler constants.
const defaultMaxBatchSize = 1000

// ClassifyHandler handles classification requests.
type ClassifyHandler struct {
	deps         Dependencies
	maxBatchSize int
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps Dependencies, maxBatchSize int) *ClassifyHandler {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &ClassifyHandler{deps: deps, maxBatchSize: maxBatchSize}
}

// HandleClassify handles POST /classify requests.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	m, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}

	obs, err := h.deps.Classify(r.Context(), m)
	if err != nil {
		status, code := classifyStatus(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newClassifyResponse(m, obs))
}

// batchRequest mirrors the schema for POST /classify/batch.
type batchRequest struct {
	Items []classifyRequest `json:"items"`
}

// batchItemResponse is one per-item outcome within a batch response.
// Exactly one of Result and Error is set.
type batchItemResponse struct {
	Result *classifyResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItemResponse `json:"results"`
	Failed  int                 `json:"failed"`
}

// HandleClassifyBatch handles POST /classify/batch requests. Items fail
// independently: the response carries a result or an error per item, in
// submission order.
func (h *ClassifyHandler) HandleClassifyBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("empty items")))
		return
	}
	if len(req.Items) > h.maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch_too_large", wrapKind(op, ErrBatchTooLarge, nil))
		return
	}

	items := make([]model.Measurement, 0, len(req.Items))
	parseErrs := make([]string, len(req.Items))
	for i, item := range req.Items {
		if err := item.validate(); err != nil {
			parseErrs[i] = err.Error()
			items = append(items, model.Measurement{})
			continue
		}
		m, err := item.toModel()
		if err != nil {
			parseErrs[i] = err.Error()
			items = append(items, model.Measurement{})
			continue
		}
		items = append(items, m)
	}

	// Only structurally valid items enter the pipeline.
	valid := make([]model.Measurement, 0, len(items))
	for i := range items {
		if parseErrs[i] == "" {
			valid = append(valid, items[i])
		}
	}
	results, err := h.deps.ClassifyBatch(r.Context(), valid)
	if err != nil {
		status, code := classifyStatus(err)
		writeError(w, status, code, err)
		return
	}

	resp := batchResponse{Results: make([]batchItemResponse, len(req.Items))}
	next := 0
	for i := range req.Items {
		if parseErrs[i] != "" {
			resp.Results[i] = batchItemResponse{Error: parseErrs[i]}
			resp.Failed++
			continue
		}
		res := results[next]
		next++
		if res.Err != nil {
			resp.Results[i] = batchItemResponse{Error: res.Err.Error()}
			resp.Failed++
			continue
		}
		cr := newClassifyResponse(res.Measurement, res.Observation)
		resp.Results[i] = batchItemResponse{Result: &cr}
	}
	writeJSON(w, http.StatusOK, resp)
}

// classifyStatus maps pipeline errors to HTTP status codes.
func classifyStatus(err error) (int, string) {
	switch {
	case errors.Is(err, reference.ErrUnsupportedMeasurement):
		return http.StatusUnprocessableEntity, "unsupported_measurement"
	case errors.Is(err, reference.ErrNoReferenceData):
		return http.StatusNotFound, "no_reference_data"
	case errors.Is(err, service.ErrMappingNotConfigured):
		return http.StatusUnprocessableEntity, "mapping_not_configured"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
