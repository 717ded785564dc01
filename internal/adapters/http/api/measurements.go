package api

import "net/http"

// MeasurementsHandler handles measurement listing requests.
type MeasurementsHandler struct {
	deps Dependencies
}

// NewMeasurementsHandler creates a new measurements handler.
func NewMeasurementsHandler(deps Dependencies) *MeasurementsHandler {
	return &MeasurementsHandler{deps: deps}
}

// measurementsResponse mirrors the schema for GET /measurements.
type measurementsResponse struct {
	Measurements []MeasurementInfo `json:"measurements"`
}

// HandleMeasurements handles GET /measurements requests.
func (h *MeasurementsHandler) HandleMeasurements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, measurementsResponse{
		Measurements: h.deps.Measurements(r.Context()),
	})
}
