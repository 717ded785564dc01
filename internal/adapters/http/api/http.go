// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/fetalbio/internal/adapters/mq/worker"
	service "github.com/okian/fetalbio/internal/app"
	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/model"
	"github.com/okian/fetalbio/internal/domain/types"
)

// Shapes shared with the service layer.
type (
	// MeasurementInfo mirrors the measurement listing shape.
	MeasurementInfo = service.MeasurementInfo
	// Stats mirrors the service snapshot shape.
	Stats = service.Stats
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Classify runs the synchronous pipeline for one measurement.
	Classify(ctx context.Context, m model.Measurement) (model.TermObservation, error)

	// ClassifyBatch pushes measurements through the async pipeline and
	// gathers per-item results.
	ClassifyBatch(ctx context.Context, items []model.Measurement) ([]worker.Result, error)

	// Measurements lists the supported measurement types and coverage.
	Measurements(ctx context.Context) []MeasurementInfo

	// Stats reports the service's current state.
	Stats(ctx context.Context) Stats
}

// Server wires HTTP routes for the classification API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	classifyHandler     *ClassifyHandler
	measurementsHandler *MeasurementsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	o := serverOptions{maxBatchSize: defaultMaxBatchSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(deps),
		classifyHandler:     NewClassifyHandler(deps, o.maxBatchSize),
		measurementsHandler: NewMeasurementsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("/classify/batch", MetricsMiddleware(s.classifyHandler.HandleClassifyBatch, "classify_batch"))
	mux.HandleFunc("/measurements", MetricsMiddleware(s.measurementsHandler.HandleMeasurements, "measurements"))
}

// gaSpec is the wire form of a gestational age.
type gaSpec struct {
	Weeks int `json:"weeks"`
	Days  int `json:"days"`
}

// classifyRequest mirrors the schema for POST /classify.
type classifyRequest struct {
	ID          string  `json:"id,omitempty"`
	Measurement string  `json:"measurement"`
	GA          gaSpec  `json:"gestational_age"`
	ValueMM     float64 `json:"value_mm"`
}

func (c classifyRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Measurement) == "":
		return errors.New("missing measurement")
	case c.ValueMM <= 0:
		return errors.New("value_mm must be positive")
	}
	return nil
}

// toModel resolves the request into a domain measurement.
func (c classifyRequest) toModel() (model.Measurement, error) {
	mt, err := types.ParseMeasurement(c.Measurement)
	if err != nil {
		return model.Measurement{}, err
	}
	ga, err := gestage.New(c.GA.Weeks, c.GA.Days)
	if err != nil {
		return model.Measurement{}, err
	}
	return model.Measurement{ID: c.ID, Type: mt, Age: ga, ValueMM: c.ValueMM}, nil
}

// classifyResponse is the interpreted result for one measurement.
type classifyResponse struct {
	ID             string                  `json:"id,omitempty"`
	Measurement    string                  `json:"measurement"`
	GestationalAge string                  `json:"gestational_age"`
	Bin            string                  `json:"bin"`
	Percentile     *float64                `json:"percentile,omitempty"`
	ZScore         *float64                `json:"z_score,omitempty"`
	Observed       bool                    `json:"observed"`
	Term           *model.Term             `json:"term,omitempty"`
	Feature        model.PhenotypicFeature `json:"feature"`
}

func newClassifyResponse(m model.Measurement, obs model.TermObservation) classifyResponse {
	return classifyResponse{
		ID:             m.ID,
		Measurement:    m.Type.Key(),
		GestationalAge: m.Age.String(),
		Bin:            obs.Bin.Key(),
		Percentile:     obs.Percentile,
		ZScore:         obs.ZScore,
		Observed:       obs.Observed,
		Term:           obs.Term,
		Feature:        obs.Feature(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// wrapKind ties a handler operation to a sentinel and its cause.
func wrapKind(op string, kind, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %v", op, kind, err)
}
