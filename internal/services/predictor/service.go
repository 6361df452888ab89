package predictor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/model"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

// ErrNoData means the raw sensor node is absent from the store.
var ErrNoData = errors.New("no sensor data found")

// Service bundles the pipeline with the store for the request-driven
// operations: on-demand trigger and health probing.
type Service struct {
	store    statestore.Store
	pipeline *Pipeline
	logger   *log.Logger
}

func NewService(store statestore.Store, pipeline *Pipeline, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: store, pipeline: pipeline, logger: logger}
}

// Predict runs the pipeline on an already-read snapshot (the /predict body).
func (s *Service) Predict(ctx context.Context, snap model.Snapshot) (model.PredictionResult, error) {
	reading, err := model.ReadingFromSnapshot(snap)
	if err != nil {
		return model.PredictionResult{}, err
	}
	return s.pipeline.Predict(ctx, reading)
}

// Trigger reads the raw sensor node exactly once and runs the pipeline
// synchronously. No change detection, no poller state involved.
func (s *Service) Trigger(ctx context.Context) (model.PredictionResult, model.Snapshot, error) {
	node, err := s.store.Get(ctx, statestore.PathSensorRaw)
	if err != nil {
		return model.PredictionResult{}, nil, err
	}
	if node == nil {
		return model.PredictionResult{}, nil, ErrNoData
	}
	raw, ok := node.(map[string]any)
	if !ok {
		return model.PredictionResult{}, nil, fmt.Errorf("%w: raw node is not an object (%T)", model.ErrValidation, node)
	}
	snap := model.Snapshot(raw)
	res, err := s.Predict(ctx, snap)
	return res, snap, err
}

// Health reports store reachability via a probe read of the raw node. It
// never touches poller state.
type Health struct {
	Status            string    `json:"status"`
	StoreConnected    bool      `json:"store_connected"`
	CurrentSensorData any       `json:"current_sensor_data,omitempty"`
	Error             string    `json:"error,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

func (s *Service) Health(ctx context.Context) Health {
	h := Health{Timestamp: time.Now()}
	node, err := s.store.Get(ctx, statestore.PathSensorRaw)
	if err != nil {
		h.Status = "unhealthy"
		h.Error = err.Error()
		return h
	}
	h.Status = "healthy"
	h.StoreConnected = true
	h.CurrentSensorData = node
	return h
}
