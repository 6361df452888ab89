// Package predictor holds the prediction pipeline, the change-detection
// poller, and the HTTP surface of the irrigation backend.
package predictor

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/mlmodel"
	"github.com/agri-hub/irrigation-backend/internal/model"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

const (
	// No forecast source is wired yet; training used this placeholder for
	// rainfall_mm_prediction_next_1h.
	rainfallForecastMM = 0.5

	heatTempThreshold     = 35.0
	heatHumidityThreshold = 50.0
	droughtSoilThreshold  = 30.0
	droughtRainThreshold  = 1.0
)

// Config carries the categorical context the model was trained for. These
// silently determine classification quality, so they are configuration, not
// literals buried in the pipeline.
type Config struct {
	District string
	Zone     string
	Season   string

	// Now is the clock used for time-derived features; defaults to wall
	// clock time.
	Now func() time.Time

	Logger *log.Logger
}

// Pipeline turns a validated sensor reading into an irrigation class and
// persists the latest decision. It holds no mutable state: every run is a
// function of the reading, the clock, and the load-once artifacts.
type Pipeline struct {
	store     statestore.Store
	artifacts *mlmodel.Artifacts
	cfg       Config
}

func NewPipeline(store statestore.Store, artifacts *mlmodel.Artifacts, cfg Config) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("predictor: state store is nil")
	}
	if artifacts == nil {
		return nil, errors.New("predictor: model artifacts are nil")
	}
	if cfg.District == "" {
		cfg.District = "Coimbatore"
	}
	if cfg.Zone == "" {
		cfg.Zone = "Western Zone"
	}
	if cfg.Season == "" {
		cfg.Season = "southwest_monsoon"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Pipeline{store: store, artifacts: artifacts, cfg: cfg}, nil
}

// Predict classifies one reading. Classification errors are returned to the
// caller; persistence of the result is best-effort and never fails the run,
// since the classification itself already succeeded.
func (p *Pipeline) Predict(ctx context.Context, r model.SensorReading) (model.PredictionResult, error) {
	now := p.cfg.Now()

	vec, err := p.featureVector(r, now)
	if err != nil {
		predictionsTotal.WithLabelValues("error").Inc()
		return model.PredictionResult{}, err
	}

	scaled, err := p.artifacts.Scaler.Transform(vec)
	if err != nil {
		predictionsTotal.WithLabelValues("error").Inc()
		return model.PredictionResult{}, err
	}

	res := model.PredictionResult{
		IrrigationClass: p.artifacts.Model.Predict(scaled),
		Timestamp:       now,
	}
	p.persist(ctx, res)

	predictionsTotal.WithLabelValues("ok").Inc()
	p.cfg.Logger.Printf("pipeline: prediction updated: class %d at %s",
		res.IrrigationClass, res.Timestamp.Format(time.RFC3339))
	return res, nil
}

// featureVector assembles the input in the exact order the classifier was
// trained on. Reordering anything here produces silently wrong predictions.
func (p *Pipeline) featureVector(r model.SensorReading, now time.Time) ([]float64, error) {
	district, err := p.encode("district", p.cfg.District)
	if err != nil {
		return nil, err
	}
	zone, err := p.encode("zone", p.cfg.Zone)
	if err != nil {
		return nil, err
	}
	season, err := p.encode("season", p.cfg.Season)
	if err != nil {
		return nil, err
	}

	heatStress := 0.0
	if r.Temperature > heatTempThreshold && r.Humidity < heatHumidityThreshold {
		heatStress = 1.0
	}
	droughtStress := 0.0
	if r.SoilMoisture < droughtSoilThreshold && rainfallForecastMM < droughtRainThreshold {
		droughtStress = 1.0
	}

	return []float64{
		r.SoilMoisture,
		r.Temperature,
		r.Humidity,
		rainfallForecastMM,
		float64(now.Hour()),
		float64(now.YearDay()),
		float64(int(now.Month())),
		float64(district),
		float64(zone),
		float64(season),
		heatStress,
		droughtStress,
		r.SoilMoisture * r.Temperature,
		r.Humidity * rainfallForecastMM,
	}, nil
}

func (p *Pipeline) encode(name, label string) (int, error) {
	enc, err := p.artifacts.Encoder(name)
	if err != nil {
		return 0, err
	}
	return enc.Transform(label)
}

// persist writes the latest decision to the store. Fire-and-forget: failures
// are logged and counted, the in-memory result still goes to the caller.
func (p *Pipeline) persist(ctx context.Context, res model.PredictionResult) {
	if err := p.store.Set(ctx, statestore.PathPredictionClass, res.IrrigationClass); err != nil {
		storeWriteFailures.Inc()
		p.cfg.Logger.Printf("pipeline: prediction class write error: %v", err)
	}
	if err := p.store.Set(ctx, statestore.PathLastPredictionTime, res.Timestamp.Format(time.RFC3339)); err != nil {
		storeWriteFailures.Inc()
		p.cfg.Logger.Printf("pipeline: prediction time write error: %v", err)
	}
}
