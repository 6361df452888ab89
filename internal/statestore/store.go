// Package statestore provides clients for the hierarchical key-value store
// that holds the sensor node and the latest prediction.
package statestore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store paths used by the service. The raw sensor paths are written by the
// uplink and read-only to the predictor; the prediction paths are written by
// the predictor.
const (
	PathSensorData         = "sensorData"
	PathSensorRaw          = "sensorData/raw"
	PathPredictionClass    = "sensorData/prediction_class"
	PathLastPredictionTime = "sensorData/last_prediction_time"

	// Child keys of the sensor node that this service writes itself.
	NodePredictionClass    = "prediction_class"
	NodeLastPredictionTime = "last_prediction_time"
)

var (
	ErrRead  = errors.New("state store read failed")
	ErrWrite = errors.New("state store write failed")
)

// Store is a hierarchical key-value store. Paths are slash-separated.
// Get returns (nil, nil) when the node is absent. Reading a path with
// children returns the assembled node as a map[string]any.
type Store interface {
	Get(ctx context.Context, path string) (any, error)
	Set(ctx context.Context, path string, value any) error
}

// Config selects and configures a store backend.
type Config struct {
	Backend string // "firebase" | "redis"

	FirebaseURL   string
	FirebaseToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Timeout time.Duration
}

// New builds the store backend named by cfg.Backend.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "firebase":
		return NewFirebase(FirebaseConfig{
			BaseURL:   cfg.FirebaseURL,
			AuthToken: cfg.FirebaseToken,
			Timeout:   cfg.Timeout,
		})
	case "redis":
		return NewRedis(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
