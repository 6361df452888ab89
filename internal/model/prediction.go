package model

import (
	"errors"
	"time"
)

// Validation failures of incoming sensor data.
var (
	ErrIncompleteData = errors.New("missing required sensor fields")
	ErrValidation     = errors.New("invalid sensor values")
)

// PredictionResult is the outcome of one pipeline run. Only the latest result
// is persisted to the state store; results are not accumulated.
type PredictionResult struct {
	IrrigationClass int       `json:"irrigation_class"`
	Timestamp       time.Time `json:"timestamp"`
}
