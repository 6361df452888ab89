package model

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Required fields of a sensor snapshot.
var RequiredFields = []string{"humidity", "temperature", "soilMoisture"}

// Snapshot is a raw sensor node as read from the state store. The uplink may
// attach extra fields (device id, timestamps); the pipeline ignores them.
type Snapshot map[string]any

// SensorReading is a validated snapshot, ready for the prediction pipeline.
type SensorReading struct {
	Humidity     float64 `json:"humidity" mapstructure:"humidity"`
	Temperature  float64 `json:"temperature" mapstructure:"temperature"`
	SoilMoisture float64 `json:"soilMoisture" mapstructure:"soilMoisture"`
}

// MissingFields returns the required fields absent from the snapshot.
func (s Snapshot) MissingFields() []string {
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := s[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Clone returns a shallow copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ReadingFromSnapshot validates field presence and coerces the values to
// numbers. Numeric strings are accepted, since some uplinks report readings
// as strings; anything else fails with ErrValidation.
func ReadingFromSnapshot(s Snapshot) (SensorReading, error) {
	if missing := s.MissingFields(); len(missing) > 0 {
		return SensorReading{}, fmt.Errorf("%w: %v", ErrIncompleteData, missing)
	}
	var r SensorReading
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &r,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return SensorReading{}, err
	}
	if err := dec.Decode(map[string]any(s)); err != nil {
		return SensorReading{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return r, nil
}
