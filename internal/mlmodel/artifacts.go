// Package mlmodel loads the trained irrigation classifier and its
// preprocessing artifacts from a JSON bundle.
//
// The bundle mirrors what training exports: encoder vocabularies in code
// order, the standard scaler's mean/scale, and the tree ensemble in array
// form:
//
//	{
//	  "encoders": {"district": [...], "zone": [...], "season": [...]},
//	  "scaler":   {"mean": [...], "scale": [...]},
//	  "model":    {"trees": [{"nodes": [...]}, ...]}
//	}
package mlmodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encoder names the bundle must provide.
var requiredEncoders = []string{"district", "zone", "season"}

// Artifacts is the immutable, load-once model bundle shared by every
// pipeline run.
type Artifacts struct {
	Model    Classifier
	Scaler   *StandardScaler
	Encoders map[string]*LabelEncoder
}

// FeatureCount is the width of the trained feature vector.
func (a *Artifacts) FeatureCount() int {
	return len(a.Scaler.Mean)
}

// Encoder returns the named label encoder.
func (a *Artifacts) Encoder(name string) (*LabelEncoder, error) {
	enc, ok := a.Encoders[name]
	if !ok {
		return nil, fmt.Errorf("no encoder %q in model bundle", name)
	}
	return enc, nil
}

type bundle struct {
	Encoders map[string][]string `json:"encoders"`
	Scaler   *StandardScaler     `json:"scaler"`
	Model    *Forest             `json:"model"`
}

// Load reads and validates the artifact bundle at path.
func Load(path string) (*Artifacts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model bundle: %w", err)
	}
	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("parse model bundle: %w", err)
	}

	if b.Scaler == nil || len(b.Scaler.Mean) == 0 {
		return nil, fmt.Errorf("model bundle %s: scaler missing", path)
	}
	if len(b.Scaler.Mean) != len(b.Scaler.Scale) {
		return nil, fmt.Errorf("model bundle %s: scaler mean/scale width mismatch (%d vs %d)",
			path, len(b.Scaler.Mean), len(b.Scaler.Scale))
	}
	if b.Model == nil || len(b.Model.Trees) == 0 {
		return nil, fmt.Errorf("model bundle %s: classifier missing", path)
	}

	encoders := make(map[string]*LabelEncoder, len(b.Encoders))
	for name, classes := range b.Encoders {
		encoders[name] = NewLabelEncoder(classes)
	}
	for _, name := range requiredEncoders {
		if _, ok := encoders[name]; !ok {
			return nil, fmt.Errorf("model bundle %s: encoder %q missing", path, name)
		}
	}

	return &Artifacts{Model: b.Model, Scaler: b.Scaler, Encoders: encoders}, nil
}
