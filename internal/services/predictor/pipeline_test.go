package predictor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agri-hub/irrigation-backend/internal/mlmodel"
	"github.com/agri-hub/irrigation-backend/internal/model"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

func newTestPipeline(t *testing.T, store statestore.Store, clf mlmodel.Classifier, cfg Config) *Pipeline {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = testClock
	}
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	p, err := NewPipeline(store, testArtifacts(clf), cfg)
	require.NoError(t, err)
	return p
}

func TestPredictSuccess(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, &stubClassifier{class: 2}, Config{})

	res, err := p.Predict(context.Background(), model.SensorReading{
		Humidity: 60, Temperature: 30, SoilMoisture: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.IrrigationClass)
	assert.Equal(t, testClock(), res.Timestamp)

	// Latest decision persisted to both paths.
	assert.Equal(t, 2, store.get(statestore.PathPredictionClass))
	stamp, ok := store.get(statestore.PathLastPredictionTime).(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(testClock()))
}

func TestPredictFeatureVectorOrder(t *testing.T) {
	clf := &stubClassifier{class: 1}
	p := newTestPipeline(t, newMemStore(), clf, Config{})

	_, err := p.Predict(context.Background(), model.SensorReading{
		Humidity: 60, Temperature: 30, SoilMoisture: 45,
	})
	require.NoError(t, err)

	// Trained order: soil, temp, humidity, rainfall, hour, day_of_year,
	// month, district, zone, season, heat, drought, soil*temp, hum*rain.
	want := []float64{
		45, 30, 60, 0.5,
		14, 235, 8,
		1, 2, 1,
		0, 0,
		45 * 30, 60 * 0.5,
	}
	assert.Equal(t, want, clf.got)
}

func TestPredictStressFlags(t *testing.T) {
	cases := []struct {
		name                   string
		reading                model.SensorReading
		wantHeat, wantDrought  float64
	}{
		{"nominal", model.SensorReading{Humidity: 60, Temperature: 30, SoilMoisture: 45}, 0, 0},
		{"stressed", model.SensorReading{Humidity: 40, Temperature: 38, SoilMoisture: 20}, 1, 1},
		{"hot but humid", model.SensorReading{Humidity: 80, Temperature: 40, SoilMoisture: 50}, 0, 0},
		{"dry soil only", model.SensorReading{Humidity: 60, Temperature: 30, SoilMoisture: 10}, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clf := &stubClassifier{}
			p := newTestPipeline(t, newMemStore(), clf, Config{})

			_, err := p.Predict(context.Background(), tc.reading)
			require.NoError(t, err)
			assert.Equal(t, tc.wantHeat, clf.got[10], "heat stress")
			assert.Equal(t, tc.wantDrought, clf.got[11], "drought stress")
		})
	}
}

func TestPredictUnknownCategory(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, store, &stubClassifier{}, Config{District: "Atlantis"})

	_, err := p.Predict(context.Background(), model.SensorReading{
		Humidity: 60, Temperature: 30, SoilMoisture: 45,
	})
	require.ErrorIs(t, err, mlmodel.ErrUnknownCategory)
	assert.Nil(t, store.get(statestore.PathPredictionClass))
}

func TestPredictWriteFailureStillReturnsResult(t *testing.T) {
	store := newMemStore()
	store.setErr = statestore.ErrWrite
	p := newTestPipeline(t, store, &stubClassifier{class: 3}, Config{})

	// Persistence is best-effort: the classification succeeded, so the
	// caller still gets the result.
	res, err := p.Predict(context.Background(), model.SensorReading{
		Humidity: 60, Temperature: 30, SoilMoisture: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.IrrigationClass)
}

func TestPredictDeterministicAtFixedClock(t *testing.T) {
	p := newTestPipeline(t, newMemStore(), &stubClassifier{class: 2}, Config{})
	reading := model.SensorReading{Humidity: 60, Temperature: 30, SoilMoisture: 45}

	first, err := p.Predict(context.Background(), reading)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), reading)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewPipelineValidation(t *testing.T) {
	_, err := NewPipeline(nil, testArtifacts(&stubClassifier{}), Config{})
	assert.Error(t, err)
	_, err = NewPipeline(newMemStore(), nil, Config{})
	assert.Error(t, err)
}

func TestNewPipelineDefaults(t *testing.T) {
	clf := &stubClassifier{}
	p, err := NewPipeline(newMemStore(), testArtifacts(clf), Config{Now: testClock, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), model.SensorReading{
		Humidity: 60, Temperature: 30, SoilMoisture: 45,
	})
	require.NoError(t, err)
	// Default district/zone/season encode to the trained constants.
	assert.Equal(t, 1.0, clf.got[7])
	assert.Equal(t, 2.0, clf.got[8])
	assert.Equal(t, 1.0, clf.got[9])
}
