package predictor

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/mlmodel"
	"github.com/agri-hub/irrigation-backend/internal/model"
)

// memStore is a map-backed statestore.Store with injectable failures.
type memStore struct {
	mu     sync.Mutex
	data   map[string]any
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]any{}}
}

func (s *memStore) Get(_ context.Context, path string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[path], nil
}

func (s *memStore) Set(_ context.Context, path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[path] = value
	return nil
}

func (s *memStore) get(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[path]
}

// scriptedStore replays a fixed sequence of read outcomes; the last step is
// sticky.
type storeStep struct {
	node any
	err  error
}

type scriptedStore struct {
	steps []storeStep
	idx   int
}

func (s *scriptedStore) Get(_ context.Context, _ string) (any, error) {
	step := s.steps[s.idx]
	if s.idx < len(s.steps)-1 {
		s.idx++
	}
	return step.node, step.err
}

func (s *scriptedStore) Set(_ context.Context, _ string, _ any) error {
	return nil
}

// stubClassifier returns a fixed class and captures its input vector.
type stubClassifier struct {
	class int
	got   []float64
}

func (c *stubClassifier) Predict(x []float64) int {
	c.got = x
	return c.class
}

// fakePredictor counts pipeline invocations for poller tests.
type fakePredictor struct {
	calls int
	err   error
	last  model.SensorReading
}

func (f *fakePredictor) Predict(_ context.Context, r model.SensorReading) (model.PredictionResult, error) {
	f.calls++
	f.last = r
	if f.err != nil {
		return model.PredictionResult{}, f.err
	}
	return model.PredictionResult{IrrigationClass: 1, Timestamp: time.Now()}, nil
}

func testArtifacts(clf mlmodel.Classifier) *mlmodel.Artifacts {
	mean := make([]float64, 14)
	scale := make([]float64, 14)
	for i := range scale {
		scale[i] = 1
	}
	return &mlmodel.Artifacts{
		Model:  clf,
		Scaler: &mlmodel.StandardScaler{Mean: mean, Scale: scale},
		Encoders: map[string]*mlmodel.LabelEncoder{
			"district": mlmodel.NewLabelEncoder([]string{"Chennai", "Coimbatore", "Madurai"}),
			"zone":     mlmodel.NewLabelEncoder([]string{"Eastern Zone", "Southern Zone", "Western Zone"}),
			"season":   mlmodel.NewLabelEncoder([]string{"northeast_monsoon", "southwest_monsoon", "summer"}),
		},
	}
}

var testClock = func() time.Time {
	return time.Date(2026, time.August, 23, 14, 0, 0, 0, time.UTC)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
