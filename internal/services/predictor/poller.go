package predictor

import (
	"context"
	"log"
	"reflect"
	"time"

	"github.com/agri-hub/irrigation-backend/internal/model"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultMaxPollErrors = 5
)

// Predictor is the pipeline as the poller sees it.
type Predictor interface {
	Predict(ctx context.Context, r model.SensorReading) (model.PredictionResult, error)
}

// Poller watches the sensor node for changes and feeds complete snapshots to
// the pipeline. Its state (last processed snapshot, consecutive error count)
// is owned by the single Run goroutine and never touched from elsewhere.
type Poller struct {
	store     statestore.Store
	pipeline  Predictor
	interval  time.Duration
	maxErrors int
	logger    *log.Logger

	lastProcessed model.Snapshot
	errCount      int
}

func NewPoller(store statestore.Store, pipeline Predictor, interval time.Duration, maxErrors int, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxErrors <= 0 {
		maxErrors = defaultMaxPollErrors
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		store:     store,
		pipeline:  pipeline,
		interval:  interval,
		maxErrors: maxErrors,
		logger:    logger,
	}
}

// Run polls until the context is cancelled or maxErrors consecutive store
// read failures occur (fail-stop; restarting is the supervisor's call).
func (p *Poller) Run(ctx context.Context) {
	p.logger.Printf("poller: starting, interval=%s", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if stop := p.cycle(ctx); stop {
			p.logger.Printf("poller: %d consecutive errors, stopping monitor", p.maxErrors)
			return
		}
		select {
		case <-ctx.Done():
			p.logger.Printf("poller: stopped: %v", ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// cycle is one poll iteration. It reports whether the fail-stop ceiling was
// reached.
func (p *Poller) cycle(ctx context.Context) bool {
	pollCycles.Inc()

	node, err := p.store.Get(ctx, statestore.PathSensorData)
	if err != nil {
		p.errCount++
		storeReadFailures.Inc()
		p.logger.Printf("poller: sensor read error (attempt %d/%d): %v", p.errCount, p.maxErrors, err)
		return p.errCount >= p.maxErrors
	}
	p.errCount = 0

	if node == nil {
		p.logger.Printf("poller: no sensor data at %s", statestore.PathSensorData)
		return false
	}
	raw, ok := node.(map[string]any)
	if !ok {
		p.logger.Printf("poller: sensor node is not an object (%T), skipping", node)
		return false
	}

	snap := sensorOnly(raw)
	if !p.changed(snap) {
		return false
	}
	p.logger.Printf("poller: change detected, previous=%v current=%v", p.lastProcessed, snap)

	// Incomplete or malformed snapshots are skipped without marking them
	// processed; they are retried every interval until they change or heal.
	if missing := snap.MissingFields(); len(missing) > 0 {
		p.logger.Printf("poller: snapshot missing required fields %v, skipping", missing)
		return false
	}
	reading, err := model.ReadingFromSnapshot(snap)
	if err != nil {
		p.logger.Printf("poller: bad sensor values: %v", err)
		return false
	}

	if _, err := p.pipeline.Predict(ctx, reading); err != nil {
		p.logger.Printf("poller: prediction error: %v", err)
	}
	// Processed even on pipeline error: a snapshot the model cannot handle
	// must not be reclassified every interval.
	p.lastProcessed = snap.Clone()
	return false
}

func (p *Poller) changed(snap model.Snapshot) bool {
	if p.lastProcessed == nil {
		return true
	}
	return !reflect.DeepEqual(snap, p.lastProcessed)
}

// sensorOnly strips the children this service writes itself, so its own
// prediction writes do not read back as upstream changes.
func sensorOnly(raw map[string]any) model.Snapshot {
	snap := make(model.Snapshot, len(raw))
	for k, v := range raw {
		if k == statestore.NodePredictionClass || k == statestore.NodeLastPredictionTime {
			continue
		}
		snap[k] = v
	}
	return snap
}
