package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "irrigation",
		Subsystem: "poller",
		Name:      "cycles_total",
		Help:      "Poll iterations executed.",
	})
	storeReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "irrigation",
		Subsystem: "poller",
		Name:      "store_read_failures_total",
		Help:      "Sensor node reads that failed.",
	})
	storeWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "irrigation",
		Subsystem: "pipeline",
		Name:      "store_write_failures_total",
		Help:      "Best-effort prediction writes that failed.",
	})
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "irrigation",
		Subsystem: "pipeline",
		Name:      "predictions_total",
		Help:      "Pipeline runs by outcome.",
	}, []string{"outcome"})
)
