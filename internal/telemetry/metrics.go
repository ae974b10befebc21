package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики движка workflow.
var (
	// RunsTotal — количество завершённых запусков workflow по статусу.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncflow_runs_total",
		Help: "Total workflow runs by status (succeeded/failed)",
	}, []string{"status"})

	// RunDuration — длительность запусков workflow.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "syncflow_run_duration_seconds",
		Help:    "Wall-clock duration of workflow runs",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})

	// NodesTotal — количество узлов, достигших терминального состояния,
	// по типу узла и состоянию.
	NodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syncflow_nodes_total",
		Help: "Total node executions by node type and terminal state",
	}, []string{"type", "state"})

	// CacheHits — количество попаданий в кэш результатов.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflow_cache_hits_total",
		Help: "Total node executions served from the result cache",
	})
)
