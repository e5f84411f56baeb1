package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "enumchecker_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "enumchecker_analysis_seconds",
		Help:    "Time spent on analysis phases.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	FilesAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enumchecker_files_analyzed",
		Help: "Number of files covered by the most recent run.",
	})

	EnumDefinitions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "enumchecker_enum_definitions",
		Help: "Number of enum definitions collected in the most recent run.",
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enumchecker_diagnostics_total",
		Help: "Diagnostics emitted, by kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enumchecker_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enumchecker_runs_total",
		Help: "Total number of completed analysis runs.",
	})
)
