package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_events_ingested_total",
			Help: "Total number of events read from input",
		},
		[]string{"source"},
	)

	EventsQuarantined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_events_quarantined_total",
			Help: "Total number of events with malformed timestamps retained unsessioned",
		},
	)

	EventsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_events_scored_total",
			Help: "Total number of events scored, by final risk level",
		},
		[]string{"level"},
	)

	DetectorHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_detector_hits_total",
			Help: "Total number of pattern detector escalations, by detector",
		},
		[]string{"detector"},
	)

	CorrelationMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_correlation_matches_total",
			Help: "Total number of matched change/access event pairs",
		},
	)

	CorrelationResidue = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argus_correlation_residue_total",
			Help: "Total number of unmatched events after correlation, by stream",
		},
		[]string{"stream"},
	)

	SessionsFormed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "argus_sessions_formed_total",
			Help: "Total number of sessions formed",
		},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "argus_analysis_duration_seconds",
			Help:    "Time taken to run a full analysis",
			Buckets: prometheus.DefBuckets,
		},
	)
)
