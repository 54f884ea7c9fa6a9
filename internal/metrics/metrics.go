package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_provider_calls_total",
			Help: "Total number of intelligence provider calls",
		},
		[]string{"provider", "call", "outcome"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scout_provider_call_duration_seconds",
			Help:    "Duration of intelligence provider calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "call"},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_searches_total",
			Help: "Total number of lead and job searches by outcome",
		},
		[]string{"segment", "outcome"},
	)

	NormalizerRepairs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scout_normalizer_repairs_total",
			Help: "Provider responses recovered only after tail repair",
		},
	)

	NormalizerMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scout_normalizer_misses_total",
			Help: "Provider responses that yielded no record array",
		},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_records_dropped_total",
			Help: "Records discarded at the mapping boundary",
		},
		[]string{"kind", "reason"},
	)

	PipelineMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_pipeline_mutations_total",
			Help: "Pipeline store mutations by operation",
		},
		[]string{"op"},
	)

	PipelineSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scout_pipeline_size",
			Help: "Number of entries held by the pipeline store",
		},
		[]string{"collection"},
	)
)
