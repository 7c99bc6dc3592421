package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_generator_ai_requests_total",
			Help: "Total number of requests to the text generation backend.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_generator_ai_request_duration_seconds",
			Help:    "Histogram of text generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_generator_ai_prompt_tokens",
			Help:    "Histogram of estimated prompt token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 20), // 50 .. 1000
		},
		[]string{"model"},
	)
	offlineFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_generator_offline_scenes_total",
			Help: "Scenes produced by the offline generator, by reason.",
		},
		[]string{"reason"},
	)
	parseOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_generator_parse_outcomes_total",
			Help: "Backend responses by parse outcome.",
		},
		[]string{"outcome"},
	)
)
