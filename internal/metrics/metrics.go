// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deckforge"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of deck generations by outcome",
		},
		[]string{"status"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "End-to-end deck generation duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	DeckSlides = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "deck",
			Name:      "slides",
			Help:      "Number of slides per generated deck",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 15},
		},
	)

	LLMCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_total",
			Help:      "Total number of LLM calls",
		},
		[]string{"provider", "model", "status"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call duration in seconds",
			Buckets:   []float64{.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens used for LLM calls",
		},
		[]string{"provider", "model", "type"}, // type: prompt/completion
	)
)

// RecordLLMCall records one LLM call outcome.
func RecordLLMCall(provider, model string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMCallTotal.WithLabelValues(provider, model, status).Inc()
	LLMCallDuration.WithLabelValues(provider, model).Observe(seconds)
}

// RecordTokens adds prompt and completion token counts.
func RecordTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		LLMTokensUsed.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		LLMTokensUsed.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}

// RecordGeneration records one generation request outcome.
func RecordGeneration(status string, seconds float64) {
	GenerationTotal.WithLabelValues(status).Inc()
	GenerationDuration.Observe(seconds)
}
