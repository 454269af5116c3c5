package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pricePerMillionInputTokensUSD  = 0.1 // price per 1M input tokens in USD
	pricePerMillionOutputTokensUSD = 0.4 // price per 1M output tokens in USD
)

var (
	oracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startup_sim_oracle_requests_total",
			Help: "Total number of requests to the scenario oracle backend.",
		},
		[]string{"model", "kind", "status"}, // kind: initialize, month, advisor
	)
	oracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "startup_sim_oracle_request_duration_seconds",
			Help:    "Histogram of scenario oracle request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "kind"},
	)
	oraclePromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "startup_sim_oracle_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	oracleCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "startup_sim_oracle_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
	oracleEstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startup_sim_oracle_estimated_cost_usd_total",
			Help: "Estimated total cost of oracle requests in USD.",
		},
		[]string{"model"},
	)
)

// calculateCost estimates the request cost from token counts.
func calculateCost(promptTokens, completionTokens int) float64 {
	inputCost := float64(promptTokens) * pricePerMillionInputTokensUSD / 1_000_000.0
	outputCost := float64(completionTokens) * pricePerMillionOutputTokensUSD / 1_000_000.0
	return inputCost + outputCost
}
