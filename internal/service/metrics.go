package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outcomeRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startup_sim_outcome_repairs_total",
			Help: "Total number of repairs applied to malformed oracle output, by rule.",
		},
		[]string{"rule"},
	)
	monthAdvancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startup_sim_month_advances_total",
			Help: "Total number of month advances, by context and status.",
		},
		[]string{"context", "status"}, // context: main, sandbox
	)
	surpriseEventsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startup_sim_surprise_events_triggered_total",
			Help: "Total number of surprise events triggered, by type.",
		},
		[]string{"type"},
	)
)

func metricsIncrementRepair(rule string) {
	outcomeRepairsTotal.With(prometheus.Labels{"rule": rule}).Inc()
}

func metricsIncrementAdvance(context, status string) {
	monthAdvancesTotal.With(prometheus.Labels{"context": context, "status": status}).Inc()
}

func metricsIncrementSurpriseEvent(eventType string) {
	surpriseEventsTriggered.With(prometheus.Labels{"type": eventType}).Inc()
}
