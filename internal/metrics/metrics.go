// Package metrics exposes Prometheus counters for generation and history.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PasswordsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "passgen_passwords_generated_total",
			Help: "Total number of passwords generated",
		},
	)

	GenerateErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passgen_generate_errors_total",
			Help: "Total number of rejected generation requests by reason",
		},
		[]string{"reason"},
	)

	HistoryStorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "passgen_history_storage_errors_total",
			Help: "Total number of history storage failures by operation",
		},
		[]string{"op"},
	)

	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "passgen_history_entries",
			Help: "Number of entries currently held in the password history",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
