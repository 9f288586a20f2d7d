// Package metrics registers the Prometheus instruments for the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesApplied counts expenses whose deltas were fully applied.
	ExpensesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_expenses_applied_total",
		Help: "Expenses successfully applied to the ledger.",
	})

	// InvalidSplits counts expense submissions rejected by validation.
	InvalidSplits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_invalid_splits_total",
		Help: "Expense submissions rejected for malformed splits.",
	})

	// DeltaRetries counts transient store failures that were retried.
	DeltaRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_ledger_delta_retries_total",
		Help: "Balance delta applications retried after a store error.",
	})

	// Rollbacks counts compensating rollbacks of partially applied batches.
	Rollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_ledger_rollbacks_total",
		Help: "Expense batches rolled back after an irrecoverable store error.",
	})

	// ApplyDuration observes end-to-end batch apply latency.
	ApplyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "divvy_ledger_apply_seconds",
		Help:    "Latency of applying one expense's delta batch.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
