package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrace_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worktrace_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	timerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrace_timer_transitions_total",
		Help: "Timer lifecycle transitions by event and result",
	}, []string{"event", "result"})

	ledgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worktrace_ledger_entries_total",
		Help: "Client ledger entries recorded by type",
	}, []string{"entry_type"})

	overlapRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worktrace_time_entry_overlap_rejections_total",
		Help: "Time entries rejected because they overlap an existing entry",
	})

	accountSummaries = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "worktrace_account_summary_duration_seconds",
		Help:    "Duration of client account summary computations",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ObserveTimerTransition(event, result string) {
	timerTransitions.WithLabelValues(event, result).Inc()
}

func ObserveLedgerEntry(entryType string) {
	ledgerEntries.WithLabelValues(entryType).Inc()
}

func ObserveOverlapRejection() {
	overlapRejections.Inc()
}

func ObserveAccountSummary(duration time.Duration) {
	accountSummaries.Observe(duration.Seconds())
}
