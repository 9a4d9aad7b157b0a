package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(ingestSubmissionsTotal, ingestTasksFinishedTotal, ingestPollErrorsTotal) }

var ingestSubmissionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ingest_submissions_total",
		Help: "URL submissions accepted by the gateway, labeled by provider.",
	},
	[]string{"provider"},
)

var ingestTasksFinishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ingest_tasks_finished_total",
		Help: "Tracked ingestion tasks that reached a terminal status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var ingestPollErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "ingest_poll_errors_total",
		Help: "Status lookups that failed and were retried on a later tick.",
	},
)

func IncSubmission(provider string) {
	ingestSubmissionsTotal.WithLabelValues(norm(provider)).Inc()
}

func IncTaskFinished(status string) {
	ingestTasksFinishedTotal.WithLabelValues(norm(status)).Inc()
}

func IncPollError() { ingestPollErrorsTotal.Inc() }
