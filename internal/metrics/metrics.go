package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailer_emails_sent_total",
			Help: "Total emails delivered successfully",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailer_email_failures_total",
			Help: "Total failed delivery attempts",
		},
	)

	QueuePasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailer_queue_passes_total",
			Help: "Total email queue processing passes",
		},
	)
)

func Init() {
	prometheus.MustRegister(EmailsSent, EmailFailures, QueuePasses)
}
