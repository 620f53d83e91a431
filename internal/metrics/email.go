package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// emailSendSeconds observes mail provider latency.
// Labels:
// - provider: "resend", "smtp" or "mock"
// - status:   "success" or "failure"
var emailSendSeconds = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "salesreport",
		Subsystem: "email",
		Name:      "send_seconds",
		Help:      "Duration of email send calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "status"},
)

// ObserveEmailSend records the duration of one send call.
func ObserveEmailSend(provider, status string, seconds float64) {
	if provider == "" {
		provider = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	emailSendSeconds.WithLabelValues(provider, status).Observe(seconds)
}
