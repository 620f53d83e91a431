// Package metrics exposes Prometheus collectors for the report pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message outcomes recorded by the report consumer.
const (
	OutcomeAck       = "ack"
	OutcomeNack      = "nack"
	OutcomeDuplicate = "duplicate"
)

var (
	// queuePublished counts reports handed to the broker.
	queuePublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "salesreport",
			Subsystem: "queue",
			Name:      "published_total",
			Help:      "Number of sales reports published to the report queue.",
		},
	)

	// queuePublishSkipped counts publish calls that did not reach the broker.
	// Labels:
	// - reason: "channel_unavailable" or "error"
	queuePublishSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesreport",
			Subsystem: "queue",
			Name:      "publish_skipped_total",
			Help:      "Number of sales reports that were not published.",
		},
		[]string{"reason"},
	)

	// queueMessages counts consumed messages by terminal outcome.
	// Labels:
	// - outcome: "ack", "nack" or "duplicate"
	queueMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salesreport",
			Subsystem: "queue",
			Name:      "messages_total",
			Help:      "Number of report messages consumed, by outcome.",
		},
		[]string{"outcome"},
	)

	// consumerState is 0 disconnected, 1 connecting, 2 consuming.
	consumerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "salesreport",
			Subsystem: "queue",
			Name:      "consumer_state",
			Help:      "Report consumer state (0 disconnected, 1 connecting, 2 consuming).",
		},
	)
)

// IncPublished increments the published reports counter.
func IncPublished() {
	queuePublished.Inc()
}

// IncPublishSkipped increments the skipped publish counter for reason.
func IncPublishSkipped(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	queuePublishSkipped.WithLabelValues(reason).Inc()
}

// IncMessage increments the consumed message counter for outcome.
func IncMessage(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	queueMessages.WithLabelValues(outcome).Inc()
}

// SetConsumerState records the current consumer state.
func SetConsumerState(state int) {
	consumerState.Set(float64(state))
}
