package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_version_snapshots_total",
			Help: "Version snapshots appended by trigger kind",
		},
		[]string{"trigger"},
	)

	versionConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_version_conflict_retries_total",
			Help: "Snapshot retries caused by version number collisions",
		},
	)

	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook deliveries by final status",
		},
		[]string{"status"},
	)
)

// Snapshot trigger kinds
const (
	TriggerCreate = "create"
	TriggerUpdate = "update"
	TriggerRevert = "revert"
)

// CountSnapshot records one appended version snapshot
func CountSnapshot(trigger string) {
	versionSnapshots.WithLabelValues(trigger).Inc()
}

// CountConflictRetry records one snapshot retry after a version collision
func CountConflictRetry() {
	versionConflictRetries.Inc()
}

// CountWebhookDelivery records one finished delivery by status
func CountWebhookDelivery(status string) {
	webhookDeliveries.WithLabelValues(status).Inc()
}
