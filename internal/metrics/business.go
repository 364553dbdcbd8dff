package metrics

// RecordWebhookEvent counts a received webhook event by platform and action
func (m *Metrics) RecordWebhookEvent(platform, action string) {
	m.safeExecute("RecordWebhookEvent", func() {
		m.WebhookEventsTotal.WithLabelValues(platform, action).Inc()
	})
}

// RecordReconcileOutcome counts a reconciliation outcome
// (inserted, duplicate, edited, deleted, hidden, not_found, error)
func (m *Metrics) RecordReconcileOutcome(platform, outcome string) {
	m.safeExecute("RecordReconcileOutcome", func() {
		m.ReconcileOutcomesTotal.WithLabelValues(platform, outcome).Inc()
	})
}

// RecordAutoReply counts an auto-reply dispatch attempt (sent, failed)
func (m *Metrics) RecordAutoReply(platform, result string) {
	m.safeExecute("RecordAutoReply", func() {
		m.AutoRepliesTotal.WithLabelValues(platform, result).Inc()
	})
}

// RecordRescan counts a post rescan (completed, skipped, error)
func (m *Metrics) RecordRescan(platform, result string) {
	m.safeExecute("RecordRescan", func() {
		m.RescansTotal.WithLabelValues(platform, result).Inc()
	})
}

// SetCommentsTotal sets the stored comments gauge
func (m *Metrics) SetCommentsTotal(count int64) {
	m.safeExecute("SetCommentsTotal", func() {
		m.CommentsTotal.Set(float64(count))
	})
}

// SetPendingRepliesTotal sets the pending scheduled replies gauge
func (m *Metrics) SetPendingRepliesTotal(count int64) {
	m.safeExecute("SetPendingRepliesTotal", func() {
		m.PendingRepliesTotal.Set(float64(count))
	})
}
