package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func TestRecordWebhookEvent(t *testing.T) {
	m := getTestMetrics()

	m.RecordWebhookEvent("facebook", "add")
	m.RecordWebhookEvent("facebook", "add")
	m.RecordWebhookEvent("instagram", "add")

	counter, err := m.WebhookEventsTotal.GetMetricWithLabelValues("facebook", "add")
	if err != nil {
		t.Fatalf("failed to get counter: %v", err)
	}
	if v := getCounterValue(t, counter); v != 2 {
		t.Errorf("facebook/add count = %f, want 2", v)
	}
}

func TestRecordReconcileOutcome(t *testing.T) {
	m := getTestMetrics()

	for _, outcome := range []string{"inserted", "duplicate", "edited", "deleted", "hidden", "not_found"} {
		m.RecordReconcileOutcome("facebook", outcome)
	}

	counter, err := m.ReconcileOutcomesTotal.GetMetricWithLabelValues("facebook", "duplicate")
	if err != nil {
		t.Fatalf("failed to get counter: %v", err)
	}
	if v := getCounterValue(t, counter); v != 1 {
		t.Errorf("duplicate count = %f, want 1", v)
	}
}

func TestSetCommentsTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero comments", 0},
		{"one comment", 1},
		{"many comments", 42000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetCommentsTotal(tt.count)
			if v := getGaugeValue(t, m.CommentsTotal); v != float64(tt.count) {
				t.Errorf("gauge = %f, want %d", v, tt.count)
			}
		})
	}
}

func TestSetPendingRepliesTotal(t *testing.T) {
	m := getTestMetrics()

	m.SetPendingRepliesTotal(7)
	if v := getGaugeValue(t, m.PendingRepliesTotal); v != 7 {
		t.Errorf("gauge = %f, want 7", v)
	}

	m.SetPendingRepliesTotal(0)
	if v := getGaugeValue(t, m.PendingRepliesTotal); v != 0 {
		t.Errorf("gauge = %f, want 0 after drain", v)
	}
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
