package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_BusinessCounters(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.IncTransition("approve")
	m.IncTransition("approve")
	m.IncCapacityDenied("booking")
	m.IncSideEffectFailure("notify")
	m.IncRefundRequest()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentTransitions.WithLabelValues("approve")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapacityDenied.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("notify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefundRequestsCreated))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncTransition("cancel")
		m.IncCapacityDenied("approve")
		m.IncSideEffectFailure("audit")
		m.IncRefundRequest()
		m.IncReminderSent()
		m.IncTxRetry()
	})
}
