package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTurn(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveTurn("book_service", "ok", 0.05)
	m.ObserveTurn("book_service", "ok", 0.10)
	m.ObserveTurn("cancel_booking", "error", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("book_service", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("cancel_booking", "error")))
}

func TestDispatchGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.DispatchStarted()
	m.DispatchStarted()
	m.DispatchFinished()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queueDepth))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ChatMetrics
	require.NotPanics(t, func() {
		m.ObserveTurn("x", "ok", 0.1)
		m.DispatchStarted()
		m.DispatchFinished()
	})
}
