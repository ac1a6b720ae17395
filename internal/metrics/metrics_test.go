package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/florist/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ShopQueries.WithLabelValues(metrics.StatusSuccess).Inc()
	m.ShopQueries.WithLabelValues(metrics.StatusEmpty).Add(2)
	m.UpstreamErrors.WithLabelValues(metrics.APIOverpass).Inc()
	m.UpstreamSeconds.WithLabelValues(metrics.APIReverse).Observe(0.2)
	m.ActiveWorkers.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.ShopQueries.WithLabelValues(metrics.StatusSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ShopQueries.WithLabelValues(metrics.StatusEmpty)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues(metrics.APIOverpass)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ActiveWorkers), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)

	// Registering twice on the same registry must panic.
	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
