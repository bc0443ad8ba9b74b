package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/connpool"
	"github.com/yuku/connpool/metrics"
)

type staticStats connpool.Stats

func (s staticStats) Stats() connpool.Stats { return connpool.Stats(s) }

func gather(t *testing.T, c prometheus.Collector) map[string]*dto.Metric {
	t.Helper()

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.Metric, len(families))
	for _, mf := range families {
		require.Len(t, mf.GetMetric(), 1, mf.GetName())
		out[mf.GetName()] = mf.GetMetric()[0]
	}
	return out
}

func TestCollector(t *testing.T) {
	c := metrics.NewCollector(staticStats{
		Idle:           7,
		GrowthCount:    2,
		MaxGrowths:     5,
		BatchSize:      10,
		Created:        20,
		CreateFailures: 1,
		Borrowed:       30,
		Recycled:       17,
		Destroyed:      3,
		Exhausted:      4,
		Resets:         1,
	}, "primary")

	got := gather(t, c)
	require.Len(t, got, 10)

	gauges := map[string]float64{
		"connpool_idle_connections": 7,
		"connpool_growth_count":     2,
		"connpool_max_connections":  50,
	}
	for name, want := range gauges {
		m := got[name]
		require.NotNilf(t, m, "missing %s", name)
		assert.Equalf(t, want, m.GetGauge().GetValue(), name)
	}

	counters := map[string]float64{
		"connpool_connections_created_total":   20,
		"connpool_connection_failures_total":   1,
		"connpool_borrows_total":               30,
		"connpool_recycles_total":              17,
		"connpool_connections_destroyed_total": 3,
		"connpool_exhausted_total":             4,
		"connpool_resets_total":                1,
	}
	for name, want := range counters {
		m := got[name]
		require.NotNilf(t, m, "missing %s", name)
		assert.Equalf(t, want, m.GetCounter().GetValue(), name)
	}

	label := got["connpool_borrows_total"].GetLabel()
	require.Len(t, label, 1)
	assert.Equal(t, "pool", label[0].GetName())
	assert.Equal(t, "primary", label[0].GetValue())
}

func TestCollector_TwoPools(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector(staticStats{Idle: 1}, "a")))
	require.NoError(t, reg.Register(metrics.NewCollector(staticStats{Idle: 2}, "b")))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.Lenf(t, mf.GetMetric(), 2, mf.GetName())
	}
}
