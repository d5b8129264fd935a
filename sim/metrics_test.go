package sim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_ReusesCollectorsOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.recordSent(1, "controlled", CauseTrafficCondition)
	second.recordSent(1, "controlled", CauseTrafficCondition)

	assert.Same(t, first.Sent, second.Sent)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.Sent.WithLabelValues("1", "controlled", "1")))
}

func TestNewMetrics_IncompatibleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "denm_sent_total",
		Help: "DENMs handed to the transport, labeled by station, use case and cause code.",
	}, []string{"station", "use_case", "cause"}))

	_, err := NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.recordSent(1, "x", CauseRoadworks)
		m.recordReceived(1, UpsertInserted)
		m.recordSuppressed(1)
		m.recordMemory(1, 3, 4)
	})
	families, err := m.Gather()
	assert.NoError(t, err)
	assert.Nil(t, families)
}

func TestMetrics_MemoryGaugeAndExpiry(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.recordMemory(4, 0, 3)
	m.recordMemory(4, 2, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MemoryRecords.WithLabelValues("4")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Expired.WithLabelValues("4")))

	families, err := m.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "den_memory_records")
	assert.Contains(t, names, "denm_expired_total")
}
