package sim

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics bundles the Prometheus collectors of the dissemination engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Sent          *prometheus.CounterVec
	Received      *prometheus.CounterVec
	Suppressed    *prometheus.CounterVec
	Expired       *prometheus.CounterVec
	MemoryRecords *prometheus.GaugeVec
}

// NewMetrics registers the engine metrics against reg, defaulting to the global
// Prometheus registry when nil. Registering twice on the same registry reuses the
// existing collectors, so every station of a run can share one Metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	sent, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "denm_sent_total",
		Help: "DENMs handed to the transport, labeled by station, use case and cause code.",
	}, []string{"station", "use_case", "cause"}), "denm_sent_total")
	if err != nil {
		return nil, err
	}
	received, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "denm_received_total",
		Help: "Accepted inbound DENMs, labeled by station and memory upsert outcome.",
	}, []string{"station", "outcome"}), "denm_received_total")
	if err != nil {
		return nil, err
	}
	suppressed, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "denm_suppressed_total",
		Help: "Inbound DENMs dropped because the local station originated them.",
	}, []string{"station"}), "denm_suppressed_total")
	if err != nil {
		return nil, err
	}
	expired, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "denm_expired_total",
		Help: "Memory records removed because their validity elapsed.",
	}, []string{"station"}), "denm_expired_total")
	if err != nil {
		return nil, err
	}
	records, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "den_memory_records",
		Help: "Current number of records in the DEN memory.",
	}, []string{"station"}), "den_memory_records")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:      gatherer,
		Sent:          sent,
		Received:      received,
		Suppressed:    suppressed,
		Expired:       expired,
		MemoryRecords: records,
	}, nil
}

// Gather collects the current metric families.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	if m == nil || m.gatherer == nil {
		return nil, nil
	}
	return m.gatherer.Gather()
}

func (m *Metrics) recordSent(station StationID, useCase string, cause CauseCode) {
	if m == nil {
		return
	}
	m.Sent.WithLabelValues(stationLabel(station), useCase, strconv.Itoa(int(cause))).Inc()
}

func (m *Metrics) recordReceived(station StationID, outcome UpsertOutcome) {
	if m == nil {
		return
	}
	m.Received.WithLabelValues(stationLabel(station), outcome.String()).Inc()
}

func (m *Metrics) recordSuppressed(station StationID) {
	if m == nil {
		return
	}
	m.Suppressed.WithLabelValues(stationLabel(station)).Inc()
}

func (m *Metrics) recordMemory(station StationID, expired, records int) {
	if m == nil {
		return
	}
	if expired > 0 {
		m.Expired.WithLabelValues(stationLabel(station)).Add(float64(expired))
	}
	m.MemoryRecords.WithLabelValues(stationLabel(station)).Set(float64(records))
}

func stationLabel(id StationID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
