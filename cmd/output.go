package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/common/expfmt"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/trace"
)

// printSummary writes the run summary in the same plain layout as the trace records.
func printSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Dissemination Summary ===")
	fmt.Fprintf(w, "Sent:          %d (%d distinct hazards)\n", summary.TotalSent, summary.UniqueHazards)
	fmt.Fprintf(w, "Received:      %d (%d duplicates)\n", summary.TotalReceived, summary.Duplicates)
	fmt.Fprintf(w, "Self-dropped:  %d\n", summary.Suppressed)
	fmt.Fprintf(w, "Reactions:     %d\n", summary.Reactions)

	events := make([]string, 0, len(summary.SentByEvent))
	for label := range summary.SentByEvent {
		events = append(events, label)
	}
	sort.Strings(events)
	for _, label := range events {
		fmt.Fprintf(w, "  event %-6s sent %d\n", label, summary.SentByEvent[label])
	}

	for _, id := range sortedKeys(summary.SentByStation) {
		fmt.Fprintf(w, "  station %-6d sent %d\n", id, summary.SentByStation[id])
	}
	for _, id := range sortedKeys(summary.ReceivedByPeer) {
		fmt.Fprintf(w, "  station %-6d received %d\n", id, summary.ReceivedByPeer[id])
	}
}

// printTrace writes one line per traced record.
func printTrace(w io.Writer, st *trace.SimulationTrace) {
	for _, r := range st.Sent {
		fmt.Fprintf(w, "%12d sent     station=%d use_case=%s action=%d/%d event=%s radius=%.0f\n",
			r.Clock, r.Station, r.UseCase, r.OriginatingStation, r.SequenceNumber,
			trace.EventLabel(r.CauseCode, r.SubCauseCode), r.Radius)
	}
	for _, r := range st.Received {
		fmt.Fprintf(w, "%12d received station=%d from=%d action=%d/%d event=%s outcome=%s\n",
			r.Clock, r.Station, r.Sender, r.OriginatingStation, r.SequenceNumber,
			trace.EventLabel(r.CauseCode, r.SubCauseCode), r.Outcome)
	}
	for _, r := range st.Reactions {
		fmt.Fprintf(w, "%12d reaction station=%d kind=%s value=%.2f\n", r.Clock, r.Station, r.Kind, r.Value)
	}
}

// writeMetrics dumps the gathered metric families in Prometheus text format.
func writeMetrics(path string, metrics *sim.Metrics) error {
	families, err := metrics.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func sortedKeys(m map[uint32]int) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
