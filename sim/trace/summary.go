package trace

import "fmt"

// OutcomeSelf marks a received record dropped as self-originated.
const OutcomeSelf = "self"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSent      int
	TotalReceived  int // excludes suppressed own messages
	Suppressed     int
	Duplicates     int
	Reactions      int
	UniqueHazards  int            // distinct (originating station, sequence) pairs sent
	SentByEvent    map[string]int // "cause/subcause" → count
	SentByStation  map[uint32]int
	ReceivedByPeer map[uint32]int // receiving station → accepted count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		SentByEvent:    make(map[string]int),
		SentByStation:  make(map[uint32]int),
		ReceivedByPeer: make(map[uint32]int),
	}
	if st == nil {
		return summary
	}

	type hazardKey struct{ station, seq uint32 }
	hazards := make(map[hazardKey]bool)
	for _, s := range st.Sent {
		summary.TotalSent++
		summary.SentByEvent[EventLabel(s.CauseCode, s.SubCauseCode)]++
		summary.SentByStation[s.Station]++
		hazards[hazardKey{s.OriginatingStation, s.SequenceNumber}] = true
	}
	summary.UniqueHazards = len(hazards)

	for _, r := range st.Received {
		switch r.Outcome {
		case OutcomeSelf:
			summary.Suppressed++
			continue
		case "duplicate":
			summary.Duplicates++
		}
		summary.TotalReceived++
		summary.ReceivedByPeer[r.Station]++
	}
	summary.Reactions = len(st.Reactions)
	return summary
}

// EventLabel formats a cause/subcause pair as used in SentByEvent.
func EventLabel(cause, sub uint8) string {
	return fmt.Sprintf("%d/%d", cause, sub)
}
