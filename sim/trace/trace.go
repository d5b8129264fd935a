package trace

// TraceLevel controls the verbosity of message tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelMessages captures every sent and received DENM and every reaction.
	TraceLevelMessages TraceLevel = "messages"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelMessages: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects message records during a run.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Config    TraceConfig
	Sent      []SentRecord
	Received  []ReceivedRecord
	Reactions []ReactionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Sent:      make([]SentRecord, 0),
		Received:  make([]ReceivedRecord, 0),
		Reactions: make([]ReactionRecord, 0),
	}
}

func (st *SimulationTrace) enabled() bool {
	return st != nil && st.Config.Level == TraceLevelMessages
}

// RecordSent appends a sent message record.
func (st *SimulationTrace) RecordSent(record SentRecord) {
	if st.enabled() {
		st.Sent = append(st.Sent, record)
	}
}

// RecordReceived appends a received message record.
func (st *SimulationTrace) RecordReceived(record ReceivedRecord) {
	if st.enabled() {
		st.Received = append(st.Received, record)
	}
}

// RecordReaction appends a reaction record.
func (st *SimulationTrace) RecordReaction(record ReactionRecord) {
	if st.enabled() {
		st.Reactions = append(st.Reactions, record)
	}
}
