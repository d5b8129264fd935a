// Package trace records hazard message traffic for post-run analysis.
// This package has no dependencies on sim/ or sim/cluster/; it stores pure data types.
package trace

// SentRecord captures one DENM handed to the transport.
type SentRecord struct {
	Station            uint32
	UseCase            string
	Clock              int64
	OriginatingStation uint32
	SequenceNumber     uint32
	CauseCode          uint8
	SubCauseCode       uint8
	Radius             float64 // destination circle radius in meters
	FixedLength        int
}

// ReceivedRecord captures one inbound DENM at a station.
// Outcome is the memory upsert outcome, or "self" for suppressed own messages.
type ReceivedRecord struct {
	Station            uint32
	Clock              int64
	Sender             uint32
	OriginatingStation uint32
	SequenceNumber     uint32
	CauseCode          uint8
	SubCauseCode       uint8
	Outcome            string
}

// ReactionRecord captures a side effect triggered by a reactive use case.
type ReactionRecord struct {
	Station uint32
	Clock   int64
	Kind    string  // e.g. "slow-down"
	Value   float64 // target value of the reaction (m/s for slow-down)
}
