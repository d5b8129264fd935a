package sim

import (
	"reflect"
	"sort"
)

// HazardRecord is the Memory's entry for one ActionID.
type HazardRecord struct {
	ActionID         ActionID
	CauseCode        CauseCode
	SubCauseCode     SubCauseCode
	DetectionTime    TimestampIts
	ReferenceTime    TimestampIts
	ValidityDuration uint32    // seconds
	OriginPosition   *GeoPoint // nil when the message carries no usable position
	Terminated       bool      // cancelled or negated by its originator
	Payload          *Denm
}

// NewHazardRecord extracts the record fields from msg.
func NewHazardRecord(msg *Denm) HazardRecord {
	event := msg.EventType()
	pos := DecodeReferencePosition(msg.Management.EventPosition)
	return HazardRecord{
		ActionID:         msg.Management.ActionID,
		CauseCode:        event.CauseCode,
		SubCauseCode:     event.SubCauseCode,
		DetectionTime:    msg.Management.DetectionTime,
		ReferenceTime:    msg.Management.ReferenceTime,
		ValidityDuration: msg.Management.Validity(),
		OriginPosition:   pos,
		Terminated:       msg.Management.Termination != nil,
		Payload:          msg,
	}
}

// ExpiresAt is the first instant at which the record is no longer valid.
func (r HazardRecord) ExpiresAt() TimestampIts {
	return r.DetectionTime.AddSeconds(r.ValidityDuration)
}

// UpsertOutcome tells the caller what an Upsert did.
type UpsertOutcome int

const (
	// UpsertInserted means the ActionID was not present before.
	UpsertInserted UpsertOutcome = iota
	// UpsertReplaced means an existing record was overwritten with different content.
	UpsertReplaced
	// UpsertDuplicate means an identical record was already present.
	UpsertDuplicate
)

// String returns the metric label for the outcome.
func (o UpsertOutcome) String() string {
	switch o {
	case UpsertInserted:
		return "inserted"
	case UpsertReplaced:
		return "replaced"
	case UpsertDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// MemoryView is the read-only side of Memory handed to use cases.
type MemoryView interface {
	Lookup(id ActionID) (HazardRecord, bool)
	Len() int
	Count(cause CauseCode) int
	Records() []HazardRecord
}

// Memory keeps one HazardRecord per received ActionID and drops records once
// their validity has elapsed.
//
// Thread-safety: NOT thread-safe. DenService is the single writer.
type Memory struct {
	records map[ActionID]HazardRecord
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{records: make(map[ActionID]HazardRecord)}
}

// Upsert inserts record, or replaces the record with the same ActionID.
// Never fails.
func (m *Memory) Upsert(record HazardRecord) UpsertOutcome {
	old, exists := m.records[record.ActionID]
	m.records[record.ActionID] = record
	switch {
	case !exists:
		return UpsertInserted
	case reflect.DeepEqual(old, record):
		return UpsertDuplicate
	default:
		return UpsertReplaced
	}
}

// Sweep removes every record with DetectionTime + ValidityDuration <= now.
// Returns the number of removed records.
func (m *Memory) Sweep(now TimestampIts) int {
	removed := 0
	for id, rec := range m.records {
		if rec.ExpiresAt() <= now {
			delete(m.records, id)
			removed++
		}
	}
	return removed
}

// Lookup returns the record for id.
func (m *Memory) Lookup(id ActionID) (HazardRecord, bool) {
	rec, ok := m.records[id]
	return rec, ok
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	return len(m.records)
}

// Count returns the number of live (not terminated) records with the given cause.
func (m *Memory) Count(cause CauseCode) int {
	n := 0
	for _, rec := range m.records {
		if rec.CauseCode == cause && !rec.Terminated {
			n++
		}
	}
	return n
}

// Records returns a copy of all records ordered by ActionID.
func (m *Memory) Records() []HazardRecord {
	out := make([]HazardRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ActionID.Less(out[j].ActionID)
	})
	return out
}
