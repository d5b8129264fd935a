package sim

import (
	"fmt"
	"time"
)

// ItsEpoch is the origin of TimestampIts: 2004-01-01T00:00:00 on the simulated TAI clock.
var ItsEpoch = time.Date(2004, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimestampItsBits is the protocol width of detection and reference times.
const TimestampItsBits = 42

// MaxTimestampIts is the largest representable TimestampIts.
const MaxTimestampIts TimestampIts = 1<<TimestampItsBits - 1

// TimestampIts counts milliseconds since ItsEpoch.
// Values never wrap: an instant outside [ItsEpoch, MaxTimestampIts] cannot be encoded.
type TimestampIts uint64

// NewTimestampIts encodes t.
// Panics if t precedes ItsEpoch or exceeds MaxTimestampIts.
func NewTimestampIts(t time.Time) TimestampIts {
	ms := t.Sub(ItsEpoch).Milliseconds()
	if ms < 0 {
		panic(fmt.Sprintf("NewTimestampIts: %s precedes ITS epoch", t.Format(time.RFC3339Nano)))
	}
	if TimestampIts(ms) > MaxTimestampIts {
		panic(fmt.Sprintf("NewTimestampIts: %s exceeds %d-bit range", t.Format(time.RFC3339Nano), TimestampItsBits))
	}
	return TimestampIts(ms)
}

// Time decodes the timestamp back to wall time.
func (ts TimestampIts) Time() time.Time {
	return ItsEpoch.Add(time.Duration(ts) * time.Millisecond)
}

// AddSeconds returns ts shifted by s seconds.
func (ts TimestampIts) AddSeconds(s uint32) TimestampIts {
	return ts + TimestampIts(s)*1000
}

// === Simulation clock ===

// Ticks converts a duration into simulation ticks (microseconds).
func Ticks(d time.Duration) int64 {
	return d.Microseconds()
}

// TicksToDuration converts simulation ticks back into a duration.
func TicksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks) * time.Microsecond
}

// Timer maps simulation ticks onto the simulated wall clock.
// Tick 0 corresponds to Start.
type Timer struct {
	Start time.Time
}

// NewTimer creates a Timer whose tick 0 is start.
func NewTimer(start time.Time) Timer {
	return Timer{Start: start}
}

// Time returns the wall time at the given tick.
func (t Timer) Time(clock int64) time.Time {
	return t.Start.Add(TicksToDuration(clock))
}

// TimestampIts encodes the given tick. Panics like NewTimestampIts.
func (t Timer) TimestampIts(clock int64) TimestampIts {
	return NewTimestampIts(t.Time(clock))
}
