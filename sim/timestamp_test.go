package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTimestampIts_Epoch(t *testing.T) {
	assert.Equal(t, TimestampIts(0), NewTimestampIts(ItsEpoch))
	assert.Equal(t, TimestampIts(1500), NewTimestampIts(ItsEpoch.Add(1500*time.Millisecond)))
}

func TestNewTimestampIts_RoundTrip(t *testing.T) {
	at := time.Date(2024, time.March, 1, 8, 30, 15, 250*int(time.Millisecond), time.UTC)
	assert.True(t, at.Equal(NewTimestampIts(at).Time()))
}

func TestNewTimestampIts_PanicsOutsideRange(t *testing.T) {
	assert.Panics(t, func() { NewTimestampIts(ItsEpoch.Add(-time.Millisecond)) })

	last := MaxTimestampIts.Time()
	assert.NotPanics(t, func() { NewTimestampIts(last) })
	assert.Panics(t, func() { NewTimestampIts(last.Add(time.Millisecond)) })
}

func TestTimestampIts_AddSeconds(t *testing.T) {
	assert.Equal(t, TimestampIts(21000), TimestampIts(1000).AddSeconds(20))
}

func TestTimer_MapsTicksToWallClock(t *testing.T) {
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	timer := NewTimer(start)

	assert.Equal(t, start, timer.Time(0))
	assert.Equal(t, start.Add(2500*time.Millisecond), timer.Time(Ticks(2500*time.Millisecond)))
	assert.Equal(t, NewTimestampIts(start)+2500, timer.TimestampIts(Ticks(2500*time.Millisecond)))
	assert.Equal(t, 3*time.Second, TicksToDuration(Ticks(3*time.Second)))
}
