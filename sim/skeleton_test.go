package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedIDs always returns the same ActionID.
type fixedIDs ActionID

func (f fixedIDs) RequestActionID() ActionID { return ActionID(f) }

func TestBuildSkeleton_MandatoryFields(t *testing.T) {
	// GIVEN an allocator for station 11
	ids := NewActionIDAllocator(11)
	now := TimestampIts(123456)

	// WHEN two skeletons are built
	first := BuildSkeleton(11, StationTypeRoadSideUnit, ids, now)
	second := BuildSkeleton(11, StationTypeRoadSideUnit, ids, now+100)

	// THEN header, management and location containers are filled
	assert.Equal(t, Header{ProtocolVersion: ProtocolVersion, MessageID: MessageIDDenm, StationID: 11}, first.Header)
	assert.Equal(t, ActionID{OriginatingStationID: 11, SequenceNumber: 1}, first.Management.ActionID)
	assert.Equal(t, now, first.Management.DetectionTime)
	assert.Equal(t, now, first.Management.ReferenceTime)
	assert.Equal(t, StationTypeRoadSideUnit, first.Management.StationType)
	require.NotNil(t, first.Location)
	assert.Equal(t, SpeedValueUnavailable, first.Location.EventSpeed.Value)
	assert.Equal(t, HeadingValueUnavailable, first.Location.EventPositionHeading.Value)
	assert.Len(t, first.Location.Traces, 1)
	assert.Empty(t, first.Location.Traces[0])

	// AND each skeleton consumes a fresh ActionID
	assert.Equal(t, uint32(2), second.Management.ActionID.SequenceNumber)

	// AND scenario fields are left to the caller
	assert.Nil(t, first.Situation)
	assert.Nil(t, first.Alacarte)
	assert.Nil(t, first.Management.ValidityDuration)
}

func TestBuildSkeleton_Panics(t *testing.T) {
	assert.Panics(t, func() {
		BuildSkeleton(1, StationTypePassengerCar, NewActionIDAllocator(1), MaxTimestampIts+1)
	}, "detection time out of range")
	assert.Panics(t, func() {
		BuildSkeleton(1, StationTypePassengerCar, fixedIDs{OriginatingStationID: 1}, 0)
	}, "unset action id")
}
