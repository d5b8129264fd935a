package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/hazard-sim/sim"
)

func newTestRsuRww(t *testing.T, mutate func(*RsuRwwLaneClosureParams)) *RsuRwwLaneClosure {
	t.Helper()
	params := DefaultRsuRwwLaneClosureParams()
	params.StartupJitter = CooldownRange{}
	params.ClosedLanes = []bool{true, false}
	if mutate != nil {
		mutate(&params)
	}
	u, err := NewRsuRwwLaneClosure(TypeRsuRwwLaneClosure, params)
	require.NoError(t, err)
	return u
}

func TestRsuRwwLaneClosure_SendsEveryInterval(t *testing.T) {
	// GIVEN a road side unit announcing roadworks every 2s without startup delay
	u := newTestRsuRww(t, func(p *RsuRwwLaneClosureParams) { p.Interval = 2 * time.Second })
	svc, out := newStation(t, stationOpts{id: 100, stationType: sim.StationTypeRoadSideUnit}, u)

	// WHEN it is triggered every 0.5s for 10s
	runTicks(svc, 500*time.Millisecond, 10*time.Second)

	// THEN it sends exactly at 2, 4, 6, 8 and 10 seconds
	require.Len(t, out.requests, 5)
	for i, req := range out.requests {
		msg := req.Payload
		assert.Equal(t, sim.EventType{CauseCode: sim.CauseRoadworks, SubCauseCode: sim.RoadworksShortTermStationaryRoadwork}, msg.EventType())
		assert.Equal(t, uint32(20), msg.Management.Validity())
		assert.Equal(t, sim.StationTypeRoadSideUnit, msg.Management.StationType)
		assert.Equal(t, uint32(i+1), msg.Management.ActionID.SequenceNumber)
		wantAt := sim.NewTimestampIts(testStart.Add(time.Duration(2*(i+1)) * time.Second))
		assert.Equal(t, wantAt, msg.Management.DetectionTime, "send %d", i)

		require.NotNil(t, msg.ClosedLanes())
		assert.Equal(t, []bool{true, false}, msg.ClosedLanes().DrivingLaneStatus)

		assert.Equal(t, 20, req.Destination.MessageRate)
		assert.Equal(t, 3, req.Destination.MessageCategory)
		assert.Equal(t, 1000.0, req.Destination.Area.Radius)
		assert.Equal(t, testPosition, req.Destination.Area.Center)
		assert.Equal(t, sim.PortDenm, req.DestinationPort)
		assert.Equal(t, sim.TransportTypeGBC, req.TransportType)
	}
}

func TestRsuRwwLaneClosure_StartupJitterDelaysFirstSend(t *testing.T) {
	u := newTestRsuRww(t, func(p *RsuRwwLaneClosureParams) {
		p.StartupJitter = CooldownRange{Min: 3 * time.Second, Max: 3 * time.Second}
	})
	svc, out := newStation(t, stationOpts{id: 100, stationType: sim.StationTypeRoadSideUnit}, u)

	runTicks(svc, 100*time.Millisecond, 3900*time.Millisecond)
	assert.Empty(t, out.requests)

	svc.Trigger(sim.Ticks(4 * time.Second))
	assert.Len(t, out.requests, 1)
}

func TestRsuRwwLaneClosure_ConfiguredEventPosition(t *testing.T) {
	roadworks := sim.GeoPoint{Latitude: 48.77, Longitude: 11.43}
	u := newTestRsuRww(t, func(p *RsuRwwLaneClosureParams) {
		p.Latitude = roadworks.Latitude
		p.Longitude = roadworks.Longitude
	})
	svc, out := newStation(t, stationOpts{id: 100, stationType: sim.StationTypeRoadSideUnit}, u)

	svc.Trigger(sim.Ticks(time.Second))

	require.Len(t, out.requests, 1)
	assert.Equal(t, sim.EncodeReferencePosition(roadworks), out.requests[0].Payload.Management.EventPosition)
	// the broadcast area stays centred on the road side unit
	assert.Equal(t, testPosition, out.requests[0].Destination.Area.Center)
}

func TestRsuRwwLaneClosure_ParamsFromYAML(t *testing.T) {
	uc, err := sim.NewUseCase(TypeRsuRwwLaneClosure, "rww", paramsNode(t, `
interval: 500ms
startup_jitter: {min: 0s, max: 0s}
closed_lanes: [false, true, true]
`))
	require.NoError(t, err)
	u := uc.(*RsuRwwLaneClosure)
	assert.Equal(t, 500*time.Millisecond, u.params.Interval)
	assert.Equal(t, []bool{false, true, true}, u.params.ClosedLanes)
	assert.True(t, u.params.rsuCentred())

	_, err = sim.NewUseCase(TypeRsuRwwLaneClosure, "rww", paramsNode(t, "intervall: 1s\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = sim.NewUseCase(TypeRsuRwwLaneClosure, "rww", paramsNode(t, "interval: 0s\n"))
	assert.Error(t, err)
}
