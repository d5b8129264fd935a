package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/hazard-sim/sim"
)

func TestObuRwwMobileUnit_StoryboardControlsAnnouncements(t *testing.T) {
	u, err := NewObuRwwMobileUnit(TypeObuRwwMobileUnit, DefaultObuRwwMobileUnitParams())
	require.NoError(t, err)
	svc, out := newStation(t, stationOpts{id: 9, stationType: sim.StationTypeSpecialVehicle}, u)

	// GIVEN an inactive unit THEN nothing is sent
	runTicks(svc, 100*time.Millisecond, time.Second)
	assert.Empty(t, out.requests)
	assert.False(t, u.Active())

	// WHEN the storyboard starts the maintenance work
	svc.HandleStoryboardSignal(sim.Ticks(time.Second), sim.StoryboardSignal{Cause: SignalMobileUnitStart})
	for now := 1100 * time.Millisecond; now <= 5*time.Second; now += 100 * time.Millisecond {
		svc.Trigger(sim.Ticks(now))
	}

	// THEN slow moving maintenance warnings are sent, at most one per cooldown
	require.NotEmpty(t, out.requests)
	assert.LessOrEqual(t, len(out.requests), 4)
	for _, req := range out.requests {
		assert.Equal(t, sim.EventType{CauseCode: sim.CauseRoadworks, SubCauseCode: sim.RoadworksSlowMovingRoadMaintenance}, req.Payload.EventType())
		require.NotNil(t, req.Destination.Repetition)
		assert.Equal(t, time.Second, req.Destination.Repetition.Interval)
		assert.Equal(t, 60*time.Second, req.Destination.Repetition.Maximum)
	}

	// WHEN the work ends THEN announcements stop
	sent := len(out.requests)
	svc.HandleStoryboardSignal(sim.Ticks(5*time.Second), sim.StoryboardSignal{Cause: SignalMobileUnitEnd})
	for now := 5100 * time.Millisecond; now <= 10*time.Second; now += 100 * time.Millisecond {
		svc.Trigger(sim.Ticks(now))
	}
	assert.Len(t, out.requests, sent)
}

// rsuWarning produces a lane closure warning as a road side unit would send it.
func rsuWarning(t *testing.T, lanes []bool) *sim.Denm {
	t.Helper()
	rsu := newTestRsuRww(t, func(p *RsuRwwLaneClosureParams) { p.ClosedLanes = lanes })
	svc, out := newStation(t, stationOpts{id: 100, stationType: sim.StationTypeRoadSideUnit}, rsu)
	svc.Trigger(sim.Ticks(time.Second))
	require.Len(t, out.requests, 1)
	return out.requests[0].Payload
}

func TestObuRwwLaneClosure_SlowsDownOnce(t *testing.T) {
	// GIVEN a vehicle running the lane closure reaction
	vehicle := &fakeVehicle{speed: 33.3}
	u, err := NewObuRwwLaneClosure(TypeObuRwwLaneClosure, DefaultObuRwwLaneClosureParams())
	require.NoError(t, err)
	svc, out := newStation(t, stationOpts{id: 2, stationType: sim.StationTypePassengerCar, vehicle: vehicle}, u)

	// WHEN it receives one lane closure warning
	svc.Indicate(sim.Ticks(time.Second), rsuWarning(t, []bool{true, false}))
	runTicks(svc, 100*time.Millisecond, 3*time.Second)

	// THEN it slows down exactly once and never sends
	require.Len(t, vehicle.targets, 1)
	assert.InDelta(t, 22.22, vehicle.targets[0], 1e-9)
	assert.Equal(t, 30*time.Second, vehicle.durations[0])
	assert.Empty(t, out.requests)
}

func TestObuRwwLaneClosure_IgnoresOtherWarnings(t *testing.T) {
	vehicle := &fakeVehicle{}
	u, err := NewObuRwwLaneClosure(TypeObuRwwLaneClosure, DefaultObuRwwLaneClosureParams())
	require.NoError(t, err)
	svc, _ := newStation(t, stationOpts{id: 2, vehicle: vehicle}, u)

	// a roadworks warning without a closed lanes container
	noLanes := rsuWarning(t, nil)
	noLanes.Alacarte = nil
	svc.Indicate(0, noLanes)

	// a different roadworks sub cause
	mobile := rsuWarning(t, []bool{true})
	mobile.Situation.EventType.SubCauseCode = sim.RoadworksSlowMovingRoadMaintenance
	mobile.Management.ActionID.SequenceNumber = 2
	svc.Indicate(0, mobile)

	assert.Empty(t, vehicle.targets)
}

func TestObuRwwLaneClosure_OwnLane(t *testing.T) {
	tests := []struct {
		name     string
		ownLane  int
		lanes    []bool
		wantSlow bool
	}{
		{"own lane closed", 0, []bool{true, false}, true},
		{"other lane closed", 1, []bool{true, false}, false},
		{"lane not covered", 3, []bool{false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultObuRwwLaneClosureParams()
			params.OwnLane = sim.Ptr(tt.ownLane)
			u, err := NewObuRwwLaneClosure(TypeObuRwwLaneClosure, params)
			require.NoError(t, err)
			vehicle := &fakeVehicle{}
			svc, _ := newStation(t, stationOpts{id: 2, vehicle: vehicle}, u)

			svc.Indicate(0, rsuWarning(t, tt.lanes))

			assert.Equal(t, tt.wantSlow, len(vehicle.targets) == 1)
		})
	}
}

func TestObuRwwLaneClosure_WithoutVehicle(t *testing.T) {
	u, err := NewObuRwwLaneClosure(TypeObuRwwLaneClosure, DefaultObuRwwLaneClosureParams())
	require.NoError(t, err)
	svc, out := newStation(t, stationOpts{id: 2}, u)

	assert.NotPanics(t, func() { svc.Indicate(0, rsuWarning(t, []bool{true})) })
	assert.Empty(t, out.requests)
}
