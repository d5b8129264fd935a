package cluster

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/trace"
)

// ReactionSlowDown is the trace kind recorded for SlowDown requests.
const ReactionSlowDown = "slow-down"

// StationConfig describes one ITS station of a scenario.
type StationConfig struct {
	ID       sim.StationID
	Name     string
	Type     sim.StationType
	Position sim.GeoPoint
	Speed    float64 // m/s; 0 keeps the station in place
	Heading  float64 // degrees clockwise from north
	UseCases []sim.UseCaseConfig
}

// Station is one simulated ITS station: identity, motion and its DenService.
type Station struct {
	Identity sim.Identity
	Service  *sim.DenService

	vehicle *Vehicle
	static  sim.GeoPoint
}

// Position returns the station's position at the time it was last advanced.
func (st *Station) Position() sim.GeoPoint {
	if st.vehicle == nil {
		return st.static
	}
	return st.vehicle.Position()
}

// Vehicle returns the station's vehicle, or nil for road side units.
func (st *Station) Vehicle() *Vehicle {
	return st.vehicle
}

// advance moves the station's vehicle to now.
func (st *Station) advance(now int64) {
	if st.vehicle != nil {
		st.vehicle.Advance(now)
	}
}

// Vehicle moves in a straight line at its cruise speed. SlowDown caps the
// speed for a while, after which the cruise speed is restored.
//
// Thread-safety: NOT thread-safe. Owned by the simulator goroutine.
type Vehicle struct {
	station  sim.StationID
	position sim.GeoPoint
	heading  float64
	cruise   float64
	speed    float64

	clock     int64
	restoreAt int64 // 0 = cruising
	trace     *trace.SimulationTrace
}

// NewVehicle creates a vehicle at position moving along heading with the given cruise speed.
func NewVehicle(station sim.StationID, position sim.GeoPoint, heading, cruise float64, st *trace.SimulationTrace) *Vehicle {
	return &Vehicle{
		station:  station,
		position: position,
		heading:  heading,
		cruise:   cruise,
		speed:    cruise,
		trace:    st,
	}
}

// Position returns the position at the last Advance.
func (v *Vehicle) Position() sim.GeoPoint {
	return v.position
}

// Speed returns the current speed in m/s.
func (v *Vehicle) Speed() float64 {
	return v.speed
}

// Advance integrates the motion up to now. Earlier times are ignored.
func (v *Vehicle) Advance(now int64) {
	if now <= v.clock {
		return
	}
	if v.restoreAt > 0 && v.restoreAt <= now {
		v.move(v.restoreAt)
		v.speed = v.cruise
		v.restoreAt = 0
		logrus.Debugf("station %d: speed restored to %.2f m/s", v.station, v.cruise)
	}
	v.move(now)
}

func (v *Vehicle) move(until int64) {
	if until <= v.clock {
		return
	}
	distance := v.speed * sim.TicksToDuration(until-v.clock).Seconds()
	if distance > 0 {
		v.position = sim.Offset(v.position, v.heading, distance)
	}
	v.clock = until
}

// SlowDown caps the speed at target for duration. A vehicle already slower keeps its speed.
func (v *Vehicle) SlowDown(target float64, duration time.Duration) {
	v.speed = math.Min(v.speed, target)
	v.restoreAt = v.clock + sim.Ticks(duration)
	v.trace.RecordReaction(trace.ReactionRecord{
		Station: uint32(v.station),
		Clock:   v.clock,
		Kind:    ReactionSlowDown,
		Value:   target,
	})
	logrus.Debugf("station %d: slowing down to %.2f m/s for %s", v.station, v.speed, duration)
}

var _ sim.VehicleController = (*Vehicle)(nil)
