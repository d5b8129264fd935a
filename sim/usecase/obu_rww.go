package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
)

// Registry names of the on-board roadworks warning use cases.
const (
	TypeObuRwwMobileUnit  = "obu-rww-mobile-unit"
	TypeObuRwwLaneClosure = "obu-rww-lane-closure"
)

// Storyboard causes understood by ObuRwwMobileUnit.
const (
	SignalMobileUnitStart = "rww-mobile-unit"
	SignalMobileUnitEnd   = "rww-mobile-unit-end"
)

// === Mobile unit ===

// ObuRwwMobileUnitParams configures ObuRwwMobileUnit.
type ObuRwwMobileUnitParams struct {
	Active       bool          `yaml:"active"`
	Cooldown     CooldownRange `yaml:"cooldown"`
	Radius       float64       `yaml:"radius"`
	TrafficClass uint8         `yaml:"traffic_class"`
	Repetition   time.Duration `yaml:"repetition_interval"`
	RepeatFor    time.Duration `yaml:"repetition_maximum"`
}

// DefaultObuRwwMobileUnitParams returns the parameters used when none are configured.
func DefaultObuRwwMobileUnitParams() ObuRwwMobileUnitParams {
	return ObuRwwMobileUnitParams{
		Cooldown:     CooldownRange{Min: time.Second, Max: 1500 * time.Millisecond},
		Radius:       defaultRadius,
		TrafficClass: defaultTrafficClass,
		Repetition:   time.Second,
		RepeatFor:    60 * time.Second,
	}
}

// ObuRwwMobileUnit is carried by a slow moving maintenance vehicle. While the
// storyboard marks the vehicle as working it announces itself around its current
// position, with a cooldown between announcements.
type ObuRwwMobileUnit struct {
	name   string
	params ObuRwwMobileUnitParams
	env    sim.Environment

	cooldown cooldown
	active   bool
}

// NewObuRwwMobileUnit creates an uninitialized mobile unit use case.
func NewObuRwwMobileUnit(name string, params ObuRwwMobileUnitParams) (*ObuRwwMobileUnit, error) {
	if err := params.Cooldown.Validate(); err != nil {
		return nil, err
	}
	if params.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", params.Radius)
	}
	return &ObuRwwMobileUnit{name: name, params: params}, nil
}

func newObuRwwMobileUnit(name string, node *yaml.Node) (sim.UseCase, error) {
	params := DefaultObuRwwMobileUnitParams()
	if err := sim.DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return NewObuRwwMobileUnit(name, params)
}

func (u *ObuRwwMobileUnit) Name() string { return u.name }

func (u *ObuRwwMobileUnit) Initialize(env sim.Environment) error {
	u.env = env
	u.cooldown = newCooldown(u.params.Cooldown, env.RNG(u.name))
	u.active = u.params.Active
	return nil
}

// Active reports whether the unit is currently announcing itself.
func (u *ObuRwwMobileUnit) Active() bool {
	return u.active
}

func (u *ObuRwwMobileUnit) Check() {
	now := u.env.Now()
	if !u.active || u.cooldown.IsBlocked(now) {
		return
	}
	u.cooldown.trip(now)
	u.env.SendDenm(u.createMessage(), u.createRequest())
}

func (u *ObuRwwMobileUnit) Indicate(*sim.DenmObject) {}

func (u *ObuRwwMobileUnit) HandleStoryboardTrigger(signal sim.StoryboardSignal) {
	switch signal.Cause {
	case SignalMobileUnitStart:
		u.active = true
	case SignalMobileUnitEnd:
		u.active = false
	}
}

func (u *ObuRwwMobileUnit) createMessage() *sim.Denm {
	return newMessage(u.env, messageSpec{
		stationType: u.env.Identity().StationType,
		event:       sim.EventType{CauseCode: sim.CauseRoadworks, SubCauseCode: sim.RoadworksSlowMovingRoadMaintenance},
		validity:    sim.DefaultValidityDuration,
		distance:    sim.RelevanceLessThan1000m,
		direction:   sim.RelevanceUpstreamTraffic,
		position:    u.env.Position(),
	})
}

func (u *ObuRwwMobileUnit) createRequest() sim.DestinationParameters {
	return newRequest(u.env, u.name, requestSpec{
		center:       u.env.Position(),
		radius:       u.params.Radius,
		trafficClass: sim.TrafficClass(u.params.TrafficClass),
		repetition: &sim.Repetition{
			Interval: u.params.Repetition,
			Maximum:  u.params.RepeatFor,
		},
	})
}

// === Lane closure reaction ===

// ObuRwwLaneClosureParams configures ObuRwwLaneClosure.
type ObuRwwLaneClosureParams struct {
	TargetSpeed float64       `yaml:"target_speed"` // m/s
	Duration    time.Duration `yaml:"duration"`
	// OwnLane restricts the reaction to closures of this lane index. Nil reacts
	// to any closure; an index the message does not cover counts as closed.
	OwnLane *int `yaml:"own_lane"`
}

// DefaultObuRwwLaneClosureParams returns the parameters used when none are configured.
func DefaultObuRwwLaneClosureParams() ObuRwwLaneClosureParams {
	return ObuRwwLaneClosureParams{
		TargetSpeed: 22.22,
		Duration:    30 * time.Second,
	}
}

// ObuRwwLaneClosure slows the vehicle down when a short-term stationary roadworks
// warning with a closed-lanes container is received. It never sends.
type ObuRwwLaneClosure struct {
	name   string
	params ObuRwwLaneClosureParams
	env    sim.Environment
}

// NewObuRwwLaneClosure creates an uninitialized lane closure reaction.
func NewObuRwwLaneClosure(name string, params ObuRwwLaneClosureParams) (*ObuRwwLaneClosure, error) {
	if params.TargetSpeed < 0 {
		return nil, fmt.Errorf("target_speed must be non-negative, got %f", params.TargetSpeed)
	}
	if params.Duration < 0 {
		return nil, fmt.Errorf("duration must be non-negative, got %s", params.Duration)
	}
	return &ObuRwwLaneClosure{name: name, params: params}, nil
}

func newObuRwwLaneClosure(name string, node *yaml.Node) (sim.UseCase, error) {
	params := DefaultObuRwwLaneClosureParams()
	if err := sim.DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return NewObuRwwLaneClosure(name, params)
}

func (u *ObuRwwLaneClosure) Name() string { return u.name }

func (u *ObuRwwLaneClosure) Initialize(env sim.Environment) error {
	u.env = env
	return nil
}

func (u *ObuRwwLaneClosure) Check() {}

func (u *ObuRwwLaneClosure) Indicate(obj *sim.DenmObject) {
	if !obj.MatchesEvent(sim.CauseRoadworks, sim.RoadworksShortTermStationaryRoadwork) {
		return
	}
	lanes := obj.Message().ClosedLanes()
	if lanes == nil || !u.affectsOwnLane(lanes) {
		return
	}
	vehicle := u.env.Vehicle()
	if vehicle == nil {
		logrus.Debugf("station %d: %s has no vehicle controller, ignoring lane closure", u.env.Identity().StationID, u.name)
		return
	}
	logrus.Debugf("station %d: lane closure (%d lanes reported) from %d, slowing to %.2f m/s",
		u.env.Identity().StationID, len(lanes.DrivingLaneStatus), obj.Message().Header.StationID, u.params.TargetSpeed)
	vehicle.SlowDown(u.params.TargetSpeed, u.params.Duration)
}

func (u *ObuRwwLaneClosure) affectsOwnLane(lanes *sim.ClosedLanes) bool {
	if u.params.OwnLane == nil {
		return true
	}
	lane := *u.params.OwnLane
	if lane < 0 || lane >= len(lanes.DrivingLaneStatus) {
		return true
	}
	return lanes.DrivingLaneStatus[lane]
}

func (u *ObuRwwLaneClosure) HandleStoryboardTrigger(sim.StoryboardSignal) {}
