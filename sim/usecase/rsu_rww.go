package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
)

// TypeRsuRwwLaneClosure is the registry name of RsuRwwLaneClosure.
const TypeRsuRwwLaneClosure = "rsu-rww-lane-closure"

// rwwValidity is the validity of roadworks warnings in seconds.
const rwwValidity = 20

// RsuRwwLaneClosureParams configures RsuRwwLaneClosure.
type RsuRwwLaneClosureParams struct {
	Interval      time.Duration `yaml:"interval"`
	StartupJitter CooldownRange `yaml:"startup_jitter"`
	// RsuCentre places the roadworks at the road side unit itself; otherwise
	// Latitude/Longitude give the roadworks location.
	RsuCentre    *bool   `yaml:"rsu_centre"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	ClosedLanes  []bool  `yaml:"closed_lanes"`
	Radius       float64 `yaml:"radius"`
	TrafficClass uint8   `yaml:"traffic_class"`
}

// DefaultRsuRwwLaneClosureParams returns the parameters used when none are configured.
func DefaultRsuRwwLaneClosureParams() RsuRwwLaneClosureParams {
	return RsuRwwLaneClosureParams{
		Interval:      time.Second,
		StartupJitter: CooldownRange{Min: 0, Max: 3000 * time.Millisecond},
		ClosedLanes:   []bool{},
		Radius:        defaultRadius,
		TrafficClass:  defaultTrafficClass,
	}
}

// rsuCentred resolves the RsuCentre default: centred unless a location is given.
func (p RsuRwwLaneClosureParams) rsuCentred() bool {
	if p.RsuCentre != nil {
		return *p.RsuCentre
	}
	return p.Latitude == 0 && p.Longitude == 0
}

// RsuRwwLaneClosure is a road side unit announcing short-term stationary
// roadworks with closed lanes at a fixed interval.
type RsuRwwLaneClosure struct {
	name   string
	params RsuRwwLaneClosureParams
	env    sim.Environment

	periodic periodic
}

// NewRsuRwwLaneClosure creates an uninitialized roadworks announcer.
func NewRsuRwwLaneClosure(name string, params RsuRwwLaneClosureParams) (*RsuRwwLaneClosure, error) {
	if params.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", params.Interval)
	}
	if err := params.StartupJitter.Validate(); err != nil {
		return nil, fmt.Errorf("startup_jitter: %w", err)
	}
	if params.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", params.Radius)
	}
	return &RsuRwwLaneClosure{name: name, params: params}, nil
}

func newRsuRwwLaneClosure(name string, node *yaml.Node) (sim.UseCase, error) {
	params := DefaultRsuRwwLaneClosureParams()
	if err := sim.DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return NewRsuRwwLaneClosure(name, params)
}

func (u *RsuRwwLaneClosure) Name() string { return u.name }

func (u *RsuRwwLaneClosure) Initialize(env sim.Environment) error {
	u.env = env
	u.periodic = newPeriodic(env.Now(), u.params.Interval, u.params.StartupJitter, env.RNG(u.name))
	return nil
}

func (u *RsuRwwLaneClosure) Check() {
	now := u.env.Now()
	if !u.periodic.due(now) {
		return
	}
	u.env.SendDenm(u.createMessage(), u.createRequest())
	u.periodic.sent(now)
}

func (u *RsuRwwLaneClosure) Indicate(obj *sim.DenmObject) {
	if obj.Matches(sim.CauseRoadworks) {
		logrus.Debugf("station %d: %s heard roadworks warning from %d", u.env.Identity().StationID, u.name, obj.Message().Header.StationID)
	}
}

func (u *RsuRwwLaneClosure) HandleStoryboardTrigger(sim.StoryboardSignal) {}

// eventPosition is where the roadworks are reported.
func (u *RsuRwwLaneClosure) eventPosition() sim.GeoPoint {
	if u.params.rsuCentred() {
		return u.env.Position()
	}
	return sim.GeoPoint{Latitude: u.params.Latitude, Longitude: u.params.Longitude}
}

func (u *RsuRwwLaneClosure) createMessage() *sim.Denm {
	msg := newMessage(u.env, messageSpec{
		stationType: sim.StationTypeRoadSideUnit,
		event:       sim.EventType{CauseCode: sim.CauseRoadworks, SubCauseCode: sim.RoadworksShortTermStationaryRoadwork},
		validity:    rwwValidity,
		distance:    sim.RelevanceLessThan1000m,
		direction:   sim.RelevanceUpstreamTraffic,
		position:    u.eventPosition(),
	})
	lanes := make([]bool, len(u.params.ClosedLanes))
	copy(lanes, u.params.ClosedLanes)
	msg.Alacarte = &sim.Alacarte{
		RoadWorks: &sim.RoadWorks{
			ClosedLanes: &sim.ClosedLanes{DrivingLaneStatus: lanes},
		},
	}
	return msg
}

func (u *RsuRwwLaneClosure) createRequest() sim.DestinationParameters {
	return newRequest(u.env, u.name, requestSpec{
		center:          u.env.Position(),
		radius:          u.params.Radius,
		trafficClass:    sim.TrafficClass(u.params.TrafficClass),
		interval:        u.params.Interval,
		messageCategory: defaultMessageCategory,
	})
}
