package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
)

// TypeControlled is the registry name of Controlled.
const TypeControlled = "controlled"

// Storyboard causes understood by Controlled.
const (
	SignalNonUrban = "non-urban"
	SignalUrban    = "urban"
)

// ControlledParams configures Controlled.
type ControlledParams struct {
	TriggerTime         time.Duration `yaml:"trigger_time"`
	Cooldown            CooldownRange `yaml:"cooldown"`
	NonUrbanEnvironment bool          `yaml:"non_urban_environment"`
	Radius              float64       `yaml:"radius"`
	TrafficClass        uint8         `yaml:"traffic_class"`
	// SuppressOnPeer blocks local detection when a peer already reports the same
	// traffic condition, avoiding redundant warnings for one event.
	SuppressOnPeer bool `yaml:"suppress_on_peer"`
}

// DefaultControlledParams returns the parameters used when none are configured.
func DefaultControlledParams() ControlledParams {
	return ControlledParams{
		Cooldown:            CooldownRange{Min: 100 * time.Millisecond, Max: 1000 * time.Millisecond},
		NonUrbanEnvironment: true,
		Radius:              defaultRadius,
		TrafficClass:        defaultTrafficClass,
	}
}

// Controlled warns about a traffic condition once its trigger time has passed,
// as long as the vehicle is in a non-urban environment. After every warning it
// suspends itself for a random cooldown.
type Controlled struct {
	name   string
	params ControlledParams
	env    sim.Environment

	cooldown    cooldown
	triggerTime int64
	nonUrban    bool
}

// NewControlled creates an uninitialized Controlled use case.
func NewControlled(name string, params ControlledParams) (*Controlled, error) {
	if err := params.Cooldown.Validate(); err != nil {
		return nil, err
	}
	if params.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", params.Radius)
	}
	return &Controlled{name: name, params: params}, nil
}

func newControlled(name string, node *yaml.Node) (sim.UseCase, error) {
	params := DefaultControlledParams()
	if err := sim.DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return NewControlled(name, params)
}

func (c *Controlled) Name() string { return c.name }

func (c *Controlled) Initialize(env sim.Environment) error {
	c.env = env
	c.cooldown = newCooldown(c.params.Cooldown, env.RNG(c.name))
	c.triggerTime = env.Now() + sim.Ticks(c.params.TriggerTime)
	c.nonUrban = c.params.NonUrbanEnvironment
	return nil
}

// SetNonUrbanEnvironment switches whether the map or camera reports a non-urban
// environment, the precondition for any warning.
func (c *Controlled) SetNonUrbanEnvironment(flag bool) {
	c.nonUrban = flag
}

// Check sends a warning when the use case is idle and its conditions hold.
func (c *Controlled) Check() {
	now := c.env.Now()
	if c.cooldown.IsBlocked(now) || !c.checkConditions(now) {
		return
	}
	c.cooldown.trip(now)
	c.env.SendDenm(c.createMessage(), c.createRequest())
}

func (c *Controlled) checkConditions(now int64) bool {
	return c.nonUrban && now > c.triggerTime
}

// Indicate optionally suspends local detection when a peer already reports a
// traffic condition.
func (c *Controlled) Indicate(obj *sim.DenmObject) {
	if !c.params.SuppressOnPeer || !obj.Matches(sim.CauseTrafficCondition) {
		return
	}
	now := c.env.Now()
	if !c.cooldown.IsBlocked(now) {
		logrus.Debugf("station %d: %s suspended by peer report from %d", c.env.Identity().StationID, c.name, obj.Message().Header.StationID)
		c.cooldown.trip(now)
	}
}

func (c *Controlled) HandleStoryboardTrigger(signal sim.StoryboardSignal) {
	switch signal.Cause {
	case SignalNonUrban:
		c.nonUrban = true
	case SignalUrban:
		c.nonUrban = false
	}
}

func (c *Controlled) createMessage() *sim.Denm {
	return newMessage(c.env, messageSpec{
		stationType: c.env.Identity().StationType,
		event:       sim.EventType{CauseCode: sim.CauseTrafficCondition, SubCauseCode: 0},
		validity:    sim.DefaultValidityDuration,
		distance:    sim.RelevanceLessThan1000m,
		direction:   sim.RelevanceUpstreamTraffic,
		position:    c.env.Position(),
	})
}

func (c *Controlled) createRequest() sim.DestinationParameters {
	return newRequest(c.env, c.name, requestSpec{
		center:       c.env.Position(),
		radius:       c.params.Radius,
		trafficClass: sim.TrafficClass(c.params.TrafficClass),
	})
}
