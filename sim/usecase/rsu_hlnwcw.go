package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
)

// TypeRsuHlnWcw is the registry name of RsuHlnWcw.
const TypeRsuHlnWcw = "rsu-hln-wcw"

// wcwValidity is the validity of weather warnings in seconds.
const wcwValidity = 2

// RsuHlnWcwParams configures RsuHlnWcw.
type RsuHlnWcwParams struct {
	Interval      time.Duration  `yaml:"interval"`
	StartupJitter CooldownRange  `yaml:"startup_jitter"`
	CauseCode     uint8          `yaml:"cause_code"`
	SubCauseCode  uint8          `yaml:"sub_cause_code"`
	PacketSize    sim.PacketSize `yaml:"packet_size"`
	Radius        float64        `yaml:"radius"`
	TrafficClass  uint8          `yaml:"traffic_class"`
}

// DefaultRsuHlnWcwParams returns the parameters used when none are configured.
func DefaultRsuHlnWcwParams() RsuHlnWcwParams {
	return RsuHlnWcwParams{
		Interval:      time.Second,
		StartupJitter: CooldownRange{Min: 401 * time.Millisecond, Max: 600 * time.Millisecond},
		CauseCode:     uint8(sim.CauseAdverseWeatherPrecipitation),
		SubCauseCode:  uint8(sim.PrecipitationHeavyRain),
		PacketSize:    sim.PacketSize{Alternatives: sim.DefaultPacketSizes, Probability: 0.5},
		Radius:        defaultRadius,
		TrafficClass:  defaultTrafficClass,
	}
}

// RsuHlnWcw is a road side unit issuing hazardous-location weather condition
// warnings (precipitation or strong winds) at a fixed interval.
type RsuHlnWcw struct {
	name   string
	params RsuHlnWcwParams
	env    sim.Environment

	event    sim.EventType
	periodic periodic
}

// NewRsuHlnWcw creates an uninitialized weather warning use case.
// Only precipitation (19) and extreme weather (17) causes are supported.
func NewRsuHlnWcw(name string, params RsuHlnWcwParams) (*RsuHlnWcw, error) {
	if params.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", params.Interval)
	}
	if err := params.StartupJitter.Validate(); err != nil {
		return nil, fmt.Errorf("startup_jitter: %w", err)
	}
	if params.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", params.Radius)
	}
	if p := params.PacketSize; p.Probability < 0 || p.Probability > 1 {
		return nil, fmt.Errorf("packet_size.probability must be within [0,1], got %f", p.Probability)
	}
	event, err := weatherEvent(params.CauseCode, params.SubCauseCode)
	if err != nil {
		return nil, err
	}
	return &RsuHlnWcw{name: name, params: params, event: event}, nil
}

// weatherEvent maps configured codes onto the event type sent.
// Precipitation keeps heavy rain, heavy snowfall and soft hail; any other sub
// cause is sent as unavailable. Extreme weather is always strong winds.
func weatherEvent(cause, sub uint8) (sim.EventType, error) {
	switch sim.CauseCode(cause) {
	case sim.CauseAdverseWeatherPrecipitation:
		event := sim.EventType{CauseCode: sim.CauseAdverseWeatherPrecipitation}
		switch s := sim.SubCauseCode(sub); s {
		case sim.PrecipitationHeavyRain, sim.PrecipitationHeavySnowfall, sim.PrecipitationSoftHail:
			event.SubCauseCode = s
		}
		return event, nil
	case sim.CauseAdverseWeatherExtremeWeather:
		return sim.EventType{CauseCode: sim.CauseAdverseWeatherExtremeWeather, SubCauseCode: sim.ExtremeWeatherStrongWinds}, nil
	default:
		return sim.EventType{}, fmt.Errorf("cause_code must be %d or %d, got %d",
			sim.CauseAdverseWeatherPrecipitation, sim.CauseAdverseWeatherExtremeWeather, cause)
	}
}

func newRsuHlnWcw(name string, node *yaml.Node) (sim.UseCase, error) {
	params := DefaultRsuHlnWcwParams()
	if err := sim.DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return NewRsuHlnWcw(name, params)
}

func (u *RsuHlnWcw) Name() string { return u.name }

func (u *RsuHlnWcw) Initialize(env sim.Environment) error {
	u.env = env
	u.periodic = newPeriodic(env.Now(), u.params.Interval, u.params.StartupJitter, env.RNG(u.name))
	return nil
}

func (u *RsuHlnWcw) Check() {
	now := u.env.Now()
	if !u.periodic.due(now) {
		return
	}
	u.env.SendDenm(u.createMessage(), u.createRequest())
	u.periodic.sent(now)
}

func (u *RsuHlnWcw) Indicate(obj *sim.DenmObject) {
	if obj.Matches(sim.CauseAdverseWeatherPrecipitation) || obj.Matches(sim.CauseAdverseWeatherExtremeWeather) {
		logrus.Debugf("station %d: %s heard weather warning from %d", u.env.Identity().StationID, u.name, obj.Message().Header.StationID)
	}
}

func (u *RsuHlnWcw) HandleStoryboardTrigger(sim.StoryboardSignal) {}

func (u *RsuHlnWcw) createMessage() *sim.Denm {
	return newMessage(u.env, messageSpec{
		stationType: sim.StationTypeRoadSideUnit,
		event:       u.event,
		validity:    wcwValidity,
		distance:    sim.RelevanceLessThan5km,
		direction:   sim.RelevanceAllTrafficDirections,
		position:    u.env.Position(),
	})
}

func (u *RsuHlnWcw) createRequest() sim.DestinationParameters {
	return newRequest(u.env, u.name, requestSpec{
		center:          u.env.Position(),
		radius:          u.params.Radius,
		trafficClass:    sim.TrafficClass(u.params.TrafficClass),
		interval:        u.params.Interval,
		messageCategory: defaultMessageCategory,
		packetSize:      u.params.PacketSize,
	})
}
