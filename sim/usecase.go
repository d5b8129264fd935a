package sim

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Identity describes the local station.
type Identity struct {
	StationID   StationID
	StationType StationType
	Name        string
}

// PositionProvider reports the station's current position.
type PositionProvider interface {
	Position() GeoPoint
}

// PositionFunc adapts a function to PositionProvider.
type PositionFunc func() GeoPoint

// Position implements PositionProvider.
func (f PositionFunc) Position() GeoPoint {
	return f()
}

// StaticPosition is a PositionProvider for stations that never move.
type StaticPosition GeoPoint

// Position implements PositionProvider.
func (p StaticPosition) Position() GeoPoint {
	return GeoPoint(p)
}

// VehicleController is the actuation side effect reactive use cases may trigger.
// Speeds are in m/s.
type VehicleController interface {
	SlowDown(speed float64, duration time.Duration)
	Speed() float64
}

// StoryboardSignal is an out-of-band scenario stimulus, e.g. "rww-mobile-unit".
type StoryboardSignal struct {
	Cause string
}

// Environment is everything a use case may reach on its owning service.
// DenService implements it.
type Environment interface {
	ActionIDSource

	// SendDenm hands a finished message to the transport.
	SendDenm(msg *Denm, dest DestinationParameters)
	// Memory is a read-only view of the dedup/expiry cache.
	Memory() MemoryView
	// Now is the current simulation time in ticks.
	Now() int64
	Timer() Timer
	Identity() Identity
	Position() GeoPoint
	// Vehicle returns the local vehicle controller, or nil on stations without one.
	Vehicle() VehicleController
	// RNG returns the use case's private random stream.
	RNG(useCase string) *rand.Rand
}

// UseCase encapsulates one hazard scenario: its trigger, message content and
// reaction to received messages.
//
// Check runs once per tick, Indicate once per accepted inbound message (every use
// case sees every message and filters by cause itself), HandleStoryboardTrigger
// once per external signal. HandleStoryboardTrigger must not send; it only updates
// state so the next Check may send.
type UseCase interface {
	Name() string
	Initialize(env Environment) error
	Check()
	Indicate(obj *DenmObject)
	HandleStoryboardTrigger(signal StoryboardSignal)
}

// === Registry ===

// UseCaseFactory builds an uninitialized use case from its configuration params.
// params may be nil when the configuration has none.
type UseCaseFactory func(name string, params *yaml.Node) (UseCase, error)

var useCaseRegistry = map[string]UseCaseFactory{}

// RegisterUseCase makes a use case type available to configuration.
// Called from init() of implementation packages. Panics on empty or duplicate types.
func RegisterUseCase(typ string, factory UseCaseFactory) {
	if typ == "" {
		panic("RegisterUseCase: empty use case type")
	}
	if _, dup := useCaseRegistry[typ]; dup {
		panic(fmt.Sprintf("RegisterUseCase: use case type %q registered twice", typ))
	}
	useCaseRegistry[typ] = factory
}

// IsValidUseCase returns true if typ has a registered factory.
func IsValidUseCase(typ string) bool {
	_, ok := useCaseRegistry[typ]
	return ok
}

// RegisteredUseCases returns all registered use case types, sorted.
func RegisteredUseCases() []string {
	types := make([]string, 0, len(useCaseRegistry))
	for typ := range useCaseRegistry {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// NewUseCase creates a use case by registered type. An empty name defaults to typ.
func NewUseCase(typ, name string, params *yaml.Node) (UseCase, error) {
	factory, ok := useCaseRegistry[typ]
	if !ok {
		return nil, fmt.Errorf("unknown use case type %q", typ)
	}
	if name == "" {
		name = typ
	}
	uc, err := factory(name, params)
	if err != nil {
		return nil, fmt.Errorf("creating use case %q: %w", name, err)
	}
	return uc, nil
}

// DecodeParams strictly decodes a params node into out. Unknown keys are errors.
// A nil or empty node leaves out untouched, so callers pre-fill defaults.
func DecodeParams(params *yaml.Node, out any) error {
	if params == nil || params.Kind == 0 {
		return nil
	}
	raw, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("re-encoding params: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("parsing params: %w", err)
	}
	return nil
}
