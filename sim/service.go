package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/hazard-sim/sim/trace"
)

// ServiceConfig wires a DenService to its station and host.
type ServiceConfig struct {
	Identity  Identity
	Timer     Timer
	Position  PositionProvider
	Vehicle   VehicleController // nil for stations without actuation
	Transport Transport
	RNG       *PartitionedRNG        // nil defaults to seed 0
	Metrics   *Metrics               // nil disables metrics
	Trace     *trace.SimulationTrace // nil disables tracing
}

// DenService is the dissemination orchestrator of one station.
// It owns the Memory and the ActionID allocator, routes inbound messages to the
// Memory and to every use case, and evaluates every use case once per tick.
//
// Entry points (Trigger, Indicate, HandleStoryboardSignal) run to completion and
// are serialized, so all Check calls of one tick observe the same post-sweep
// Memory. Only Indicate writes received records; sending never touches the Memory.
// Messages sent during an entry point are handed to the transport after the
// entry point releases its lock, so a transport may deliver synchronously back
// into Indicate. Environment methods are only meant to be called by use cases
// from within those entry points.
type DenService struct {
	mu sync.Mutex

	identity  Identity
	timer     Timer
	position  PositionProvider
	vehicle   VehicleController
	transport Transport
	rng       *PartitionedRNG
	metrics   *Metrics
	trace     *trace.SimulationTrace

	memory   *Memory
	ids      *ActionIDAllocator
	useCases []UseCase
	outbox   []DataRequest // requests sent by the running entry point

	clock  int64
	active string // use case currently running; attributes sends
}

// NewDenService creates the service and instantiates the configured use cases in
// order. Entries whose filters do not match the local identity are skipped
// silently; that is scenario tailoring, not a fault.
func NewDenService(cfg ServiceConfig, useCases []UseCaseConfig) (*DenService, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("den service %d: transport is required", cfg.Identity.StationID)
	}
	if cfg.Position == nil {
		return nil, fmt.Errorf("den service %d: position provider is required", cfg.Identity.StationID)
	}
	if cfg.Timer.Start.Before(ItsEpoch) {
		return nil, fmt.Errorf("den service %d: timer start %s precedes the ITS epoch",
			cfg.Identity.StationID, cfg.Timer.Start.Format(time.RFC3339))
	}
	rng := cfg.RNG
	if rng == nil {
		rng = NewPartitionedRNG(NewSimulationKey(0))
	}

	s := &DenService{
		identity:  cfg.Identity,
		timer:     cfg.Timer,
		position:  cfg.Position,
		vehicle:   cfg.Vehicle,
		transport: cfg.Transport,
		rng:       rng,
		metrics:   cfg.Metrics,
		trace:     cfg.Trace,
		memory:    NewMemory(),
		ids:       NewActionIDAllocator(cfg.Identity.StationID),
	}

	filterRNG := rng.ForSubsystem(SubsystemFilter(cfg.Identity.StationID))
	for i := range useCases {
		uc := &useCases[i]
		if !uc.Filters.Applies(s.identity, filterRNG) {
			logrus.Debugf("station %d: use case %q filtered out", s.identity.StationID, uc.InstanceName())
			continue
		}
		instance, err := NewUseCase(uc.Type, uc.Name, &uc.Params)
		if err != nil {
			return nil, fmt.Errorf("den service %d: %w", cfg.Identity.StationID, err)
		}
		if err := s.AddUseCase(instance); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddUseCase initializes uc and appends it to the evaluation order.
func (s *DenService) AddUseCase(uc UseCase) error {
	var err error
	s.run(func() {
		if err = uc.Initialize(s); err != nil {
			err = fmt.Errorf("den service %d: initializing use case %q: %w", s.identity.StationID, uc.Name(), err)
			return
		}
		s.useCases = append(s.useCases, uc)
		logrus.Debugf("station %d: use case %q active", s.identity.StationID, uc.Name())
	})
	return err
}

// UseCases returns the names of the active use cases in evaluation order.
func (s *DenService) UseCases() []string {
	names := make([]string, len(s.useCases))
	for i, uc := range s.useCases {
		names[i] = uc.Name()
	}
	return names
}

// Trigger is the periodic tick entry point: it sweeps expired records, then calls
// Check on every use case.
func (s *DenService) Trigger(now int64) {
	s.run(func() { s.trigger(now) })
}

func (s *DenService) trigger(now int64) {
	s.clock = now

	expired := s.memory.Sweep(s.timer.TimestampIts(now))
	if expired > 0 {
		logrus.Debugf("station %d: %d hazard records expired at %d", s.identity.StationID, expired, now)
	}
	s.metrics.recordMemory(s.identity.StationID, expired, s.memory.Len())

	for _, uc := range s.useCases {
		s.active = uc.Name()
		uc.Check()
	}
	s.active = ""
}

// Indicate is the inbound message entry point. Messages originated by the local
// station are dropped before touching the Memory or any use case.
func (s *DenService) Indicate(now int64, msg *Denm) {
	if msg == nil {
		return
	}
	s.run(func() { s.indicate(now, msg) })
}

func (s *DenService) indicate(now int64, msg *Denm) {
	s.clock = now

	own := s.identity.StationID
	if msg.Header.StationID == own || msg.Management.ActionID.OriginatingStationID == own {
		s.metrics.recordSuppressed(own)
		s.recordReceived(msg, trace.OutcomeSelf)
		return
	}

	outcome := s.memory.Upsert(NewHazardRecord(msg))
	s.metrics.recordReceived(own, outcome)
	s.metrics.recordMemory(own, 0, s.memory.Len())
	s.recordReceived(msg, outcome.String())
	logrus.Debugf("station %d: received DENM %d/%d from %d (%s)", own,
		msg.Management.ActionID.OriginatingStationID, msg.Management.ActionID.SequenceNumber,
		msg.Header.StationID, outcome)

	obj := NewDenmObject(msg)
	for _, uc := range s.useCases {
		s.active = uc.Name()
		uc.Indicate(obj)
	}
	s.active = ""
}

// HandleStoryboardSignal forwards an external stimulus to every use case.
// Use cases ignore signals they do not know.
func (s *DenService) HandleStoryboardSignal(now int64, signal StoryboardSignal) {
	s.run(func() {
		s.clock = now
		logrus.Debugf("station %d: storyboard signal %q", s.identity.StationID, signal.Cause)
		for _, uc := range s.useCases {
			uc.HandleStoryboardTrigger(signal)
		}
	})
}

// run executes fn under the entry point lock, then hands the requests it sent
// to the transport in send order.
func (s *DenService) run(fn func()) {
	s.mu.Lock()
	fn()
	out := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, req := range out {
		s.transport.Request(req)
	}
}

// === Environment ===

// RequestActionID allocates the next ActionID of the local station.
func (s *DenService) RequestActionID() ActionID {
	return s.ids.RequestActionID()
}

// SendDenm queues msg for the transport. The request is handed over once the
// running entry point returns.
func (s *DenService) SendDenm(msg *Denm, dest DestinationParameters) {
	req := newDataRequest(s.identity.StationID, dest, msg)

	event := msg.EventType()
	s.metrics.recordSent(s.identity.StationID, s.active, event.CauseCode)
	s.trace.RecordSent(trace.SentRecord{
		Station:            uint32(s.identity.StationID),
		UseCase:            s.active,
		Clock:              s.clock,
		OriginatingStation: uint32(msg.Management.ActionID.OriginatingStationID),
		SequenceNumber:     msg.Management.ActionID.SequenceNumber,
		CauseCode:          uint8(event.CauseCode),
		SubCauseCode:       uint8(event.SubCauseCode),
		Radius:             dest.Area.Radius,
		FixedLength:        dest.FixedLength,
	})
	logrus.Debugf("station %d: %s sends DENM seq=%d cause=%d/%d radius=%.0fm", s.identity.StationID, s.active,
		msg.Management.ActionID.SequenceNumber, event.CauseCode, event.SubCauseCode, dest.Area.Radius)

	s.outbox = append(s.outbox, req)
}

// Memory returns the read-only view of the dedup/expiry cache.
func (s *DenService) Memory() MemoryView {
	return s.memory
}

// Now returns the time of the entry point currently running.
func (s *DenService) Now() int64 {
	return s.clock
}

// Timer returns the simulated wall clock mapping.
func (s *DenService) Timer() Timer {
	return s.timer
}

// Identity returns the local station identity.
func (s *DenService) Identity() Identity {
	return s.identity
}

// Position returns the station's current position.
func (s *DenService) Position() GeoPoint {
	return s.position.Position()
}

// Vehicle returns the vehicle controller, or nil.
func (s *DenService) Vehicle() VehicleController {
	return s.vehicle
}

// RNG returns the private random stream of the named use case.
func (s *DenService) RNG(useCase string) *rand.Rand {
	return s.rng.ForSubsystem(SubsystemUseCase(s.identity.StationID, useCase))
}

func (s *DenService) recordReceived(msg *Denm, outcome string) {
	event := msg.EventType()
	s.trace.RecordReceived(trace.ReceivedRecord{
		Station:            uint32(s.identity.StationID),
		Clock:              s.clock,
		Sender:             uint32(msg.Header.StationID),
		OriginatingStation: uint32(msg.Management.ActionID.OriginatingStationID),
		SequenceNumber:     msg.Management.ActionID.SequenceNumber,
		CauseCode:          uint8(event.CauseCode),
		SubCauseCode:       uint8(event.SubCauseCode),
		Outcome:            outcome,
	})
}

var _ Environment = (*DenService)(nil)
