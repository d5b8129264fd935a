package cluster

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/trace"
)

// StoryboardEntry is a scripted signal raised at a fixed time.
// An empty Stations list targets every station.
type StoryboardEntry struct {
	At       int64
	Signal   string
	Stations []sim.StationID
}

// targets reports whether the entry applies to station id.
func (e StoryboardEntry) targets(id sim.StationID) bool {
	if len(e.Stations) == 0 {
		return true
	}
	for _, s := range e.Stations {
		if s == id {
			return true
		}
	}
	return false
}

// Config is the resolved input of a RoadSimulator.
type Config struct {
	Seed          int64
	Horizon       int64 // ticks; events after it are not processed
	TickInterval  int64 // ticks between two DenService triggers of a station
	Start         time.Time
	Latency       int64 // medium base latency in ticks
	LatencyJitter int64 // uniform extra latency in ticks, [0, LatencyJitter]
	Stations      []StationConfig
	Storyboard    []StoryboardEntry
	TraceLevel    trace.TraceLevel
	Metrics       *sim.Metrics // nil disables metrics
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %d", c.TickInterval)
	}
	if c.Latency < 0 || c.LatencyJitter < 0 {
		return fmt.Errorf("latency and jitter must be non-negative")
	}
	if c.Start.Before(sim.ItsEpoch) {
		return fmt.Errorf("start time %s precedes the ITS epoch", c.Start.Format(time.RFC3339))
	}
	if len(c.Stations) == 0 {
		return fmt.Errorf("at least one station is required")
	}
	seen := make(map[sim.StationID]bool, len(c.Stations))
	for i, st := range c.Stations {
		if seen[st.ID] {
			return fmt.Errorf("stations[%d]: duplicate station id %d", i, st.ID)
		}
		seen[st.ID] = true
		if st.Speed < 0 {
			return fmt.Errorf("stations[%d]: speed must be non-negative, got %f", i, st.Speed)
		}
		if err := sim.ValidateUseCases(st.UseCases); err != nil {
			return fmt.Errorf("stations[%d] (%d): %w", i, st.ID, err)
		}
	}
	for i, e := range c.Storyboard {
		if e.At < 0 {
			return fmt.Errorf("storyboard[%d]: negative time", i)
		}
		if e.Signal == "" {
			return fmt.Errorf("storyboard[%d]: empty signal", i)
		}
		for _, id := range e.Stations {
			if !seen[id] {
				return fmt.Errorf("storyboard[%d]: unknown station %d", i, id)
			}
		}
	}
	return nil
}

// RoadSimulator drives a set of stations sharing one geo-broadcast medium on a
// single clock. Every station is triggered each TickInterval; broadcasts are
// delivered through the event queue.
type RoadSimulator struct {
	config   Config
	queue    *EventHeap
	clock    int64
	stations []*Station // ordered by station id
	medium   *Medium
	trace    *trace.SimulationTrace

	nextEventID uint64
	hasRun      bool
}

// NewRoadSimulator builds the stations and their services. Use case types must
// be registered before calling (import sim/usecase).
func NewRoadSimulator(cfg Config) (*RoadSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.TraceLevel
	if level == "" {
		level = trace.TraceLevelNone
	}
	s := &RoadSimulator{
		config: cfg,
		queue:  NewEventHeap(),
		trace:  trace.NewSimulationTrace(trace.TraceConfig{Level: level}),
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	s.medium = newMedium(s, cfg.Latency, cfg.LatencyJitter, rng.ForSubsystem(sim.SubsystemMedium))
	timer := sim.NewTimer(cfg.Start)

	configs := make([]StationConfig, len(cfg.Stations))
	copy(configs, cfg.Stations)
	sort.SliceStable(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })

	for _, sc := range configs {
		st := &Station{
			Identity: sim.Identity{StationID: sc.ID, StationType: sc.Type, Name: sc.Name},
			static:   sc.Position,
		}
		svcCfg := sim.ServiceConfig{
			Identity:  st.Identity,
			Timer:     timer,
			Position:  sim.PositionFunc(st.Position),
			Transport: s.medium,
			RNG:       rng,
			Metrics:   cfg.Metrics,
			Trace:     s.trace,
		}
		if sc.Type != sim.StationTypeRoadSideUnit {
			st.vehicle = NewVehicle(sc.ID, sc.Position, sc.Heading, sc.Speed, s.trace)
			svcCfg.Vehicle = st.vehicle
		}
		svc, err := sim.NewDenService(svcCfg, sc.UseCases)
		if err != nil {
			return nil, err
		}
		st.Service = svc
		s.stations = append(s.stations, st)
		logrus.Infof("station %d (%s): use cases %v", sc.ID, sc.Name, svc.UseCases())
	}
	return s, nil
}

// Run processes events until the horizon passes or the queue drains, and
// returns the trace summary. Panics if called twice.
func (s *RoadSimulator) Run() *trace.TraceSummary {
	if s.hasRun {
		panic("RoadSimulator.Run() called more than once")
	}
	s.hasRun = true

	for _, e := range s.config.Storyboard {
		s.schedule(NewStoryboardEvent(e.At, e, s.newEventID()))
	}
	for _, st := range s.stations {
		s.schedule(NewTickEvent(0, st, s.newEventID()))
	}

	processed := 0
	for s.queue.Len() > 0 {
		ev := s.queue.PopNext()
		if ev.Timestamp() > s.config.Horizon {
			break
		}
		if ev.Timestamp() < s.clock {
			panic(fmt.Sprintf("event %s at %d precedes clock %d", ev.Type(), ev.Timestamp(), s.clock))
		}
		s.clock = ev.Timestamp()
		ev.Execute(s)
		processed++
	}
	logrus.Infof("simulation ended at %s after %d events", sim.TicksToDuration(s.clock), processed)
	return trace.Summarize(s.trace)
}

// Clock returns the current simulation time in ticks.
func (s *RoadSimulator) Clock() int64 {
	return s.clock
}

// Stations returns the stations ordered by id.
func (s *RoadSimulator) Stations() []*Station {
	return s.stations
}

// Station looks a station up by id.
func (s *RoadSimulator) Station(id sim.StationID) (*Station, bool) {
	i := sort.Search(len(s.stations), func(i int) bool { return s.stations[i].Identity.StationID >= id })
	if i < len(s.stations) && s.stations[i].Identity.StationID == id {
		return s.stations[i], true
	}
	return nil, false
}

// Trace returns the collected message trace.
func (s *RoadSimulator) Trace() *trace.SimulationTrace {
	return s.trace
}

func (s *RoadSimulator) schedule(e Event) {
	s.queue.Schedule(e)
}

// newEventID generates the next event ID for this simulator
func (s *RoadSimulator) newEventID() uint64 {
	s.nextEventID++
	return s.nextEventID
}

func (s *RoadSimulator) handleTick(e *TickEvent) {
	e.Station.advance(e.Timestamp())
	e.Station.Service.Trigger(e.Timestamp())
	next := e.Timestamp() + s.config.TickInterval
	if next <= s.config.Horizon {
		s.schedule(NewTickEvent(next, e.Station, s.newEventID()))
	}
}

func (s *RoadSimulator) handleDelivery(e *DeliveryEvent) {
	e.Station.advance(e.Timestamp())
	e.Station.Service.Indicate(e.Timestamp(), e.Message)
}

func (s *RoadSimulator) handleRepetition(e *RepetitionEvent) {
	s.medium.broadcast(e.Timestamp(), e.Request)
	next := e.Timestamp() + sim.Ticks(e.Request.Destination.Repetition.Interval)
	if next <= e.Until {
		s.schedule(NewRepetitionEvent(next, e.Request, e.Until, s.newEventID()))
	}
}

func (s *RoadSimulator) handleStoryboard(e *StoryboardEvent) {
	signal := sim.StoryboardSignal{Cause: e.Entry.Signal}
	for _, st := range s.stations {
		if e.Entry.targets(st.Identity.StationID) {
			st.advance(e.Timestamp())
			st.Service.HandleStoryboardSignal(e.Timestamp(), signal)
		}
	}
}
