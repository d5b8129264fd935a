package cluster

import "github.com/inference-sim/hazard-sim/sim"

// EventType names a kind of scheduled event.
type EventType string

const (
	EventTypeStoryboard EventType = "Storyboard"
	EventTypeDelivery   EventType = "Delivery"
	EventTypeRepetition EventType = "Repetition"
	EventTypeTick       EventType = "Tick"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first.
var EventTypePriority = map[EventType]int{
	EventTypeStoryboard: 1,
	EventTypeDelivery:   2,
	EventTypeRepetition: 3,
	EventTypeTick:       4,
}

// Event is a scheduled simulation step.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(s *RoadSimulator)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp int64, eventType EventType, eventID uint64) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   eventID,
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// TickEvent runs one DenService trigger on a station and schedules the next one.
type TickEvent struct {
	BaseEvent
	Station *Station
}

func NewTickEvent(timestamp int64, station *Station, eventID uint64) *TickEvent {
	return &TickEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeTick, eventID),
		Station:   station,
	}
}

func (e *TickEvent) Execute(s *RoadSimulator) {
	s.handleTick(e)
}

// DeliveryEvent hands a broadcast message to one receiving station.
type DeliveryEvent struct {
	BaseEvent
	Station *Station
	Message *sim.Denm
}

func NewDeliveryEvent(timestamp int64, station *Station, msg *sim.Denm, eventID uint64) *DeliveryEvent {
	return &DeliveryEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeDelivery, eventID),
		Station:   station,
		Message:   msg,
	}
}

func (e *DeliveryEvent) Execute(s *RoadSimulator) {
	s.handleDelivery(e)
}

// RepetitionEvent re-broadcasts a request the sender asked to be repeated.
// Until is the last instant at which a repetition may still happen.
type RepetitionEvent struct {
	BaseEvent
	Request sim.DataRequest
	Until   int64
}

func NewRepetitionEvent(timestamp int64, req sim.DataRequest, until int64, eventID uint64) *RepetitionEvent {
	return &RepetitionEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeRepetition, eventID),
		Request:   req,
		Until:     until,
	}
}

func (e *RepetitionEvent) Execute(s *RoadSimulator) {
	s.handleRepetition(e)
}

// StoryboardEvent delivers a scripted signal to the stations it targets.
type StoryboardEvent struct {
	BaseEvent
	Entry StoryboardEntry
}

func NewStoryboardEvent(timestamp int64, entry StoryboardEntry, eventID uint64) *StoryboardEvent {
	return &StoryboardEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeStoryboard, eventID),
		Entry:     entry,
	}
}

func (e *StoryboardEvent) Execute(s *RoadSimulator) {
	s.handleStoryboard(e)
}
