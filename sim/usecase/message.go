package usecase

import (
	"time"

	"github.com/inference-sim/hazard-sim/sim"
)

// Defaults shared by the use cases.
const (
	defaultRadius          = 1000.0 // meters
	defaultTrafficClass    = 1
	defaultMessageCategory = 3
	informationQuality     = 1
)

// messageSpec carries the scenario fields written on top of a skeleton.
type messageSpec struct {
	stationType sim.StationType
	event       sim.EventType
	validity    uint32
	distance    sim.RelevanceDistance
	direction   sim.RelevanceTrafficDirection
	position    sim.GeoPoint
}

// newMessage builds a complete DENM for the current tick of env.
func newMessage(env sim.Environment, spec messageSpec) *sim.Denm {
	id := env.Identity()
	msg := sim.BuildSkeleton(id.StationID, spec.stationType, env, env.Timer().TimestampIts(env.Now()))

	msg.Management.RelevanceDistance = sim.Ptr(spec.distance)
	msg.Management.RelevanceTrafficDirection = sim.Ptr(spec.direction)
	msg.Management.ValidityDuration = sim.Ptr(spec.validity)
	msg.Management.EventPosition = sim.EncodeReferencePosition(spec.position)

	msg.Situation = &sim.Situation{
		InformationQuality: informationQuality,
		EventType:          spec.event,
	}
	return msg
}

// requestSpec carries the targeting of one use case.
type requestSpec struct {
	center          sim.GeoPoint
	radius          float64
	trafficClass    sim.TrafficClass
	interval        time.Duration
	messageCategory int
	packetSize      sim.PacketSize
	repetition      *sim.Repetition
}

// newRequest computes the destination for one send.
func newRequest(env sim.Environment, useCase string, spec requestSpec) sim.DestinationParameters {
	dest := sim.ComputeDestination(spec.center, spec.radius, spec.trafficClass, spec.interval, spec.packetSize, env.RNG(useCase))
	dest.MessageCategory = spec.messageCategory
	dest.Repetition = spec.repetition
	return dest
}
