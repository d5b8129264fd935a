package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
)

var (
	testStart    = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	testPosition = sim.GeoPoint{Latitude: 48.7665, Longitude: 11.4258}
)

// fakeVehicle records every slow-down request.
type fakeVehicle struct {
	speed     float64
	targets   []float64
	durations []time.Duration
}

func (v *fakeVehicle) SlowDown(speed float64, d time.Duration) {
	v.targets = append(v.targets, speed)
	v.durations = append(v.durations, d)
	v.speed = speed
}

func (v *fakeVehicle) Speed() float64 { return v.speed }

// capture collects the requests a service hands to its transport.
type capture struct {
	requests []sim.DataRequest
}

func (c *capture) Request(req sim.DataRequest) {
	c.requests = append(c.requests, req)
}

type stationOpts struct {
	id          sim.StationID
	stationType sim.StationType
	vehicle     sim.VehicleController
	seed        int64
}

// newStation builds a DenService running the given use cases.
func newStation(t *testing.T, opts stationOpts, useCases ...sim.UseCase) (*sim.DenService, *capture) {
	t.Helper()
	out := &capture{}
	cfg := sim.ServiceConfig{
		Identity: sim.Identity{
			StationID:   opts.id,
			StationType: opts.stationType,
			Name:        "station",
		},
		Timer:     sim.NewTimer(testStart),
		Position:  sim.StaticPosition(testPosition),
		Transport: out,
		RNG:       sim.NewPartitionedRNG(sim.NewSimulationKey(opts.seed)),
	}
	if opts.vehicle != nil {
		cfg.Vehicle = opts.vehicle
	}
	svc, err := sim.NewDenService(cfg, nil)
	require.NoError(t, err)
	for _, uc := range useCases {
		require.NoError(t, svc.AddUseCase(uc))
	}
	return svc, out
}

// runTicks triggers svc every step from step to until inclusive.
func runTicks(svc *sim.DenService, step, until time.Duration) {
	for now := step; now <= until; now += step {
		svc.Trigger(sim.Ticks(now))
	}
}

// paramsNode parses a YAML params document.
func paramsNode(t *testing.T, doc string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	if len(node.Content) == 0 {
		return &node
	}
	return node.Content[0]
}
