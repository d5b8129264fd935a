package cluster

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/trace"
)

var (
	testStart = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	rsuSite   = sim.GeoPoint{Latitude: 48.7665, Longitude: 11.4258}
)

func sampleRequest() sim.DataRequest {
	return sim.DataRequest{
		Source: 1,
		Destination: sim.DestinationParameters{
			Area:       sim.GeoArea{Center: rsuSite, Radius: 1000},
			Repetition: &sim.Repetition{Interval: time.Second, Maximum: 3 * time.Second},
		},
		Payload: &sim.Denm{},
	}
}

// useCase builds a use case config with YAML params.
func useCase(t *testing.T, typ, params string) sim.UseCaseConfig {
	t.Helper()
	cfg := sim.UseCaseConfig{Type: typ}
	if params != "" {
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(params), &doc); err != nil {
			t.Fatal(err)
		}
		cfg.Params = *doc.Content[0]
	}
	return cfg
}

// laneClosureConfig places an RSU announcing a lane closure and a car driving
// towards it, 500m away, plus a car out of range.
func laneClosureConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Seed:         42,
		Horizon:      sim.Ticks(10 * time.Second),
		TickInterval: sim.Ticks(100 * time.Millisecond),
		Start:        testStart,
		Latency:      sim.Ticks(2 * time.Millisecond),
		TraceLevel:   trace.TraceLevelMessages,
		Stations: []StationConfig{
			{
				ID: 100, Name: "rsu", Type: sim.StationTypeRoadSideUnit, Position: rsuSite,
				UseCases: []sim.UseCaseConfig{useCase(t, "rsu-rww-lane-closure",
					"interval: 2s\nstartup_jitter: {min: 0s, max: 0s}\nclosed_lanes: [true, false]\n")},
			},
			{
				ID: 7, Name: "car-near", Type: sim.StationTypePassengerCar,
				Position: sim.Offset(rsuSite, 180, 500), Speed: 10, Heading: 0,
				UseCases: []sim.UseCaseConfig{useCase(t, "obu-rww-lane-closure", "")},
			},
			{
				ID: 8, Name: "car-far", Type: sim.StationTypePassengerCar,
				Position: sim.Offset(rsuSite, 90, 5000), Speed: 0, Heading: 90,
				UseCases: []sim.UseCaseConfig{useCase(t, "obu-rww-lane-closure", "")},
			},
		},
	}
}
