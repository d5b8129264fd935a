package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/hazard-sim/sim"
	"github.com/inference-sim/hazard-sim/sim/cluster"
	"github.com/inference-sim/hazard-sim/sim/trace"
)

// Scenario is the YAML description of a simulation run.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Seed         int64             `yaml:"seed"`
	StartTime    time.Time         `yaml:"start_time"`
	Horizon      time.Duration     `yaml:"horizon"`
	TickInterval time.Duration     `yaml:"tick_interval"`
	Medium       MediumConfig      `yaml:"medium"`
	Stations     []StationScenario `yaml:"stations"`
	Storyboard   []StoryboardEntry `yaml:"storyboard"`
}

// MediumConfig tunes the broadcast medium.
type MediumConfig struct {
	Latency time.Duration `yaml:"latency"`
	Jitter  time.Duration `yaml:"jitter"`
}

// StationScenario describes one station. Use cases come inline, from a use case
// file, or both (file entries first).
type StationScenario struct {
	ID           sim.StationID       `yaml:"id"`
	Name         string              `yaml:"name"`
	Type         string              `yaml:"type"`
	Position     sim.GeoPoint        `yaml:"position"`
	Speed        float64             `yaml:"speed"`   // m/s
	Heading      float64             `yaml:"heading"` // degrees clockwise from north
	UseCasesFile string              `yaml:"use_cases_file"`
	UseCases     []sim.UseCaseConfig `yaml:"use_cases"`
}

// StoryboardEntry raises a signal at a scenario time.
type StoryboardEntry struct {
	At       time.Duration   `yaml:"at"`
	Signal   string          `yaml:"signal"`
	Stations []sim.StationID `yaml:"stations"`
}

// Scenario defaults applied to unset fields.
const (
	defaultTickInterval = 100 * time.Millisecond
	defaultHorizon      = 60 * time.Second
)

var defaultStartTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// LoadScenario reads and strictly parses a scenario file. Relative use case
// files are resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}

	base := filepath.Dir(path)
	for i := range sc.Stations {
		st := &sc.Stations[i]
		if st.UseCasesFile == "" {
			continue
		}
		file := st.UseCasesFile
		if !filepath.IsAbs(file) {
			file = filepath.Join(base, file)
		}
		bundle, err := sim.LoadUseCaseBundle(file)
		if err != nil {
			return nil, fmt.Errorf("stations[%d]: %w", i, err)
		}
		st.UseCases = append(bundle.UseCases, st.UseCases...)
	}
	sc.applyDefaults()
	return &sc, nil
}

func (sc *Scenario) applyDefaults() {
	if sc.StartTime.IsZero() {
		sc.StartTime = defaultStartTime
	}
	if sc.Horizon == 0 {
		sc.Horizon = defaultHorizon
	}
	if sc.TickInterval == 0 {
		sc.TickInterval = defaultTickInterval
	}
}

// Validate checks station types; everything else is checked by cluster.Config.Validate.
func (sc *Scenario) Validate() error {
	for i, st := range sc.Stations {
		if !sim.IsValidStationType(st.Type) {
			return fmt.Errorf("stations[%d]: unknown station type %q", i, st.Type)
		}
	}
	_, err := sc.ClusterConfig(nil)
	return err
}

// ClusterConfig converts the scenario into a validated simulator configuration.
func (sc *Scenario) ClusterConfig(metrics *sim.Metrics) (cluster.Config, error) {
	cfg := cluster.Config{
		Seed:          sc.Seed,
		Horizon:       sim.Ticks(sc.Horizon),
		TickInterval:  sim.Ticks(sc.TickInterval),
		Start:         sc.StartTime,
		Latency:       sim.Ticks(sc.Medium.Latency),
		LatencyJitter: sim.Ticks(sc.Medium.Jitter),
		TraceLevel:    trace.TraceLevelMessages,
		Metrics:       metrics,
	}
	for i, st := range sc.Stations {
		stationType, ok := sim.ParseStationType(st.Type)
		if !ok {
			return cluster.Config{}, fmt.Errorf("stations[%d]: unknown station type %q", i, st.Type)
		}
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("station-%d", st.ID)
		}
		cfg.Stations = append(cfg.Stations, cluster.StationConfig{
			ID:       st.ID,
			Name:     name,
			Type:     stationType,
			Position: st.Position,
			Speed:    st.Speed,
			Heading:  st.Heading,
			UseCases: st.UseCases,
		})
	}
	for _, e := range sc.Storyboard {
		cfg.Storyboard = append(cfg.Storyboard, cluster.StoryboardEntry{
			At:       sim.Ticks(e.At),
			Signal:   e.Signal,
			Stations: e.Stations,
		})
	}
	if err := cfg.Validate(); err != nil {
		return cluster.Config{}, err
	}
	return cfg, nil
}
