package sim

import (
	"fmt"
	"math/rand"
	"regexp"
)

// FilterConfig restricts which stations instantiate a configured use case.
// All set rules must match. An empty filter matches every station.
type FilterConfig struct {
	StationTypes    []string    `yaml:"station_types,omitempty"`
	StationIDs      []StationID `yaml:"station_ids,omitempty"`
	NamePattern     string      `yaml:"name_pattern,omitempty"`
	PenetrationRate *float64    `yaml:"penetration_rate,omitempty"` // share of matching stations, [0,1]
}

// Validate checks names, the pattern and the penetration range.
func (f *FilterConfig) Validate() error {
	for _, name := range f.StationTypes {
		if !IsValidStationType(name) {
			return fmt.Errorf("unknown station type %q in filter", name)
		}
	}
	if f.NamePattern != "" {
		if _, err := regexp.Compile(f.NamePattern); err != nil {
			return fmt.Errorf("invalid name_pattern %q: %w", f.NamePattern, err)
		}
	}
	if f.PenetrationRate != nil && (*f.PenetrationRate < 0 || *f.PenetrationRate > 1) {
		return fmt.Errorf("penetration_rate must be within [0,1], got %f", *f.PenetrationRate)
	}
	return nil
}

// Applies evaluates the filter against the local identity.
// rng is drawn from only when a penetration rate is set and all other rules matched,
// so stations rejected earlier do not consume randomness.
// Precondition: Validate() returned nil.
func (f *FilterConfig) Applies(id Identity, rng *rand.Rand) bool {
	if f == nil {
		return true
	}
	if len(f.StationTypes) > 0 {
		matched := false
		for _, name := range f.StationTypes {
			if st, _ := ParseStationType(name); st == id.StationType {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(f.StationIDs) > 0 {
		matched := false
		for _, sid := range f.StationIDs {
			if sid == id.StationID {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.NamePattern != "" && !regexp.MustCompile(f.NamePattern).MatchString(id.Name) {
		return false
	}
	if f.PenetrationRate != nil {
		return rng.Float64() < *f.PenetrationRate
	}
	return true
}
