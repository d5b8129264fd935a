package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UseCaseConfig is one entry of the ordered use case list of a station.
// Params are decoded by the use case's own factory (see DecodeParams).
type UseCaseConfig struct {
	Type    string        `yaml:"type"`
	Name    string        `yaml:"name,omitempty"`
	Filters *FilterConfig `yaml:"filters,omitempty"`
	Params  yaml.Node     `yaml:"params,omitempty"`
}

// InstanceName returns the configured name, defaulting to the type.
func (c *UseCaseConfig) InstanceName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Type
}

// UseCaseBundle holds a use case list loadable from a YAML file.
type UseCaseBundle struct {
	UseCases []UseCaseConfig `yaml:"use_cases"`
}

// LoadUseCaseBundle reads and strictly parses a YAML use case file.
func LoadUseCaseBundle(path string) (*UseCaseBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading use case config: %w", err)
	}
	var bundle UseCaseBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing use case config: %w", err)
	}
	return &bundle, nil
}

// Validate checks the bundle's use case list.
func (b *UseCaseBundle) Validate() error {
	return ValidateUseCases(b.UseCases)
}

// ValidateUseCases checks that every type is registered, instance names are
// unique and filters are well formed. Params are checked by building each use case.
func ValidateUseCases(configs []UseCaseConfig) error {
	seen := make(map[string]bool, len(configs))
	for i := range configs {
		cfg := &configs[i]
		if !IsValidUseCase(cfg.Type) {
			return fmt.Errorf("use_cases[%d]: unknown use case type %q; registered: %v", i, cfg.Type, RegisteredUseCases())
		}
		name := cfg.InstanceName()
		if seen[name] {
			return fmt.Errorf("use_cases[%d]: duplicate use case name %q", i, name)
		}
		seen[name] = true
		if cfg.Filters != nil {
			if err := cfg.Filters.Validate(); err != nil {
				return fmt.Errorf("use_cases[%d] (%s): %w", i, name, err)
			}
		}
		if _, err := NewUseCase(cfg.Type, name, &cfg.Params); err != nil {
			return fmt.Errorf("use_cases[%d]: %w", i, err)
		}
	}
	return nil
}
