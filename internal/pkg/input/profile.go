package input

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile overrides calibration for every controller carrying the given
// display name. Useful for hardware that reports a flat zone of zero
// while the sticks clearly drift.
type Profile struct {
	Name     string  `yaml:"name"`
	DeadZone float32 `yaml:"dead_zone"`
}

// Profiles maps controller names to dead zone overrides.
type Profiles map[string]float32

// LoadProfiles reads a YAML list of calibration profiles.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []Profile
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}
	profiles := make(Profiles, len(list))
	for _, p := range list {
		profiles[p.Name] = p.DeadZone
	}
	return profiles, nil
}

// DeadZone returns the override for a controller name. A negative
// result means no override, use the device calibration.
func (p Profiles) DeadZone(name string) float32 {
	if v, ok := p[name]; ok {
		return v
	}
	return -1
}
