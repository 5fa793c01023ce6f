package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openfleet/vrpkit/travel"
)

// ErrBadConfig indicates an unreadable or structurally invalid YAML file.
var ErrBadConfig = errors.New("dataset: invalid config")

// DefaultFleetKey is the fleet-config fallback entry used for depots with
// no explicit fleet.
const DefaultFleetKey = "DEFAULT"

// DepotRegistry maps depot names to authoritative coordinates. Lookups go
// through NormalizeKey, so spelling and word order do not matter.
type DepotRegistry struct {
	byKey map[string]depotEntry
}

type depotEntry struct {
	name  string
	coord travel.Coordinate
}

// NewDepotRegistry builds a registry from name → coordinate pairs.
func NewDepotRegistry(depots map[string]travel.Coordinate) DepotRegistry {
	byKey := make(map[string]depotEntry, len(depots))
	for name, coord := range depots {
		byKey[NormalizeKey(name)] = depotEntry{name: name, coord: coord}
	}

	return DepotRegistry{byKey: byKey}
}

// Lookup resolves a depot name to its registered coordinate.
func (r DepotRegistry) Lookup(name string) (travel.Coordinate, bool) {
	e, ok := r.byKey[NormalizeKey(name)]

	return e.coord, ok
}

// Known reports whether the name matches a registered depot. Used to drop
// depot rows that sneak into the customer list.
func (r DepotRegistry) Known(name string) bool {
	_, ok := r.byKey[NormalizeKey(name)]

	return ok
}

// depotsFile is the YAML layout of a depot registry file.
type depotsFile struct {
	Depots map[string]struct {
		Lat float64 `yaml:"lat"`
		Lon float64 `yaml:"lon"`
	} `yaml:"depots"`
}

// LoadDepotRegistry reads a depots YAML file:
//
//	depots:
//	  MCC BULDHANA: {lat: 20.977988, lon: 76.192343}
func LoadDepotRegistry(path string) (DepotRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DepotRegistry{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	var f depotsFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return DepotRegistry{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	depots := make(map[string]travel.Coordinate, len(f.Depots))
	for name, c := range f.Depots {
		depots[name] = travel.Coordinate{Lat: c.Lat, Lon: c.Lon}
	}

	return NewDepotRegistry(depots), nil
}

// FleetConfig maps depot names to vehicle capacity lists, with a DEFAULT
// fallback. Matching uses NormalizeKey.
type FleetConfig struct {
	byKey        map[string][]int64
	defaultFleet []int64
}

// fleetFile is the YAML layout of a fleet config file.
type fleetFile struct {
	Fleets map[string][]int64 `yaml:"fleets"`
}

// LoadFleetConfig reads a fleet YAML file:
//
//	fleets:
//	  MCC Buldhana: [2500, 2500, 2000]
//	  DEFAULT: [2000, 1500, 1000]
func LoadFleetConfig(path string) (FleetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FleetConfig{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	var f fleetFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return FleetConfig{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	return NewFleetConfig(f.Fleets), nil
}

// NewFleetConfig builds a fleet config from name → capacities pairs.
// Non-positive capacities are dropped; the DEFAULT entry (any spelling
// case) becomes the fallback.
func NewFleetConfig(fleets map[string][]int64) FleetConfig {
	cfg := FleetConfig{byKey: make(map[string][]int64, len(fleets))}
	for name, caps := range fleets {
		kept := make([]int64, 0, len(caps))
		for _, c := range caps {
			if c > 0 {
				kept = append(kept, c)
			}
		}
		if NormalizeKey(name) == DefaultFleetKey {
			cfg.defaultFleet = kept
			continue
		}
		cfg.byKey[NormalizeKey(name)] = kept
	}

	return cfg
}

// CapacitiesFor returns the capacity list for a depot, falling back to
// DEFAULT. The second result is false when even the fallback is missing.
func (c FleetConfig) CapacitiesFor(name string) ([]int64, bool) {
	if caps, ok := c.byKey[NormalizeKey(name)]; ok && len(caps) > 0 {
		return caps, true
	}
	if len(c.defaultFleet) > 0 {
		return c.defaultFleet, true
	}

	return nil, false
}
