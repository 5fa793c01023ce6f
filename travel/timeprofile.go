package travel

import (
	"errors"
	"math"
)

// Time-profile sentinels.
var (
	// ErrBadSpeed indicates a non-positive average speed.
	ErrBadSpeed = errors.New("travel: speed must be positive")

	// ErrBadServiceTime indicates a negative per-stop service time.
	ErrBadServiceTime = errors.New("travel: service time must be non-negative")
)

// TimeProfile converts road meters into route minutes.
//
// SpeedKmph      – fleet average speed in km/h.
// ServiceMinutes – time spent at each customer stop (loading/unloading).
type TimeProfile struct {
	SpeedKmph      float64
	ServiceMinutes float64
}

// DefaultProfile matches the operational defaults of the milk-collection
// runs this toolkit grew out of: 30 km/h average, 10 minutes per stop.
func DefaultProfile() TimeProfile {
	return TimeProfile{SpeedKmph: 30, ServiceMinutes: 10}
}

// Validate checks profile sanity: speed > 0, service time ≥ 0, both finite.
func (p TimeProfile) Validate() error {
	if !(p.SpeedKmph > 0) || math.IsInf(p.SpeedKmph, 0) {
		return ErrBadSpeed
	}
	if p.ServiceMinutes < 0 || math.IsNaN(p.ServiceMinutes) || math.IsInf(p.ServiceMinutes, 0) {
		return ErrBadServiceTime
	}

	return nil
}

// Minutes returns pure driving time for a leg of the given meters.
// +Inf meters propagate to +Inf minutes (unreachable stays unreachable).
func (p TimeProfile) Minutes(meters float64) float64 {
	return meters / 1000 / p.SpeedKmph * 60
}

// StopMinutes returns the full cost of a leg that ends at a customer stop:
// driving time plus the per-stop service time. Legs ending at a depot use
// Minutes directly; no service happens there.
func (p TimeProfile) StopMinutes(meters float64) float64 {
	return p.Minutes(meters) + p.ServiceMinutes
}
