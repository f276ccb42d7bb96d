package teleop

import "sync"

// Multipliers holds the operator-configured velocity scale factors, shared
// read-only by both input sources and mutated only through the configuration
// surface. Set clamps to the configured [0, max] ranges.
type Multipliers struct {
	mu         sync.RWMutex
	linear     float64
	angular    float64
	linearMax  float64
	angularMax float64
}

// NewMultipliers creates the shared multiplier state. Initial values are
// clamped to the bounds.
func NewMultipliers(linear, angular, linearMax, angularMax float64) *Multipliers {
	m := &Multipliers{linearMax: linearMax, angularMax: angularMax}
	m.Set(linear, angular)
	return m
}

// Snapshot returns the current (linear, angular) scale factors.
func (m *Multipliers) Snapshot() (linear, angular float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.linear, m.angular
}

// Bounds returns the configured upper bounds.
func (m *Multipliers) Bounds() (linearMax, angularMax float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.linearMax, m.angularMax
}

// Set updates the scale factors, clamping each to [0, max], and returns the
// values actually applied.
func (m *Multipliers) Set(linear, angular float64) (appliedLinear, appliedAngular float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.linear = clamp(linear, 0, m.linearMax)
	m.angular = clamp(angular, 0, m.angularMax)
	return m.linear, m.angular
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
