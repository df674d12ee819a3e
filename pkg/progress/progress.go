// Package progress accumulates a continuous input stream (scroll wheel
// deltas, slider drags) into a fold progress in [0,1].
package progress

import (
	"math"
	"sync"
)

// DefaultSensitivity converts one unit of wheel delta into progress.
const DefaultSensitivity = 0.0006

// Accumulator holds a clamped progress value. It is safe for concurrent use.
type Accumulator struct {
	mu          sync.Mutex
	value       float64
	sensitivity float64
	touched     bool
}

// New returns an accumulator at progress 0. A non-positive or non-finite
// sensitivity falls back to DefaultSensitivity.
func New(sensitivity float64) *Accumulator {
	if !(sensitivity > 0) || math.IsInf(sensitivity, 0) {
		sensitivity = DefaultSensitivity
	}
	return &Accumulator{sensitivity: sensitivity}
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Scroll adds delta*sensitivity and clamps. It returns the new value and
// whether it changed.
func (a *Accumulator) Scroll(delta float64) (float64, bool) {
	if math.IsNaN(delta) {
		delta = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store(a.value + delta*a.sensitivity)
}

// Set replaces the value, clamped to [0,1].
func (a *Accumulator) Set(v float64) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store(v)
}

// Reset returns to the flat net and forgets whether input was seen.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = 0
	a.touched = false
}

// Value returns the current progress.
func (a *Accumulator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// Touched reports whether the value has changed since creation or the last
// Reset. Hosts hide their input hint once it is true.
func (a *Accumulator) Touched() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.touched
}

// Sensitivity returns the scroll multiplier.
func (a *Accumulator) Sensitivity() float64 {
	return a.sensitivity
}

func (a *Accumulator) store(v float64) (float64, bool) {
	v = clamp(v)
	changed := v != a.value
	a.value = v
	if changed {
		a.touched = true
	}
	return v, changed
}
