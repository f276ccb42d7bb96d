// Package easing provides the response curves applied to raw operator input.
package easing

import "math"

// Func maps a raw joystick deflection in [-100, 100] to a normalized
// response in [-1, 1].
type Func func(raw float64) float64

// Quadratic shapes the virtual joystick response: small deflections near
// center produce disproportionately small output, giving fine control near
// neutral and full authority at the extremes. Odd-symmetric and monotonic,
// with Quadratic(0) = 0 and Quadratic(±100) = ±1.
func Quadratic(raw float64) float64 {
	n := raw / 100.0
	magnitude := math.Abs(n)
	sign := 1.0
	if n < 0 {
		sign = -1.0
	}
	return sign * magnitude * magnitude
}
