// Package glide implements glide ratio smoothing and the averaging glide
// ratio accumulator.
package glide

import "math"

// InvalidRatio is the sentinel for an undefined glide ratio. Valid ratios
// are always finite and below it.
const InvalidRatio = 999.0

// Valid reports whether ld holds a usable ratio.
func Valid(ld float64) bool {
	return ld > 0 && ld < InvalidRatio
}

// UpdateLD blends the instantaneous glide ratio distance/heightLoss into
// previous. factor in (0, 1] sets the response; 1 replaces previous.
//
// The blend runs on the glide angle (heightLoss/distance) rather than the
// ratio, which stays finite as the ratio approaches infinity. Non-positive
// height loss or non-finite input yields InvalidRatio. A non-positive
// distance carries no information and returns previous unchanged. An
// invalid previous value is replaced by the instantaneous ratio.
func UpdateLD(previous, distance, heightLoss, factor float64) float64 {
	if !finite(distance) || !finite(heightLoss) || !finite(factor) || heightLoss <= 0 {
		return InvalidRatio
	}
	if distance <= 0 {
		if Valid(previous) {
			return previous
		}
		return InvalidRatio
	}

	instant := heightLoss / distance
	angle := instant
	if Valid(previous) {
		factor = math.Max(0, math.Min(1, factor))
		prevAngle := 1 / previous
		angle = prevAngle + factor*(instant-prevAngle)
	}

	if angle <= 0 {
		return InvalidRatio
	}
	ld := 1 / angle
	if !finite(ld) || ld <= 0 || ld >= InvalidRatio {
		return InvalidRatio
	}
	return ld
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
