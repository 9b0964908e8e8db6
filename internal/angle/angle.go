// Package angle reduces accumulated angles into the canonical (-π, π]
// range used by phase-space displays.
package angle

import "math"

const twoPi = 2 * math.Pi

// Normalize maps x into (-π, π]. Values already in range are returned
// unchanged, so Normalize is exactly idempotent.
func Normalize(x float64) float64 {
	if x > -math.Pi && x <= math.Pi {
		return x
	}
	r := math.Mod(x, twoPi)
	if r < 0 {
		r += twoPi
	}
	if r > math.Pi {
		r -= twoPi
	}
	return r
}

// NormalizeSeries returns a normalized copy of xs; xs itself is not modified.
func NormalizeSeries(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Normalize(x)
	}
	return out
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
