// Package phi provides the model constants of the temporal transport pipeline.
// No arbitrary magic numbers in the metric chain — everything traces back to
// the constants named here.
package phi

import "math"

// Phi is the temporal ratio driving every derived metric. It is a fitted
// constant of the model, deliberately close to (but not) the golden ratio.
const Phi = 1.666

// C is the speed of light in m/s, the scale factor of the primary metric.
const C = 299_792_458.0

// Pow returns Phi raised to the given integer power. Pow(0) is exactly 1.
func Pow(n int) float64 {
	if n == 0 {
		return 1
	}
	return math.Pow(Phi, float64(n))
}

// Metric bounds shared across pipelines.
const (
	// TDFBreakthroughLow and TDFBreakthroughHigh bound the validated
	// breakthrough band (exclusive on both ends).
	TDFBreakthroughLow  = 5e12
	TDFBreakthroughHigh = 6e12

	// TimeShiftFloor is the displacement magnitude above which time shift
	// becomes capable, given sufficient phase coherence.
	TimeShiftFloor = 1e6

	// CTICap is the hard ceiling of the cascade transport index.
	CTICap = 1e6

	// SLCap bounds the scaling length except in the uncapped high-TDF branch.
	SLCap = 1e6
)
