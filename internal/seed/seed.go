// Package seed provides the deterministic scalar generator used everywhere
// the simulation would otherwise reach for randomness. Every value is a pure
// function of (cycle, index) so a run replays bit-identically from the same
// inputs.
package seed

import (
	"math"
	"time"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
)

// cycleModulus bounds generated cycle numbers.
const cycleModulus = 1_000_000

// Scalar returns a deterministic value in [0, 1) for a (cycle, index) pair
// using the model ratio Phi.
func Scalar(cycle, index int) float64 {
	return ScalarWith(cycle, index, phi.Phi)
}

// ScalarWith is Scalar with an explicit ratio. Same inputs always yield the
// same output across processes and runs.
func ScalarWith(cycle, index int, ratio float64) float64 {
	raw := math.Abs(math.Sin(float64(cycle)*float64(index)*ratio)) * 1000
	return math.Mod(raw, 999) / 999
}

// Range remaps a deterministic scalar into [min, max).
func Range(cycle, index int, min, max float64) float64 {
	return min + Scalar(cycle, index)*(max-min)
}

// Select picks one element of vals by remapped index. Returns the zero value
// for an empty slice.
func Select[T any](vals []T, cycle, index int) T {
	var zero T
	if len(vals) == 0 {
		return zero
	}
	i := int(Scalar(cycle, index) * float64(len(vals)))
	if i >= len(vals) {
		i = len(vals) - 1
	}
	return vals[i]
}

// Point3 is a deterministic 3-D sample, consumed only by visual layers.
type Point3 struct {
	X, Y, Z float64
}

// Spherical produces a point on a sphere of the given radius, pushed along Z
// by depth. Three chained Scalar calls keep the result reproducible.
func Spherical(cycle, index int, radius, depth float64) Point3 {
	theta := Scalar(cycle, index) * 2 * math.Pi
	p := Scalar(cycle, index+1)*2 - 1
	r := radius * math.Sqrt(1-p*p)
	return Point3{
		X: r * math.Cos(theta),
		Y: r * math.Sin(theta),
		Z: radius*p + depth*Scalar(cycle, index+2),
	}
}

// Cycle maps a timestamp to a bounded cycle number. This is the only point
// where wall-clock time enters the deterministic system; callers must invoke
// it at most once per tick and thread the result explicitly.
func Cycle(t time.Time) int {
	ms := t.UnixMilli()
	c := (ms / 1000) % cycleModulus
	if c < 0 {
		c += cycleModulus
	}
	return int(c)
}

// CycleFromSeconds maps an elapsed-seconds value to a cycle number, for
// drivers that track simulation time instead of wall-clock time.
func CycleFromSeconds(sec float64) int {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0
	}
	c := int(math.Floor(sec)) % cycleModulus
	if c < 0 {
		c += cycleModulus
	}
	return c
}
