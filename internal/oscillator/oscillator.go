// Package oscillator advances the coupled phase network at the heart of the
// simulation. The coupling is Kuramoto-style: each oscillator is pulled
// toward every other through a sine of their phase difference, shifted by the
// dark-phase offset and the transport mode.
package oscillator

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/seed"
)

// Mode selects the transport direction. Push advances the field, pull
// reverses it; the two differ only by the sign of a quarter-turn offset.
type Mode string

const (
	ModePush Mode = "push"
	ModePull Mode = "pull"
)

// PhaseOffset returns the mode's phase offset (±π/4).
func (m Mode) PhaseOffset() float64 {
	if m == ModePull {
		return -math.Pi / 4
	}
	return math.Pi / 4
}

// Network holds the phase angles, natural frequencies and last angular
// velocities of N coupled oscillators. A Network is a plain value; Advance
// returns a new one and never mutates its input.
type Network struct {
	Phases   []float64 `json:"phases"`
	Omega    []float64 `json:"omega"`
	Velocity []float64 `json:"velocity"`
}

// Params are the coupling constants threaded from the engine config.
type Params struct {
	K            float64 // coupling strength
	Dt           float64 // integration step
	DarkPhase    float64 // dark-phase offset added to every coupling term
	FractalScale float64 // S, scaled by the isotope factor when fractal is on
}

// NewNetwork builds an N-oscillator network with phases at zero and natural
// frequencies derived deterministically from the base frequency. The jitter
// comes from the seed generator so two networks built from the same config
// are identical.
func NewNetwork(n int, baseHz float64) Network {
	if n < 1 {
		n = 1
	}
	net := Network{
		Phases:   make([]float64, n),
		Omega:    make([]float64, n),
		Velocity: make([]float64, n),
	}
	for i := range net.Omega {
		jitter := 0.9 + 0.2*seed.Scalar(7, i+1)
		net.Omega[i] = 2 * math.Pi * baseHz * jitter
	}
	return net
}

// Clone returns a deep copy of the network.
func (n Network) Clone() Network {
	out := Network{
		Phases:   make([]float64, len(n.Phases)),
		Omega:    make([]float64, len(n.Omega)),
		Velocity: make([]float64, len(n.Velocity)),
	}
	copy(out.Phases, n.Phases)
	copy(out.Omega, n.Omega)
	copy(out.Velocity, n.Velocity)
	return out
}

// Advance integrates the network one step. For each oscillator i the coupling
// sum runs over all j != i:
//
//	sin(θ_j − θ_i + φ_dark + φ_mode + fractal_term)
//
// with fractal_term = S·factor when fractal shaping is enabled. The new
// angular velocity is ω_i + (K / max(N−1, 1)) · Σ, and the phase advances by
// velocity·dt. A non-finite velocity (degenerate input phases) retains the
// oscillator's previous phase and velocity instead of propagating NaN.
func Advance(n Network, p Params, fractal bool, iso isotope.Isotope, mode Mode) Network {
	out := n.Clone()
	count := len(n.Phases)
	if count == 0 {
		return out
	}

	offset := p.DarkPhase + mode.PhaseOffset()
	if fractal {
		offset += p.FractalScale * iso.Factor
	}
	gain := p.K / math.Max(float64(count-1), 1)

	for i := 0; i < count; i++ {
		sum := 0.0
		for j := 0; j < count; j++ {
			if j == i {
				continue
			}
			sum += math.Sin(n.Phases[j] - n.Phases[i] + offset)
		}

		omega := 0.0
		if i < len(n.Omega) {
			omega = n.Omega[i]
		}
		vel := omega + gain*sum
		if math.IsNaN(vel) || math.IsInf(vel, 0) {
			continue // keep previous phase and velocity
		}

		out.Velocity[i] = vel
		out.Phases[i] = wrap(n.Phases[i] + vel*p.Dt)
	}
	return out
}

// Coherence is the Kuramoto order parameter magnitude
// |mean(cos θ) + i·mean(sin θ)|, always in [0, 1]. Fewer than 2 oscillators
// carry no coherence.
func Coherence(phases []float64) float64 {
	if len(phases) < 2 {
		return 0
	}
	var re, im float64
	for _, p := range phases {
		re += math.Cos(p)
		im += math.Sin(p)
	}
	re /= float64(len(phases))
	im /= float64(len(phases))
	r := math.Hypot(re, im)
	if r > 1 {
		r = 1
	}
	return r
}

// wrap normalizes an angle into [0, 2π).
func wrap(theta float64) float64 {
	t := math.Mod(theta, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	return t
}
