package oscillator

import (
	"math"
	"testing"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
)

func TestCoherence_Bounds(t *testing.T) {
	cases := []struct {
		name   string
		phases []float64
	}{
		{"aligned", []float64{1.2, 1.2, 1.2, 1.2}},
		{"spread", []float64{0, 1, 2, 3, 4, 5}},
		{"pair", []float64{0, math.Pi}},
		{"many", []float64{0.1, 0.9, 2.2, 3.3, 4.4, 5.5, 6.1}},
	}
	for _, c := range cases {
		r := Coherence(c.phases)
		if r < 0 || r > 1 {
			t.Errorf("%s: coherence = %v, want [0, 1]", c.name, r)
		}
	}
}

func TestCoherence_AllEqual(t *testing.T) {
	r := Coherence([]float64{0.7, 0.7, 0.7})
	if math.Abs(r-1) > 1e-12 {
		t.Errorf("coherence of equal phases = %v, want 1", r)
	}
}

func TestCoherence_EvenlySpaced(t *testing.T) {
	// Three phases at exact thirds of the circle sum to the zero vector.
	phases := []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3}
	r := Coherence(phases)
	if r > 1e-9 {
		t.Errorf("coherence of evenly spaced phases = %v, want 0", r)
	}
}

func TestCoherence_TooFew(t *testing.T) {
	if r := Coherence([]float64{1.5}); r != 0 {
		t.Errorf("single-oscillator coherence = %v, want 0", r)
	}
	if r := Coherence(nil); r != 0 {
		t.Errorf("empty coherence = %v, want 0", r)
	}
}

func TestAdvance_EvenlySpacedStaysIncoherent(t *testing.T) {
	// A symmetric configuration shifts uniformly under coupling, so its
	// coherence stays at zero after a tick.
	net := Network{
		Phases:   []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3},
		Omega:    []float64{1, 1, 1},
		Velocity: make([]float64, 3),
	}
	p := Params{K: 0.5, Dt: 0.016, DarkPhase: 0.25, FractalScale: 0.3}

	out := Advance(net, p, false, isotope.Isotope{Type: "C-12", Factor: 1.0}, ModePush)
	if r := Coherence(out.Phases); r > 1e-9 {
		t.Errorf("coherence after tick = %v, want 0", r)
	}
}

func TestAdvance_Deterministic(t *testing.T) {
	net := NewNetwork(5, 7.83)
	p := Params{K: 0.5, Dt: 0.016, DarkPhase: 0.25, FractalScale: 0.3}
	iso := isotope.Default()

	a := Advance(net, p, true, iso, ModePull)
	b := Advance(net, p, true, iso, ModePull)
	for i := range a.Phases {
		if a.Phases[i] != b.Phases[i] {
			t.Fatalf("phase %d differs between identical advances: %v vs %v",
				i, a.Phases[i], b.Phases[i])
		}
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	net := NewNetwork(4, 7.83)
	before := append([]float64(nil), net.Phases...)
	p := Params{K: 0.5, Dt: 0.016}

	Advance(net, p, false, isotope.Default(), ModePush)
	for i := range before {
		if net.Phases[i] != before[i] {
			t.Fatalf("Advance mutated input phase %d", i)
		}
	}
}

func TestAdvance_NonFiniteRetainsPrevious(t *testing.T) {
	net := Network{
		Phases:   []float64{0.5, 1.5},
		Omega:    []float64{math.Inf(1), 2},
		Velocity: []float64{0.1, 0.2},
	}
	p := Params{K: 1, Dt: 0.016}

	out := Advance(net, p, false, isotope.Default(), ModePush)
	if out.Phases[0] != 0.5 || out.Velocity[0] != 0.1 {
		t.Errorf("degenerate oscillator changed: phase=%v vel=%v",
			out.Phases[0], out.Velocity[0])
	}
	if math.IsNaN(out.Phases[1]) || math.IsInf(out.Phases[1], 0) {
		t.Errorf("healthy oscillator produced non-finite phase %v", out.Phases[1])
	}
}

func TestAdvance_PhasesWrapped(t *testing.T) {
	net := Network{
		Phases:   []float64{6.2, 0.1, 3.0},
		Omega:    []float64{100, 100, 100},
		Velocity: make([]float64, 3),
	}
	p := Params{K: 0.2, Dt: 0.5}

	out := Advance(net, p, false, isotope.Default(), ModePush)
	for i, ph := range out.Phases {
		if ph < 0 || ph >= 2*math.Pi {
			t.Errorf("phase %d = %v, want [0, 2π)", i, ph)
		}
	}
}

func TestNewNetwork_Deterministic(t *testing.T) {
	a := NewNetwork(8, 7.83)
	b := NewNetwork(8, 7.83)
	for i := range a.Omega {
		if a.Omega[i] != b.Omega[i] {
			t.Fatalf("omega %d differs across identical constructions", i)
		}
	}
}

func TestModePhaseOffset(t *testing.T) {
	if got := ModePush.PhaseOffset(); got != math.Pi/4 {
		t.Errorf("push offset = %v, want π/4", got)
	}
	if got := ModePull.PhaseOffset(); got != -math.Pi/4 {
		t.Errorf("pull offset = %v, want -π/4", got)
	}
}
