package metrics

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
)

// Params carries the displacement-pipeline constants from the engine config.
type Params struct {
	Tau        float64 // time-dilation factor
	ClampBound float64 // overflow clamp for TDF
	GrowthRate float64 // E_t growth multiplier
	Ratio      float64 // model ratio; zero falls back to phi.Phi
}

func (p Params) ratio() float64 {
	if p.Ratio > 0 {
		return p.Ratio
	}
	return phi.Phi
}

// TDFComponents is the displacement chain for one tick.
type TDFComponents struct {
	BlackHoleSeq float64 `json:"black_hole_seq"`
	TDFValue     float64 `json:"tdf_value"`
	EtGrowth     float64 `json:"e_t_growth"`
	SL           float64 `json:"s_l"`
}

// BlackHoleSeq folds the void count through a power of the model ratio:
// (3 · voids · ratio^n) mod π, normalized into [0, π).
func BlackHoleSeq(voids float64, n int, ratio float64) float64 {
	v := math.Mod(3*voids*math.Pow(ratio, float64(n)), math.Pi)
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		v += math.Pi
	}
	return v
}

// EtGrowth is the exponential energy growth term. Negative cycles yield zero;
// an overflowing exponent is pinned at the sentinel rather than infinity.
func EtGrowth(cycle int, multiplier float64) float64 {
	if cycle < 0 {
		return 0
	}
	v := math.Exp(float64(cycle)/50) * multiplier
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) || v > Sentinel {
		return Sentinel
	}
	return v
}

// TDF is the temporal displacement factor. A zero BlackHoleSeq means the
// inverse term is undefined, so the result is exactly zero; otherwise the
// product is clamped into [−bound, bound].
func TDF(tptt, tau, blackHoleSeq, clampBound float64) float64 {
	if blackHoleSeq == 0 {
		return 0
	}
	v := tptt * tau * (1 / blackHoleSeq)
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-clampBound, math.Min(clampBound, v))
}

// DynamicSL applies the piecewise scaling-length rule: above the time-shift
// floor the base value passes through uncapped; below it the cap applies.
func DynamicSL(baseSL, tdfValue float64) float64 {
	if tdfValue > phi.TimeShiftFloor {
		return baseSL
	}
	return math.Min(baseSL, phi.SLCap)
}

// Components composes the displacement chain from the primary metric and the
// cascade parameters.
func Components(tptt float64, cycle int, voids float64, n int, p Params) TDFComponents {
	bhs := BlackHoleSeq(voids, n, p.ratio())
	tdf := TDF(tptt, p.Tau, bhs, p.ClampBound)
	growth := EtGrowth(cycle, p.GrowthRate)
	sl := DynamicSL(p.ratio()*tdf*growth, tdf)
	if math.IsNaN(sl) || math.IsInf(sl, 0) {
		sl = Sentinel
	}
	return TDFComponents{
		BlackHoleSeq: bhs,
		TDFValue:     tdf,
		EtGrowth:     growth,
		SL:           sl,
	}
}

// hiddenLightLen fixes the derived sequence length.
const hiddenLightLen = 10

// TimeShift summarizes whether the current displacement supports a shift.
type TimeShift struct {
	Capable               bool                    `json:"time_shift_capable"`
	BreakthroughValidated bool                    `json:"breakthrough_validated"`
	HiddenLight           [hiddenLightLen]float64 `json:"hidden_light_revealed"`
}

// TimeShiftMetrics derives the shift summary. Capability needs a displacement
// above the floor and phase synchronization above 0.8; the breakthrough band
// is closed — displacement outside (5e12, 6e12) is not a breakthrough no
// matter how large.
func TimeShiftMetrics(c TDFComponents, phaseSync float64, p Params) TimeShift {
	ts := TimeShift{
		Capable: c.TDFValue > phi.TimeShiftFloor && phaseSync > 0.8,
		BreakthroughValidated: c.TDFValue > phi.TDFBreakthroughLow &&
			c.TDFValue < phi.TDFBreakthroughHigh,
	}
	for i := 0; i < hiddenLightLen; i++ {
		ts.HiddenLight[i] = math.Abs(math.Sin(c.TDFValue/1e12+float64(i)*phi.Phi)) * p.Tau
	}
	return ts
}
