package metrics

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
)

// quantumResolution is the fixed-point resolution used when the two cascade
// operands are quantized for the XOR combination. Fitted, not derived; the
// hard CTICap is the contract, the bit strategy is an implementation choice.
const quantumResolution = 1000.0

// CascadeIndex is the combinatorial cascade parameter floor(π/voids) + n.
// Non-positive void counts are normalized to 1 rather than dividing by zero.
func CascadeIndex(voids float64, n int) int {
	if voids <= 0 {
		voids = 1
	}
	return int(math.Floor(math.Pi/voids)) + n
}

// CTI combines the displacement term tdf·cascadeIndex with the dilation term
// tau·Φ^n through a quantized XOR. Both operands are normalized by the larger
// magnitude before fixed-point quantization so the combination is scale-free;
// the XOR result is rescaled by the same resolution and capped hard at CTICap.
func CTI(tdf float64, cascadeIndex int, tau float64, n int) float64 {
	a := finiteAbs(tdf * float64(cascadeIndex))
	b := finiteAbs(tau * phi.Pow(n))
	m := math.Max(a, b)
	if m == 0 {
		return 0
	}
	x := uint64(a/m*quantumResolution) ^ uint64(b/m*quantumResolution)
	return math.Min(phi.CTICap, float64(x)/quantumResolution)
}

func finiteAbs(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Abs(v)
}

// QEnt is the entanglement quotient of a cascade at depth n:
//
//	|CTI · cos(Φn/2)/π · sin(Φn/4) · e^(−n/20)| · (1+δφ) · ln(n+1)
//
// Depth is floored at zero so the logarithm stays defined.
func QEnt(cti float64, n int, deltaPhase float64) float64 {
	if n < 0 {
		n = 0
	}
	fn := float64(n)
	v := math.Abs(cti*math.Cos(phi.Phi*fn/2)/math.Pi*
		math.Sin(phi.Phi*fn/4)*math.Exp(-fn/20)) *
		(1 + deltaPhase) * math.Log(fn+1)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TransportScore maps (Q_ent, CTI) onto [0, 1].
func TransportScore(qEnt, cti float64) float64 {
	return math.Min(1.0, qEnt*10+(cti/phi.CTICap)*0.3)
}

// Efficiency is the transport score as a percentage.
func Efficiency(qEnt, cti float64) float64 {
	return TransportScore(qEnt, cti) * 100
}

// SeqPair is one observation of the dual displacement sequences:
// seq1 = floor(TDF/1e10), seq2 = seq1 + cascadeIndex.
type SeqPair struct {
	Seq1 int64 `json:"seq1"`
	Seq2 int64 `json:"seq2"`
}

// NewSeqPair derives the pair for the current tick.
func NewSeqPair(tdf float64, cascadeIndex int) SeqPair {
	s1 := int64(math.Floor(tdf / 1e10))
	return SeqPair{Seq1: s1, Seq2: s1 + int64(cascadeIndex)}
}

// SyncEfficiency scores how well the two sequences track each other over the
// recent window, in [0, 1]. The trajectories are compared by their step
// increments; a constant offset is perfect sync, a drifting offset decays the
// score. Fewer than two observations are trivially synchronized.
func SyncEfficiency(window []SeqPair) float64 {
	if len(window) < 2 {
		return 1
	}
	var drift, scale float64
	for i := 1; i < len(window); i++ {
		d1 := float64(window[i].Seq1 - window[i-1].Seq1)
		d2 := float64(window[i].Seq2 - window[i-1].Seq2)
		drift += math.Abs(d2 - d1)
		scale += math.Abs(d1)
	}
	steps := float64(len(window) - 1)
	drift /= steps
	scale = scale/steps + 1
	eff := 1 - drift/scale
	if eff < 0 {
		return 0
	}
	return eff
}
