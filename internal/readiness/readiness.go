// Package readiness maps the metric stack onto a 0–100 readiness score and a
// discrete status ladder. The evaluator is a pure function of its inputs each
// tick — there is no hidden hysteresis, so flicker near a boundary is
// expected and must be tolerated by consumers.
package readiness

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/spectrum"
)

// Status is the discrete readiness state.
type Status string

const (
	StatusOffline      Status = "offline"
	StatusInitializing Status = "initializing"
	StatusCharging     Status = "charging"
	StatusPreparing    Status = "preparing"
	StatusReady        Status = "ready"
	StatusCritical     Status = "critical"
)

// State is the evaluator output for one tick. It carries no identity of its
// own; it is fully derived from the snapshot, isotope and spectrum.
type State struct {
	Score     float64 `json:"score"`
	Status    Status  `json:"status"`
	Threshold float64 `json:"threshold"`
}

// Inputs collects everything the evaluator reads for one tick.
type Inputs struct {
	TPTT           float64
	PhaseCoherence float64 // Kuramoto order parameter, [0, 1]
	SyncEfficiency float64 // dual-sequence sync, [0, 1]
	Prior          Status  // previous tick's status, for the retained branch
}

// Threshold adjustment constants. The stellar-library discount and the SDSS
// raise are fitted to the source catalogs, not derived.
const (
	stellarRefDistanceLy = 10_000.0 // proximity reference for the discount
	maxStellarDiscount   = 0.90
	sdssBaseRaise        = 1.5
	sdssMaxRaise         = 3.0
	sdssAgeScaleYears    = 1e9
	thresholdFloor       = 1e-6
)

// NeuralConfidence is the neural-sync proxy in [0.5, 1.0], blended from the
// phase coherence and the dual-sequence sync efficiency.
func NeuralConfidence(coherence, syncEff float64) float64 {
	blend := 0.6*clamp01(coherence) + 0.4*clamp01(syncEff)
	return 0.5 + 0.5*blend
}

// AdaptiveThreshold derives the tick's threshold from the base value, the
// spectrum class and the neural confidence multiplier. Stellar-library
// proximity lowers the threshold by up to 90%; SDSS cosmic sources raise it
// with emission age. The result never drops below a small positive floor.
func AdaptiveThreshold(base float64, sample *spectrum.Sample, neural float64) float64 {
	th := base

	if sample != nil {
		switch sample.Source {
		case spectrum.SourceStellarLibrary:
			d := stellarRefDistanceLy / 2
			if sample.Metadata != nil && sample.Metadata.Distance != nil {
				d = *sample.Metadata.Distance
			}
			proximity := clamp01(1 - d/stellarRefDistanceLy)
			th *= 1 - maxStellarDiscount*proximity
		case spectrum.SourceSDSS:
			raise := sdssBaseRaise
			if sample.Metadata != nil && sample.Metadata.EmissionAge != nil {
				raise = 1 + math.Min(sdssMaxRaise-1, *sample.Metadata.EmissionAge/sdssAgeScaleYears)
			}
			th *= raise
		}
	}

	th *= clampNeural(neural)
	return math.Max(th, thresholdFloor)
}

// Score is the logarithmic readiness remap
//
//	clamp(0, 100, (log10(tPTT) − log10(threshold))·20 + 50)
//
// crossing 50 exactly when tPTT equals the threshold and saturating
// gracefully over the ~20 orders of magnitude the model produces.
func Score(tptt, threshold float64) float64 {
	if tptt <= 0 || threshold <= 0 {
		return 0
	}
	s := (math.Log10(tptt)-math.Log10(threshold))*20 + 50
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(100, s))
}

// Evaluate runs the status ladder against an already-adapted threshold.
// Transitions are checked in priority order, first match wins:
//
//	ratio < 0.01            → offline
//	ratio < 0.5             → initializing
//	ratio < 1.0             → charging
//	score < 80              → preparing
//	coherence > 0.6 and
//	neural sync > 0.7       → ready
//	tPTT > threshold·100    → critical
//	otherwise               → prior charging/preparing state retained
func Evaluate(in Inputs, threshold float64) State {
	if threshold <= 0 {
		threshold = thresholdFloor
	}
	score := Score(in.TPTT, threshold)
	neural := NeuralConfidence(in.PhaseCoherence, in.SyncEfficiency)
	ratio := in.TPTT / threshold

	st := State{Score: score, Threshold: threshold}
	switch {
	case ratio < 0.01:
		st.Status = StatusOffline
	case ratio < 0.5:
		st.Status = StatusInitializing
	case ratio < 1.0:
		st.Status = StatusCharging
	case score < 80:
		st.Status = StatusPreparing
	case in.PhaseCoherence > 0.6 && neural > 0.7:
		st.Status = StatusReady
	case in.TPTT > threshold*100:
		st.Status = StatusCritical
	case in.Prior != "":
		st.Status = in.Prior
	default:
		st.Status = StatusPreparing
	}
	return st
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampNeural(v float64) float64 {
	if math.IsNaN(v) || v < 0.5 {
		return 0.5
	}
	if v > 1 {
		return 1
	}
	return v
}
