package engine

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/metrics"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/oscillator"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/seed"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/spectrum"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/wave"
)

// E_t accumulation bounds and leak rate. The clamp guarantees the primary
// metric never sees a zero denominator.
const (
	etFloor = 0.1
	etCeil  = 1.0
	etLeak  = 0.99
)

// Tick advances the simulation by one step: phases, wave field, metric chain,
// readiness. It returns the new state together with the tick's snapshot and
// readiness evaluation; the input state is not mutated.
func Tick(st State, elapsed float64, cfg Config, iso isotope.Isotope, sample *spectrum.Sample) (State, Snapshot, readiness.State) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = st.Time
	}
	st.Time = elapsed
	st.Cycle = seed.CycleFromSeconds(elapsed)
	st.Isotope = iso

	// Phase synchronization.
	st.Network = oscillator.Advance(st.Network, oscillator.Params{
		K:            cfg.K,
		Dt:           cfg.DeltaT,
		DarkPhase:    cfg.DarkPhase,
		FractalScale: cfg.FractalScale,
	}, st.FractalToggle, iso, st.Timeline)
	coherence := oscillator.Coherence(st.Network.Phases)

	// Wave field, sampled at the origin probe and weighted by the spectrum
	// intensity at each band index (modulo the sample length).
	field := wave.Field(0, st.Time, iso, st.Timeline, cfg.Freq)
	if sample.Valid() {
		for i := range field {
			field[i] *= 0.5 + sample.IntensityAt(i)
		}
	}
	ps := wave.MeanPower(field)

	// Energy accumulation: leaky integration of the wave power, clamped so a
	// zero E_t can never reach the primary metric.
	st.Et = clampEt(st.Et*etLeak + (1-etLeak)*ps)

	// Primary metric.
	tc := coherence
	tptt := metrics.TPTT(tc, ps, st.Et, cfg.DeltaT)

	// Displacement chain.
	p := metrics.Params{
		Tau:        cfg.Tau,
		ClampBound: cfg.ClampBound,
		GrowthRate: cfg.GrowthRate,
		Ratio:      cfg.ratio(),
	}
	comps := metrics.Components(tptt, st.Cycle, cfg.Voids, cfg.CascadeN, p)

	// Cascade chain.
	idx := metrics.CascadeIndex(cfg.Voids, cfg.CascadeN)
	cti := metrics.CTI(comps.TDFValue, idx, cfg.Tau, cfg.CascadeN)
	qEnt := metrics.QEnt(cti, cfg.CascadeN, cfg.DeltaPhase)

	// Dual-sequence sync window.
	st.SeqWindow = append(st.SeqWindow, metrics.NewSeqPair(comps.TDFValue, idx))
	if len(st.SeqWindow) > seqWindowLen {
		st.SeqWindow = st.SeqWindow[len(st.SeqWindow)-seqWindowLen:]
	}
	syncEff := metrics.SyncEfficiency(st.SeqWindow)

	snap := Snapshot{
		TC:             tc,
		PS:             ps,
		Et:             st.Et,
		TPTT:           tptt,
		TDFValue:       comps.TDFValue,
		Tau:            cfg.Tau,
		BlackHoleSeq:   comps.BlackHoleSeq,
		SL:             comps.SL,
		EtGrowth:       comps.EtGrowth,
		CTI:            cti,
		QEnt:           qEnt,
		CascadeIndex:   idx,
		Coherence:      coherence,
		SyncEfficiency: syncEff,
		TimeShift:      metrics.TimeShiftMetrics(comps, coherence, p),
		Rippel:         metrics.Rippel(st.Time, tptt, st.Et),
	}
	snap.sanitize()

	// Readiness.
	neural := readiness.NeuralConfidence(coherence, syncEff)
	threshold := readiness.AdaptiveThreshold(cfg.BaseThreshold, sample, neural)
	ready := readiness.Evaluate(readiness.Inputs{
		TPTT:           snap.TPTT,
		PhaseCoherence: coherence,
		SyncEfficiency: syncEff,
		Prior:          st.Prior,
	}, threshold)
	st.Prior = ready.Status

	return st, snap, ready
}

func clampEt(v float64) float64 {
	if math.IsNaN(v) {
		return etFloor
	}
	return math.Max(etFloor, math.Min(etCeil, v))
}
