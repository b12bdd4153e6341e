// Package engine threads an explicit state value through the temporal
// simulation pipeline: one tick advances the oscillator network, recomputes
// the wave field and the metric chain, and evaluates readiness. The engine is
// single-threaded and synchronous; a tick is one ordered sequence of pure
// calls with no I/O and no suspension points.
package engine

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/metrics"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/oscillator"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
)

// Oscillator frequency modes.
const (
	ModeCRhythm = "c_rhythm"
	Mode528Hz   = "528hz"
)

// Config holds the immutable engine constants. Created once at startup and
// never mutated; a copy travels with every tick call.
type Config struct {
	K             float64 `yaml:"k" json:"k"`                           // oscillator coupling strength
	N             int     `yaml:"n" json:"n"`                           // oscillator count
	Phi           float64 `yaml:"phi" json:"phi"`                       // model ratio (displacement pipeline)
	Freq          float64 `yaml:"freq" json:"freq"`                     // base frequency, Hz
	DeltaT        float64 `yaml:"delta_t" json:"delta_t"`               // integration step, seconds
	DarkPhase     float64 `yaml:"dark_phase" json:"dark_phase"`         // dark-phase coupling offset, radians
	FractalScale  float64 `yaml:"fractal_scale" json:"fractal_scale"`   // S, fractal shaping constant
	Tau           float64 `yaml:"tau" json:"tau"`                       // time-dilation factor
	Mode          string  `yaml:"mode" json:"mode"`                     // c_rhythm | 528hz
	ClampBound    float64 `yaml:"clamp_bound" json:"clamp_bound"`       // TDF overflow clamp
	GrowthRate    float64 `yaml:"growth_rate" json:"growth_rate"`       // E_t growth multiplier
	BaseThreshold float64 `yaml:"base_threshold" json:"base_threshold"` // readiness threshold before adaptation

	// Cascade attempt parameters.
	Voids      float64 `yaml:"voids" json:"voids"`
	CascadeN   int     `yaml:"cascade_n" json:"cascade_n"`
	DeltaPhase float64 `yaml:"delta_phase" json:"delta_phase"`
}

// DefaultConfig returns the tuned engine constants.
func DefaultConfig() Config {
	return Config{
		K:             0.5,
		N:             3,
		Phi:           phi.Phi,
		Freq:          7.83,
		DeltaT:        0.016,
		DarkPhase:     0.25,
		FractalScale:  0.3,
		Tau:           0.865,
		Mode:          ModeCRhythm,
		ClampBound:    1e15,
		GrowthRate:    1.0,
		BaseThreshold: 1e9,
		Voids:         1,
		CascadeN:      34,
		DeltaPhase:    0.3,
	}
}

// BaseFrequency resolves the oscillator frequency for the configured mode.
func (c Config) BaseFrequency() float64 {
	if c.Mode == Mode528Hz {
		return 528
	}
	return c.Freq
}

// ratio resolves the displacement-pipeline ratio with the Phi default.
func (c Config) ratio() float64 {
	if c.Phi > 0 {
		return c.Phi
	}
	return phi.Phi
}

// seqWindowLen bounds the dual-sequence history consumed by the sync score.
const seqWindowLen = 16

// State is the complete mutable simulation state. It is a plain value:
// single-writer per tick, freely copyable between ticks.
type State struct {
	Time          float64 // elapsed simulation seconds
	Cycle         int     // deterministic cycle for this tick
	Network       oscillator.Network
	Et            float64 // accumulated energy, clamped [0.1, 1.0]
	FractalToggle bool
	Isotope       isotope.Isotope
	Timeline      oscillator.Mode // push | pull

	// Dual-sequence sync window and readiness carry-over. Neither feeds the
	// metric snapshot directly.
	SeqWindow []metrics.SeqPair
	Prior     readiness.Status
}

// NewState builds the initial state for a config.
func NewState(cfg Config) State {
	n := cfg.N
	if n < 1 {
		n = 1
	}
	return State{
		Network:  oscillator.NewNetwork(n, cfg.BaseFrequency()),
		Et:       etFloor,
		Isotope:  isotope.Default(),
		Timeline: oscillator.ModePush,
	}
}

// Snapshot is the full derived-value chain for one tick, recomputed whole.
// Every field is finite; non-finite intermediates are clamped before they
// reach the caller.
type Snapshot struct {
	TC           float64 `json:"T_c"`
	PS           float64 `json:"P_s"`
	Et           float64 `json:"E_t"`
	TPTT         float64 `json:"tPTT"`
	TDFValue     float64 `json:"TDF_value"`
	Tau          float64 `json:"tau"`
	BlackHoleSeq float64 `json:"BlackHole_Seq"`
	SL           float64 `json:"S_L"`
	EtGrowth     float64 `json:"E_t_growth"`
	CTI          float64 `json:"CTI"`
	QEnt         float64 `json:"Q_ent"`
	CascadeIndex int     `json:"cascade_index"`

	Coherence      float64           `json:"coherence"`
	SyncEfficiency float64           `json:"sync_efficiency"`
	TimeShift      metrics.TimeShift `json:"time_shift"`
	Rippel         string            `json:"rippel"`
}

// finite pins NaN to zero and infinities to the metric sentinel.
func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) {
		return metrics.Sentinel
	}
	if math.IsInf(v, -1) {
		return -metrics.Sentinel
	}
	return v
}

// sanitize enforces the all-finite snapshot invariant.
func (s *Snapshot) sanitize() {
	s.TC = finite(s.TC)
	s.PS = finite(s.PS)
	s.Et = finite(s.Et)
	s.TPTT = finite(s.TPTT)
	s.TDFValue = finite(s.TDFValue)
	s.Tau = finite(s.Tau)
	s.BlackHoleSeq = finite(s.BlackHoleSeq)
	s.SL = finite(s.SL)
	s.EtGrowth = finite(s.EtGrowth)
	s.CTI = finite(s.CTI)
	s.QEnt = finite(s.QEnt)
	s.Coherence = finite(s.Coherence)
	s.SyncEfficiency = finite(s.SyncEfficiency)
	for i := range s.TimeShift.HiddenLight {
		s.TimeShift.HiddenLight[i] = finite(s.TimeShift.HiddenLight[i])
	}
}
