package spectrum

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// SyntheticConfig controls the generated pseudo-continuum.
type SyntheticConfig struct {
	Seed        int64
	LowNm       float64 // lowest wavelength, nanometers
	HighNm      float64 // highest wavelength, nanometers
	Points      int
	Granularity float64 // angstroms
}

// DefaultSyntheticConfig spans the engine's UV-to-IR band range.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Seed:        42,
		LowNm:       350,
		HighNm:      850,
		Points:      256,
		Granularity: 2.0,
	}
}

// Synthetic generates a smooth deterministic spectrum from layered simplex
// noise: a broad continuum plus a finer ripple, normalized to (0, 1].
func Synthetic(cfg SyntheticConfig) *Sample {
	if cfg.Points < 2 {
		cfg.Points = 2
	}
	if cfg.HighNm <= cfg.LowNm {
		cfg.LowNm, cfg.HighNm = 350, 850
	}

	continuum := opensimplex.NewNormalized(cfg.Seed)
	ripple := opensimplex.NewNormalized(cfg.Seed + 1)

	s := &Sample{
		Wavelengths: make([]float64, cfg.Points),
		Intensities: make([]float64, cfg.Points),
		Granularity: cfg.Granularity,
		Source:      SourceSynthetic,
	}

	step := (cfg.HighNm - cfg.LowNm) / float64(cfg.Points-1)
	for i := 0; i < cfg.Points; i++ {
		wl := cfg.LowNm + step*float64(i)
		u := wl / 100.0
		v := 0.7*continuum.Eval2(u*0.5, 0) + 0.3*ripple.Eval2(u*4, 0)
		if v < 0.01 {
			v = 0.01
		}
		s.Wavelengths[i] = wl
		s.Intensities[i] = v
	}
	return s
}
