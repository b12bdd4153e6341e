package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/oscillator"
)

// exportShape is the flat serialized state owned by external tooling. Import
// accepts any subset of these fields; unknown or malformed fields are dropped
// per field, never failing the whole document.
type exportShape struct {
	Time          float64         `json:"time"`
	Phases        []float64       `json:"phases"`
	FractalToggle bool            `json:"fractalToggle"`
	Timeline      string          `json:"timeline"`
	Isotope       isotope.Isotope `json:"isotope"`
	Cycle         int             `json:"cycle"`
	Et            float64         `json:"e_t"`
	Phi           float64         `json:"phi"`
	DeltaT        float64         `json:"delta_t"`
}

// Export serializes a state (plus the config constants the shape carries) to
// the flat JSON object.
func Export(st State, cfg Config) ([]byte, error) {
	shape := exportShape{
		Time:          st.Time,
		Phases:        st.Network.Phases,
		FractalToggle: st.FractalToggle,
		Timeline:      string(st.Timeline),
		Isotope:       st.Isotope,
		Cycle:         st.Cycle,
		Et:            st.Et,
		Phi:           cfg.ratio(),
		DeltaT:        cfg.DeltaT,
	}
	data, err := json.Marshal(shape)
	if err != nil {
		return nil, fmt.Errorf("export state: %w", err)
	}
	return data, nil
}

// Import applies a partial flat-state document over a fresh state built from
// cfg. Each field is validated independently: valid fields are applied,
// invalid ones dropped. Only an unparseable top-level object is an error.
func Import(data []byte, cfg Config) (State, Config, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return State{}, cfg, fmt.Errorf("import state: %w", err)
	}

	// Config overrides first, so the rebuilt network sees them.
	if raw, ok := fields["phi"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil && finitePositive(v) {
			cfg.Phi = v
		} else {
			slog.Debug("import: dropping field", "field", "phi")
		}
	}
	if raw, ok := fields["delta_t"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil && finitePositive(v) {
			cfg.DeltaT = v
		} else {
			slog.Debug("import: dropping field", "field", "delta_t")
		}
	}

	st := NewState(cfg)

	if raw, ok := fields["time"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			st.Time = v
		} else {
			slog.Debug("import: dropping field", "field", "time")
		}
	}
	if raw, ok := fields["phases"]; ok {
		var v []float64
		if err := json.Unmarshal(raw, &v); err == nil {
			applyPhases(&st.Network, v)
		} else {
			slog.Debug("import: dropping field", "field", "phases")
		}
	}
	if raw, ok := fields["fractalToggle"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			st.FractalToggle = v
		} else {
			slog.Debug("import: dropping field", "field", "fractalToggle")
		}
	}
	if raw, ok := fields["timeline"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err == nil &&
			(v == string(oscillator.ModePush) || v == string(oscillator.ModePull)) {
			st.Timeline = oscillator.Mode(v)
		} else {
			slog.Debug("import: dropping field", "field", "timeline")
		}
	}
	if raw, ok := fields["isotope"]; ok {
		var v isotope.Isotope
		if err := json.Unmarshal(raw, &v); err == nil && v.Type != "" {
			if !finitePositive(v.Factor) {
				v = isotope.ByType(v.Type)
			}
			st.Isotope = v
		} else {
			slog.Debug("import: dropping field", "field", "isotope")
		}
	}
	if raw, ok := fields["cycle"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err == nil && v >= 0 {
			st.Cycle = v % 1_000_000
		} else {
			slog.Debug("import: dropping field", "field", "cycle")
		}
	}
	if raw, ok := fields["e_t"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			st.Et = clampEt(v)
		} else {
			slog.Debug("import: dropping field", "field", "e_t")
		}
	}

	return st, cfg, nil
}

// applyPhases copies imported phases over the rebuilt network. A short array
// leaves the remaining oscillators at zero; extra entries are dropped, and
// non-finite entries are skipped individually.
func applyPhases(net *oscillator.Network, phases []float64) {
	for i := 0; i < len(phases) && i < len(net.Phases); i++ {
		if math.IsNaN(phases[i]) || math.IsInf(phases[i], 0) {
			continue
		}
		net.Phases[i] = phases[i]
	}
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
