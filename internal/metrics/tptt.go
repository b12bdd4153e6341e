// Package metrics implements the derived-value chain of the temporal
// transport model: the primary tPTT metric, the displacement pipeline
// (TDF, S_L, E_t growth) and the cascade pipeline (CTI, Q_ent). Every
// function is a pure transform with local guards; nothing here panics or
// returns an error — degenerate inputs pin the output at a documented
// bound until inputs recover.
package metrics

import (
	"fmt"
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
)

// Sentinel is the large finite value substituted when a zero denominator
// reaches the primary metric. Upstream clamping keeps E_t in [0.1, 1.0], so
// hitting the sentinel signals an invariant violation upstream.
const Sentinel = 1e15

// TPTT computes the primary transport metric
//
//	T_c · (P_s / E_t) · Φ · (C / Δt)
//
// A zero E_t or Δt would divide by zero; both are defaulted to the Sentinel
// instead of propagating infinity.
func TPTT(tc, ps, et, dt float64) float64 {
	if et == 0 || dt == 0 {
		return Sentinel
	}
	v := tc * (ps / et) * phi.Phi * (phi.C / dt)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sentinel
	}
	return v
}

// rippelTemplates are the three fixed status phrases. The selection by
// floor(time) mod 3 is part of the contract; the wording is presentation.
var rippelTemplates = []string{
	"temporal ripple at %.3e — field energy %.2f",
	"phase front holding %.3e — reservoir %.2f",
	"displacement surge %.3e — charge %.2f",
}

// Rippel renders the status phrase for the current tick.
func Rippel(time, tptt, et float64) string {
	idx := 0
	if !math.IsNaN(time) && !math.IsInf(time, 0) {
		idx = int(math.Floor(time)) % 3
		if idx < 0 {
			idx += 3
		}
	}
	return fmt.Sprintf(rippelTemplates[idx], tptt, et)
}
