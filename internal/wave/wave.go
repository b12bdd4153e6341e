// Package wave produces the per-band scalar wave field from the oscillator
// phases, the selected isotope and a spectral wavelength.
package wave

import (
	"math"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/isotope"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/oscillator"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/phi"
)

// Amplitude limits. The base envelope depends on transport mode; the final
// value is lifted by a small offset and hard-clamped so no band can run away.
const (
	pushEnvelope = 1.2
	pullEnvelope = 0.8
	envelopeCap  = 1.5
	baseOffset   = 0.1
	clampBound   = 2.0
)

// Band is one fixed catalog entry. Only the wavelength is consumed by the
// engine; name and color are presentation metadata for external renderers.
type Band struct {
	Name       string
	Wavelength float64 // nanometers
	Color      string  // display hex
}

// Bands is the ordered UV-to-IR catalog, one wave evaluation per band per
// tick.
var Bands = []Band{
	{Name: "ultraviolet", Wavelength: 350, Color: "#7b00b4"},
	{Name: "violet", Wavelength: 400, Color: "#8f00ff"},
	{Name: "blue", Wavelength: 450, Color: "#0048ff"},
	{Name: "cyan", Wavelength: 490, Color: "#00d5ff"},
	{Name: "green", Wavelength: 530, Color: "#00c957"},
	{Name: "yellow", Wavelength: 580, Color: "#ffd000"},
	{Name: "orange", Wavelength: 620, Color: "#ff7300"},
	{Name: "red", Wavelength: 680, Color: "#ff1e00"},
	{Name: "near-infrared", Wavelength: 750, Color: "#b20000"},
	{Name: "infrared", Wavelength: 850, Color: "#5c0000"},
}

// WavelengthRange returns the catalog's low and high wavelengths.
func WavelengthRange() (low, high float64) {
	return Bands[0].Wavelength, Bands[len(Bands)-1].Wavelength
}

// Amplitude evaluates the wave field at position x and time t for one
// harmonic band:
//
//	A · sin(2πx/λ − 2π·freq·t·Φ^h + φ_mode) · factor
//
// where A = min(1.2 or 0.8 by mode, 1.5). The result is offset by +0.1 and
// clamped to [−2, 2]. A non-positive wavelength yields the bare offset.
func Amplitude(x, t float64, harmonic int, iso isotope.Isotope, wavelength float64, mode oscillator.Mode, freq float64) float64 {
	if wavelength <= 0 {
		return baseOffset
	}

	envelope := pullEnvelope
	if mode == oscillator.ModePush {
		envelope = pushEnvelope
	}
	envelope = math.Min(envelope, envelopeCap)

	arg := 2*math.Pi*x/wavelength - 2*math.Pi*freq*t*phi.Pow(harmonic) + mode.PhaseOffset()
	v := envelope*math.Sin(arg)*iso.Factor + baseOffset

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return baseOffset
	}
	return math.Max(-clampBound, math.Min(clampBound, v))
}

// Field evaluates every catalog band at position x and time t, returning the
// amplitudes in band order.
func Field(x, t float64, iso isotope.Isotope, mode oscillator.Mode, freq float64) []float64 {
	out := make([]float64, len(Bands))
	for i, b := range Bands {
		out[i] = Amplitude(x, t, i, iso, b.Wavelength, mode, freq)
	}
	return out
}

// MeanPower is the mean absolute amplitude of a field, the wave aggregate
// consumed by the primary metric.
func MeanPower(field []float64) float64 {
	if len(field) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range field {
		sum += math.Abs(v)
	}
	return sum / float64(len(field))
}
