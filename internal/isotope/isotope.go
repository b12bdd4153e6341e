// Package isotope defines the isotope value object selected by the operator.
// The factor scales wave amplitude and phase coupling; the type is a label.
package isotope

// Isotope is an immutable (type, factor) pair.
type Isotope struct {
	Type   string  `json:"type"`
	Factor float64 `json:"factor"`
}

// Catalog lists the selectable isotopes in display order.
var Catalog = []Isotope{
	{Type: "C-12", Factor: 1.0},
	{Type: "C-13", Factor: 0.92},
	{Type: "C-14", Factor: 0.85},
	{Type: "O-16", Factor: 1.08},
	{Type: "Si-28", Factor: 1.17},
	{Type: "Fe-56", Factor: 1.31},
}

// Default returns the baseline isotope (C-12, factor 1).
func Default() Isotope {
	return Catalog[0]
}

// ByType looks up an isotope by its label. Unknown labels fall back to the
// default rather than failing.
func ByType(name string) Isotope {
	for _, iso := range Catalog {
		if iso.Type == name {
			return iso
		}
	}
	return Default()
}
