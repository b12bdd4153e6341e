// Package spectrum defines the external spectrum sample contract and a
// synthetic provider for standalone runs. The engine only ever reads samples;
// ownership stays with the provider.
package spectrum

// Source tags where a sample came from.
type Source string

const (
	SourceSynthetic      Source = "SYNTHETIC"
	SourceSDSS           Source = "SDSS"
	SourceStellarLibrary Source = "STELLAR_LIBRARY"
)

// Metadata carries the optional astronomical context of a sample. Distance
// and EmissionAge, when present, parameterize the adaptive-threshold
// discount.
type Metadata struct {
	Distance    *float64 `json:"distance,omitempty"`    // light-years
	EmissionAge *float64 `json:"emissionAge,omitempty"` // years
	Redshift    *float64 `json:"redshift,omitempty"`
	Class       string   `json:"class,omitempty"`
	ObjID       string   `json:"objid,omitempty"`
}

// Sample is one read-only spectrum handed to the engine. Wavelengths and
// Intensities must be equal length; Granularity is in angstroms.
type Sample struct {
	Wavelengths []float64 `json:"wavelengths"`
	Intensities []float64 `json:"intensities"`
	Granularity float64   `json:"granularity"`
	Source      Source    `json:"source"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Valid reports whether the sample satisfies the provider contract.
func (s *Sample) Valid() bool {
	if s == nil {
		return false
	}
	return len(s.Wavelengths) > 0 &&
		len(s.Wavelengths) == len(s.Intensities) &&
		s.Granularity > 0
}

// IntensityAt reads an intensity by band index, wrapping modulo the sample
// length. Returns 0 for an invalid sample.
func (s *Sample) IntensityAt(band int) float64 {
	if !s.Valid() {
		return 0
	}
	n := len(s.Intensities)
	i := band % n
	if i < 0 {
		i += n
	}
	return s.Intensities[i]
}
