package sample

import (
	"fmt"
	"strings"

	"exoml/domain/core"
)

// Disposition is the catalog label of a transit candidate
type Disposition string

const (
	DispositionConfirmed     Disposition = "CONFIRMED"
	DispositionCandidate     Disposition = "CANDIDATE"
	DispositionFalsePositive Disposition = "FALSE POSITIVE"
)

// ParseDisposition accepts the catalog spellings ("FALSE POSITIVE", "false-positive", "FALSE_POSITIVE")
func ParseDisposition(s string) (Disposition, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch Disposition(norm) {
	case DispositionConfirmed, DispositionCandidate, DispositionFalsePositive:
		return Disposition(norm), nil
	}
	return "", fmt.Errorf("unknown disposition %q", s)
}

// Slug is the lower-case, dash-separated form used for styling hooks
func (d Disposition) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(d)), " ", "-")
}

func (d Disposition) String() string { return string(d) }

// Measurements are the astrophysical values a sample was vetted on.
// Depth is in percent, duration in hours, radii in Earth/Solar radii,
// temperatures in Kelvin.
type Measurements struct {
	Period          float64 `json:"period"`
	Depth           float64 `json:"depth"`
	Duration        float64 `json:"duration"`
	SNR             float64 `json:"snr"`
	PlanetRadius    float64 `json:"planetRadius"`
	StarRadius      float64 `json:"starRadius"`
	ImpactParameter float64 `json:"impactParameter"`
	EquilibriumTemp float64 `json:"equilibriumTemp"`
	Insolation      float64 `json:"insolation"`
	StellarTeff     float64 `json:"stellarTeff"`
	FPFlagNT        int     `json:"fpflag_nt"`
	FPFlagSS        int     `json:"fpflag_ss"`
	FPFlagCO        int     `json:"fpflag_co"`
	FPFlagEC        int     `json:"fpflag_ec"`
}

// Flags returns the false-positive flags in display order (nt, ss, co, ec)
func (m Measurements) Flags() [4]int {
	return [4]int{m.FPFlagNT, m.FPFlagSS, m.FPFlagCO, m.FPFlagEC}
}

// Sample is one immutable labeled record of the catalog
type Sample struct {
	ID          core.SampleID `json:"id"`
	Name        string        `json:"name"`
	Disposition Disposition   `json:"disposition"`
	Criteria    Criteria      `json:"criteria"`
	Data        Measurements  `json:"data"`
}

// Validate checks the invariants a catalog entry must satisfy
func (s Sample) Validate() error {
	if s.ID.String() == "" {
		return fmt.Errorf("sample ID cannot be empty")
	}
	if _, err := ParseDisposition(string(s.Disposition)); err != nil {
		return fmt.Errorf("sample %s: %w", s.ID, err)
	}
	for _, c := range AllCriteria() {
		if v := s.Criteria[c]; v < MinCriterionValue || v > MaxCriterionValue {
			return fmt.Errorf("sample %s: criterion %s=%d outside [%d,%d]", s.ID, c, v, MinCriterionValue, MaxCriterionValue)
		}
	}
	return nil
}
