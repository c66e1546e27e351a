package excel

import (
	"strings"

	"exoml/domain/sample"
)

// KOIColumns maps Kepler Objects of Interest table columns onto sample fields.
// Defaults follow the NASA Exoplanet Archive cumulative KOI table.
type KOIColumns struct {
	ID          string
	Name        string
	Disposition string

	Period          string
	Depth           string
	Duration        string
	SNR             string
	PlanetRadius    string
	StarRadius      string
	ImpactParameter string
	EquilibriumTemp string
	Insolation      string
	StellarTeff     string
	FPFlags         [4]string // nt, ss, co, ec
}

// DefaultKOIColumns returns the archive column names
func DefaultKOIColumns() KOIColumns {
	return KOIColumns{
		ID:              "kepoi_name",
		Name:            "kepler_name",
		Disposition:     "koi_disposition",
		Period:          "koi_period",
		Depth:           "koi_depth",
		Duration:        "koi_duration",
		SNR:             "koi_model_snr",
		PlanetRadius:    "koi_prad",
		StarRadius:      "koi_srad",
		ImpactParameter: "koi_impact",
		EquilibriumTemp: "koi_teq",
		Insolation:      "koi_insol",
		StellarTeff:     "koi_steff",
		FPFlags:         [4]string{"koi_fpflag_nt", "koi_fpflag_ss", "koi_fpflag_co", "koi_fpflag_ec"},
	}
}

// CriterionColumns lists the accepted headers for a criterion score:
// the slug itself ("orbit-plausibility") or "criteria_orbit_plausibility".
func CriterionColumns(c sample.Criterion) []string {
	slug := c.String()
	return []string{slug, "criteria_" + strings.ReplaceAll(slug, "-", "_")}
}
