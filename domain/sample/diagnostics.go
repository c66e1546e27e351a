package sample

import (
	"fmt"
	"math"
	"strconv"
)

// DetectionThresholdSNR is the Kepler pipeline detection threshold
const DetectionThresholdSNR = 7.1

// Metric is one labeled readout in a diagnostic panel
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetectionConfidence buckets the signal-to-noise ratio
func DetectionConfidence(snr float64) string {
	switch {
	case snr > 15:
		return "Very High"
	case snr > 10:
		return "High"
	case snr > 7:
		return "Medium"
	default:
		return "Low"
	}
}

// NoiseLevel is the inverse reading of the SNR buckets
func NoiseLevel(snr float64) string {
	switch {
	case snr > 15:
		return "Low"
	case snr > 10:
		return "Medium"
	default:
		return "High"
	}
}

// DensityEstimate returns g/cm³ for a planet radius in Earth radii
func DensityEstimate(radius float64) float64 {
	switch {
	case radius < 1.5:
		return 5.5
	case radius < 2.5:
		return 4.0
	case radius < 4:
		return 2.5
	default:
		return 1.0
	}
}

// MassRange returns the plausible mass range for a planet radius
func MassRange(radius float64) string {
	switch {
	case radius < 1.5:
		return "0.5-1.5 M⊕"
	case radius < 2.5:
		return "1.5-3.0 M⊕"
	case radius < 4:
		return "3.0-8.0 M⊕"
	default:
		return "8.0-50 M⊕"
	}
}

// PopulationPercentile places a radius within the known-planet population
func PopulationPercentile(radius float64) int {
	switch {
	case radius < 1:
		return 25
	case radius < 2:
		return 50
	case radius < 3:
		return 75
	default:
		return 90
	}
}

// Inclination converts an impact parameter to degrees.
// ok is false when |b| > 1, where the arcsine is undefined.
func Inclination(impact float64) (deg float64, ok bool) {
	if math.Abs(impact) > 1 {
		return 0, false
	}
	return 90 - math.Asin(impact)*180/math.Pi, true
}

// GeometricProbability is a simplified transit probability in percent
func GeometricProbability(starRadius, period float64) float64 {
	if period <= 0 {
		return 0
	}
	return starRadius / (period * 24) * 100
}

// HabitableZoneStatus classifies insolation (Earth flux units)
func HabitableZoneStatus(insolation float64) string {
	switch {
	case insolation > 0.5 && insolation < 2:
		return "Inside"
	case insolation > 0.3 && insolation < 3:
		return "Edge"
	default:
		return "Outside"
	}
}

// ClimateZone classifies equilibrium temperature in Kelvin
func ClimateZone(teq float64) string {
	switch {
	case teq < 200:
		return "Cold Desert"
	case teq < 300:
		return "Temperate"
	case teq < 500:
		return "Hot Desert"
	default:
		return "Inferno"
	}
}

// FlagLabels name the false-positive flags in Flags() order
var FlagLabels = [4]string{"Binary Star", "Stellar Eclipse", "Crowding", "Eclipsing Binary"}

// FlagCodes are the catalog column suffixes in Flags() order
var FlagCodes = [4]string{"nt", "ss", "co", "ec"}

// PanelMetrics returns the readouts shown under the chart of a tab
func PanelMetrics(tab Criterion, d Measurements) []Metric {
	switch tab {
	case TransitSignal:
		return []Metric{
			{"snr-value", "Signal-to-Noise", fmt.Sprintf("%.1f", d.SNR)},
			{"depth-value", "Transit Depth", fmt.Sprintf("%.2f%%", d.Depth)},
			{"detection-confidence", "Detection Confidence", DetectionConfidence(d.SNR)},
			{"noise-level", "Noise Level", NoiseLevel(d.SNR)},
		}
	case FalsePositive:
		flags := d.Flags()
		ids := [4]string{"binary-flag", "stellar-flag", "crowding-flag", "eclipse-flag"}
		out := make([]Metric, 0, len(flags))
		for i, f := range flags {
			out = append(out, Metric{ids[i], FlagLabels[i], strconv.Itoa(f)})
		}
		return out
	case PlanetaryPlausibility:
		return []Metric{
			{"planet-radius", "Planet Radius", fmt.Sprintf("%.2f R⊕", d.PlanetRadius)},
			{"density", "Density Estimate", fmt.Sprintf("%.1f g/cm³", DensityEstimate(d.PlanetRadius))},
			{"mass-range", "Mass Range", MassRange(d.PlanetRadius)},
			{"population-percentile", "Population Percentile", fmt.Sprintf("%dth", PopulationPercentile(d.PlanetRadius))},
		}
	case OrbitPlausibility:
		incl := "n/a"
		if deg, ok := Inclination(d.ImpactParameter); ok {
			incl = fmt.Sprintf("%.1f°", deg)
		}
		return []Metric{
			{"impact-param", "Impact Parameter", fmt.Sprintf("%.3f", d.ImpactParameter)},
			{"inclination", "Inclination", incl},
			{"transit-duration", "Transit Duration", fmt.Sprintf("%.2f hrs", d.Duration)},
			{"geo-probability", "Geometric Probability", fmt.Sprintf("%.1f%%", GeometricProbability(d.StarRadius, d.Period))},
		}
	case TemperatureHabitability:
		return []Metric{
			{"eq-temp", "Equilibrium Temperature", strconv.FormatFloat(d.EquilibriumTemp, 'f', -1, 64) + "K"},
			{"insolation", "Insolation", fmt.Sprintf("%.1f S⊕", d.Insolation)},
			{"hz-status", "Habitable Zone", HabitableZoneStatus(d.Insolation)},
			{"climate-zone", "Climate Zone", ClimateZone(d.EquilibriumTemp)},
		}
	}
	return nil
}
