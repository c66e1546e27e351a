package sample

import (
	"fmt"
	"strings"
)

var fullExplanations = [NumCriteria]string{
	"Strength, depth and periodicity of the dimming signal relative to photometric noise.",
	"Likelihood that the signal comes from an eclipsing binary, a background star or an instrumental artifact.",
	"Whether the inferred radius and density are consistent with a planet around this star.",
	"Whether period, transit duration and impact parameter describe a physically consistent orbit.",
	"Equilibrium temperature and received stellar flux relative to the habitable zone.",
}

var simplifiedExplanations = [NumCriteria]string{
	"How clear and regular the planet's shadow appears.",
	"How likely this is just a false alarm.",
	"Whether the planet size makes sense.",
	"Whether the planet's path looks realistic.",
	"Whether the planet might be the right temperature.",
}

// Explanation returns the criterion description. The simplified wording is
// used while the controls are locked for a model test.
func Explanation(c Criterion, simplified bool) string {
	if !c.valid() {
		return ""
	}
	if simplified {
		return simplifiedExplanations[c]
	}
	return fullExplanations[c]
}

func passFail(flag int) string {
	if flag == 0 {
		return "Passed"
	}
	return "Failed"
}

// TooltipMarkdown describes the measurements behind a criterion as a markdown list
func TooltipMarkdown(c Criterion, d Measurements) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, "- "+format+"\n", args...)
	}

	switch c {
	case TransitSignal:
		b.WriteString("**Transit Signal Analysis:**\n\n")
		line("Signal-to-Noise Ratio: %.1f", d.SNR)
		line("Transit Depth: %.2f%%", d.Depth)
		line("Period: %.2f days", d.Period)
		line("Duration: %.2f hours", d.Duration)
		line("Detection Threshold: >%.1f SNR", DetectionThresholdSNR)
	case FalsePositive:
		b.WriteString("**False Positive Assessment:**\n\n")
		for i, f := range d.Flags() {
			line("%s Flag: %s", FlagLabels[i], passFail(f))
		}
	case PlanetaryPlausibility:
		b.WriteString("**Planetary Characteristics:**\n\n")
		line("Radius: %.2f Earth radii", d.PlanetRadius)
		line("Density Estimate: %.1f g/cm³", DensityEstimate(d.PlanetRadius))
		line("Mass Range: %s", MassRange(d.PlanetRadius))
		line("Population Percentile: %dth", PopulationPercentile(d.PlanetRadius))
	case OrbitPlausibility:
		b.WriteString("**Orbital Parameters:**\n\n")
		line("Impact Parameter: %.3f", d.ImpactParameter)
		if deg, ok := Inclination(d.ImpactParameter); ok {
			line("Inclination: %.1f°", deg)
		} else {
			line("Inclination: n/a (grazing geometry)")
		}
		line("Transit Duration: %.2f hours", d.Duration)
		line("Geometric Probability: %.1f%%", GeometricProbability(d.StarRadius, d.Period))
	case TemperatureHabitability:
		b.WriteString("**Temperature Analysis:**\n\n")
		line("Equilibrium Temp: %gK", d.EquilibriumTemp)
		line("Insolation: %.1f S⊕", d.Insolation)
		line("Habitable Zone: %s", HabitableZoneStatus(d.Insolation))
		line("Climate: %s", ClimateZone(d.EquilibriumTemp))
	default:
		return ""
	}
	return b.String()
}
