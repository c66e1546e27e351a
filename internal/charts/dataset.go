package charts

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"exoml/domain/sample"
	"exoml/ports"
)

// SeriesKind says how a series is drawn
type SeriesKind int

const (
	KindPopulation SeriesKind = iota // synthetic background points
	KindReference                    // fixed curve such as a threshold
	KindCurrent                      // the sample's own measurement
)

// Series is a named set of points
type Series struct {
	Name string
	Kind SeriesKind
	X    []float64
	Y    []float64
}

func (s *Series) add(x, y float64) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
}

// Axis describes one chart axis
type Axis struct {
	Title string
	Log   bool
}

// Bar is one column of a bar chart
type Bar struct {
	Label string
	Value float64
}

// Dataset is everything needed to draw one diagnostic tab
type Dataset struct {
	Tab    sample.Criterion
	Title  string
	XAxis  Axis
	YAxis  Axis
	Series []Series
	Bars   []Bar
	YMin   float64
	YMax   float64
}

// IsBar reports whether the dataset is drawn as bars instead of points
func (d Dataset) IsBar() bool { return len(d.Bars) > 0 }

// Find returns the first series of a kind
func (d Dataset) Find(kind SeriesKind) (Series, bool) {
	for _, s := range d.Series {
		if s.Kind == kind {
			return s, true
		}
	}
	return Series{}, false
}

// Background population sizes and ranges
const (
	transitPopulation   = 100
	planetaryPopulation = 200
	orbitalPopulation   = 100
	thermalPopulation   = 100

	// equilibrium temperature of a body receiving Earth's flux, in K
	earthFluxTemp = 280.0
)

// Build assembles the dataset for one tab. Background points are drawn from
// the RNG stream for (sample, tab).
func Build(ctx context.Context, rngPort ports.RNGPort, tab sample.Criterion, smp sample.Sample) (Dataset, error) {
	if tab == sample.FalsePositive {
		return buildFlags(smp), nil
	}

	rng, err := rngPort.Stream(ctx, smp.ID.String(), tab.String(), 0)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open RNG stream: %w", err)
	}

	switch tab {
	case sample.TransitSignal:
		return buildTransit(rng, smp.Data), nil
	case sample.PlanetaryPlausibility:
		return buildPlanetary(rng, smp.Data), nil
	case sample.OrbitPlausibility:
		return buildOrbital(rng, smp.Data), nil
	case sample.TemperatureHabitability:
		return buildTemperature(rng, smp.Data), nil
	}
	return Dataset{}, fmt.Errorf("no chart for tab %s", tab)
}

func uniform(rng *rand.Rand, lo, width float64) float64 {
	return rng.Float64()*width + lo
}

func buildTransit(rng *rand.Rand, d sample.Measurements) Dataset {
	threshold := Series{Name: "Detection Threshold", Kind: KindReference}
	for depth := 0.1; depth <= 10; depth *= 1.2 {
		threshold.add(depth, sample.DetectionThresholdSNR)
	}

	known := Series{Name: "Known Planets", Kind: KindPopulation}
	for i := 0; i < transitPopulation; i++ {
		known.add(uniform(rng, 0.1, 5), uniform(rng, 5, 20))
	}

	current := Series{Name: "Current Planet", Kind: KindCurrent, X: []float64{d.Depth}, Y: []float64{d.SNR}}

	return Dataset{
		Tab:    sample.TransitSignal,
		Title:  "Signal-to-Noise vs Transit Depth",
		XAxis:  Axis{Title: "Transit Depth (%)", Log: true},
		YAxis:  Axis{Title: "Signal-to-Noise Ratio", Log: true},
		Series: []Series{threshold, known, current},
	}
}

func buildFlags(smp sample.Sample) Dataset {
	flags := smp.Data.Flags()
	bars := make([]Bar, len(flags))
	for i, f := range flags {
		bars[i] = Bar{Label: sample.FlagLabels[i], Value: float64(f)}
	}
	return Dataset{
		Tab:   sample.FalsePositive,
		Title: "False Positive Flags",
		XAxis: Axis{Title: "Flag"},
		YAxis: Axis{Title: "Flag Value (0=Pass)"},
		Bars:  bars,
		YMin:  0,
		YMax:  1,
	}
}

func buildPlanetary(rng *rand.Rand, d sample.Measurements) Dataset {
	known := Series{Name: "Known Confirmed Planets", Kind: KindPopulation}
	for i := 0; i < planetaryPopulation; i++ {
		known.add(uniform(rng, 1, 100), uniform(rng, 0.5, 8))
	}
	current := Series{Name: "Current Planet", Kind: KindCurrent, X: []float64{d.Period}, Y: []float64{d.PlanetRadius}}

	return Dataset{
		Tab:    sample.PlanetaryPlausibility,
		Title:  "Planet Radius vs Orbital Period",
		XAxis:  Axis{Title: "Period (days)", Log: true},
		YAxis:  Axis{Title: "Planet Radius (R⊕)", Log: true},
		Series: []Series{known, current},
	}
}

func buildOrbital(rng *rand.Rand, d sample.Measurements) Dataset {
	known := Series{Name: "Known Planets", Kind: KindPopulation}
	for i := 0; i < orbitalPopulation; i++ {
		known.add(uniform(rng, 0, 0.8), uniform(rng, 1, 6))
	}
	current := Series{Name: "Current Planet", Kind: KindCurrent, X: []float64{d.ImpactParameter}, Y: []float64{d.Duration}}

	return Dataset{
		Tab:    sample.OrbitPlausibility,
		Title:  "Transit Duration vs Impact Parameter",
		XAxis:  Axis{Title: "Impact Parameter"},
		YAxis:  Axis{Title: "Transit Duration (hours)"},
		Series: []Series{known, current},
	}
}

func buildTemperature(rng *rand.Rand, d sample.Measurements) Dataset {
	zone := Series{Name: "Habitable Zone", Kind: KindReference}
	for flux := 0.3; flux <= 3; flux *= 1.1 {
		zone.add(flux, earthFluxTemp*math.Sqrt(flux))
	}

	known := Series{Name: "Known Planets", Kind: KindPopulation}
	for i := 0; i < thermalPopulation; i++ {
		flux := uniform(rng, 0.1, 100)
		known.add(flux, earthFluxTemp*math.Sqrt(flux))
	}
	current := Series{Name: "Current Planet", Kind: KindCurrent, X: []float64{d.Insolation}, Y: []float64{d.EquilibriumTemp}}

	return Dataset{
		Tab:    sample.TemperatureHabitability,
		Title:  "Equilibrium Temperature vs Insolation",
		XAxis:  Axis{Title: "Insolation Flux (S⊕)", Log: true},
		YAxis:  Axis{Title: "Equilibrium Temperature (K)"},
		Series: []Series{zone, known, current},
	}
}
