package catalog

import (
	"context"

	"exoml/domain/sample"
)

// BuiltinSource serves the fixed set of Kepler objects of interest the viewer ships with
type BuiltinSource struct{}

func (BuiltinSource) Describe() string { return "builtin" }

func (BuiltinSource) LoadSamples(ctx context.Context) ([]sample.Sample, error) {
	return BuiltinSamples(), nil
}

// BuiltinSamples returns a fresh copy of the bundled samples
func BuiltinSamples() []sample.Sample {
	return []sample.Sample{
		{
			ID:          "K00752.01",
			Name:        "Kepler-227 b",
			Disposition: sample.DispositionConfirmed,
			Criteria:    sample.Criteria{95, 5, 98, 92, 45},
			Data: sample.Measurements{
				Period: 9.488, Depth: 0.62, Duration: 2.96, SNR: 15.2,
				PlanetRadius: 2.26, StarRadius: 0.927, ImpactParameter: 0.146,
				EquilibriumTemp: 793, Insolation: 35.8, StellarTeff: 5455,
			},
		},
		{
			ID:          "K00752.02",
			Name:        "Kepler-227 c",
			Disposition: sample.DispositionConfirmed,
			Criteria:    sample.Criteria{92, 8, 95, 88, 72},
			Data: sample.Measurements{
				Period: 54.418, Depth: 0.28, Duration: 4.51, SNR: 12.8,
				PlanetRadius: 2.83, StarRadius: 0.927, ImpactParameter: 0.586,
				EquilibriumTemp: 443, Insolation: 9.11, StellarTeff: 5455,
			},
		},
		{
			ID:          "K00753.01",
			Name:        "Unknown Candidate",
			Disposition: sample.DispositionCandidate,
			Criteria:    sample.Criteria{65, 35, 45, 25, 85},
			Data: sample.Measurements{
				Period: 19.899, Depth: 14.6, Duration: 1.78, SNR: 3.2,
				PlanetRadius: 14.6, StarRadius: 0.868, ImpactParameter: 0.969,
				EquilibriumTemp: 638, Insolation: 39.3, StellarTeff: 5853,
			},
		},
		{
			ID:          "K00754.01",
			Name:        "False Positive",
			Disposition: sample.DispositionFalsePositive,
			Criteria:    sample.Criteria{25, 95, 15, 8, 12},
			Data: sample.Measurements{
				Period: 1.737, Depth: 33.46, Duration: 2.41, SNR: 2.1,
				PlanetRadius: 33.46, StarRadius: 0.791, ImpactParameter: 1.276,
				EquilibriumTemp: 1395, Insolation: 891.96, StellarTeff: 5805,
				FPFlagSS: 1,
			},
		},
		{
			ID:          "K00755.01",
			Name:        "Kepler-664 b",
			Disposition: sample.DispositionConfirmed,
			Criteria:    sample.Criteria{88, 12, 92, 85, 38},
			Data: sample.Measurements{
				Period: 2.526, Depth: 2.75, Duration: 1.65, SNR: 18.5,
				PlanetRadius: 2.75, StarRadius: 1.046, ImpactParameter: 0.701,
				EquilibriumTemp: 1406, Insolation: 926.16, StellarTeff: 6031,
			},
		},
	}
}
