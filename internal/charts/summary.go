package charts

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary places the current sample within its background population
type Summary struct {
	Population int     `json:"population"`
	MedianX    float64 `json:"median_x"`
	MedianY    float64 `json:"median_y"`
	Q25Y       float64 `json:"q25_y"`
	Q75Y       float64 `json:"q75_y"`
	// fraction of the population at or below the current value
	RankX float64 `json:"rank_x"`
	RankY float64 `json:"rank_y"`
}

// Summarize computes population statistics for a scatter dataset
func Summarize(ds Dataset) (Summary, error) {
	pop, ok := ds.Find(KindPopulation)
	if !ok || len(pop.X) == 0 {
		return Summary{}, fmt.Errorf("%s chart has no background population", ds.Tab)
	}
	current, ok := ds.Find(KindCurrent)
	if !ok || len(current.X) == 0 {
		return Summary{}, fmt.Errorf("%s chart has no current point", ds.Tab)
	}

	medianX, err := stats.Median(pop.X)
	if err != nil {
		return Summary{}, err
	}
	medianY, err := stats.Median(pop.Y)
	if err != nil {
		return Summary{}, err
	}
	q25, err := stats.Percentile(pop.Y, 25)
	if err != nil {
		return Summary{}, err
	}
	q75, err := stats.Percentile(pop.Y, 75)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Population: len(pop.X),
		MedianX:    medianX,
		MedianY:    medianY,
		Q25Y:       q25,
		Q75Y:       q75,
		RankX:      empiricalRank(current.X[0], pop.X),
		RankY:      empiricalRank(current.Y[0], pop.Y),
	}, nil
}

// empiricalRank evaluates the empirical CDF of values at q
func empiricalRank(q float64, values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.CDF(q, stat.Empirical, sorted, nil)
}
