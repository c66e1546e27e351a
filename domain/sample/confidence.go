package sample

import (
	"fmt"
	"math"
)

const (
	confirmedFloor = 85.0
	candidateCap   = 80.0
)

// Confidence derives the displayed confidence from the working criteria.
// It is a display heuristic, not an inference: the criteria average is
// inverted for false positives, floored for confirmed planets and capped
// for candidates.
func Confidence(d Disposition, c Criteria) float64 {
	avg := c.Average()
	switch d {
	case DispositionFalsePositive:
		return 100 - avg
	case DispositionConfirmed:
		return math.Max(avg, confirmedFloor)
	case DispositionCandidate:
		return math.Min(avg, candidateCap)
	}
	return avg
}

// RoundPercent rounds half up, matching how the readout is displayed
func RoundPercent(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ConfidenceText is the readout label, e.g. "85% Confidence"
func ConfidenceText(v float64) string {
	return fmt.Sprintf("%d%% Confidence", RoundPercent(v))
}

// Tone classifies a contribution bar
func Tone(value int) string {
	switch {
	case value > 70:
		return "positive"
	case value < 40:
		return "negative"
	default:
		return "neutral"
	}
}
