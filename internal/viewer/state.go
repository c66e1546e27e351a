package viewer

import (
	"exoml/domain/sample"
	"exoml/internal/modes"
)

// State is everything a render needs. It is a value: controllers hand out
// copies and Render never mutates it.
type State struct {
	Index    int
	Total    int
	Sample   sample.Sample
	Criteria sample.Criteria
	Tab      sample.Criterion
	Mode     modes.Status
}

// HasPrev reports whether "previous" would move
func (s State) HasPrev() bool { return s.Index > 0 }

// HasNext reports whether "next" would move
func (s State) HasNext() bool { return s.Index < s.Total-1 }

// Confidence is the derived confidence for the working criteria
func (s State) Confidence() float64 {
	return sample.Confidence(s.Sample.Disposition, s.Criteria)
}

// Modified reports whether the working criteria differ from the sample's
func (s State) Modified() bool {
	return s.Criteria != s.Sample.Criteria
}
