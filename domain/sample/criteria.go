package sample

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"exoml/domain/core"
)

// Criterion identifies one of the five fixed evaluation criteria.
// The same slugs name the diagnostic tabs.
type Criterion int

const (
	TransitSignal Criterion = iota
	FalsePositive
	PlanetaryPlausibility
	OrbitPlausibility
	TemperatureHabitability

	NumCriteria = 5
)

const (
	MinCriterionValue = 0
	MaxCriterionValue = 100
)

var criterionSlugs = [NumCriteria]string{
	"transit-signal",
	"false-positive",
	"planetary-plausibility",
	"orbit-plausibility",
	"temperature-habitability",
}

var criterionLabels = [NumCriteria]string{
	"Transit Signal",
	"False Positive",
	"Planetary Plausibility",
	"Orbit Plausibility",
	"Temperature Habitability",
}

// names used by the explanation backend
var criterionModelNames = [NumCriteria]string{
	"Transit Signal Reliability",
	"False Positive Likelihood",
	"Planetary Plausibility",
	"Orbit Plausibility",
	"Temperature Plausibility",
}

// AllCriteria returns the criteria in display order
func AllCriteria() []Criterion {
	return []Criterion{TransitSignal, FalsePositive, PlanetaryPlausibility, OrbitPlausibility, TemperatureHabitability}
}

// ParseCriterion maps a slug such as "orbit-plausibility" to its Criterion
func ParseCriterion(slug string) (Criterion, error) {
	for i, s := range criterionSlugs {
		if s == slug {
			return Criterion(i), nil
		}
	}
	return 0, core.NewCriterionError(slug)
}

func (c Criterion) valid() bool { return c >= 0 && int(c) < NumCriteria }

func (c Criterion) String() string {
	if !c.valid() {
		return "criterion(" + strconv.Itoa(int(c)) + ")"
	}
	return criterionSlugs[c]
}

// Label is the human readable criterion name
func (c Criterion) Label() string {
	if !c.valid() {
		return c.String()
	}
	return criterionLabels[c]
}

// ModelName is the criterion name used in explanation payloads
func (c Criterion) ModelName() string {
	if !c.valid() {
		return c.String()
	}
	return criterionModelNames[c]
}

// Criteria holds one integer score per criterion, indexed by Criterion.
// It marshals as an object keyed by slug, in display order.
type Criteria [NumCriteria]int

// Clamp bounds a raw slider value to [0,100]
func Clamp(v int) int {
	if v < MinCriterionValue {
		return MinCriterionValue
	}
	if v > MaxCriterionValue {
		return MaxCriterionValue
	}
	return v
}

// With returns a copy with c set to the clamped value
func (cr Criteria) With(c Criterion, v int) Criteria {
	cr[c] = Clamp(v)
	return cr
}

// Average is the arithmetic mean of the five values
func (cr Criteria) Average() float64 {
	sum := 0
	for _, v := range cr {
		sum += v
	}
	return float64(sum) / NumCriteria
}

// Map returns the criteria keyed by slug
func (cr Criteria) Map() map[string]int {
	m := make(map[string]int, NumCriteria)
	for i, v := range cr {
		m[criterionSlugs[i]] = v
	}
	return m
}

func (cr Criteria) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range cr {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(criterionSlugs[i]))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(v))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (cr *Criteria) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Criteria
	seen := 0
	for k, v := range raw {
		c, err := ParseCriterion(k)
		if err != nil {
			return err
		}
		if v < MinCriterionValue || v > MaxCriterionValue {
			return fmt.Errorf("criterion %s=%d outside [%d,%d]", k, v, MinCriterionValue, MaxCriterionValue)
		}
		out[c] = v
		seen++
	}
	if seen != NumCriteria {
		return fmt.Errorf("expected %d criteria, got %d", NumCriteria, seen)
	}
	*cr = out
	return nil
}
