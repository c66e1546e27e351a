package sample

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceByDisposition(t *testing.T) {
	tests := []struct {
		name        string
		disposition Disposition
		criteria    Criteria
		expected    float64
		display     int
	}{
		{"confirmed below floor", DispositionConfirmed, Criteria{95, 5, 98, 92, 45}, 85, 85},
		{"confirmed above floor", DispositionConfirmed, Criteria{100, 90, 100, 90, 95}, 95, 95},
		{"false positive inverted", DispositionFalsePositive, Criteria{25, 95, 15, 8, 12}, 69, 69},
		{"candidate under cap", DispositionCandidate, Criteria{65, 35, 45, 25, 85}, 51, 51},
		{"candidate capped", DispositionCandidate, Criteria{100, 100, 100, 100, 90}, 80, 80},
		{"fractional average rounds", DispositionFalsePositive, Criteria{50, 50, 50, 50, 52}, 49.6, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.disposition, tt.criteria)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.Equal(t, tt.display, RoundPercent(got))
		})
	}
}

func TestConfidenceBoundsHoldForEveryValue(t *testing.T) {
	for v := MinCriterionValue; v <= MaxCriterionValue; v++ {
		c := Criteria{v, v, v, v, v}
		assert.GreaterOrEqual(t, Confidence(DispositionConfirmed, c), 85.0)
		assert.LessOrEqual(t, Confidence(DispositionCandidate, c), 80.0)
		assert.InDelta(t, 100-float64(v), Confidence(DispositionFalsePositive, c), 1e-9)
	}
}

func TestRoundPercentHalfUp(t *testing.T) {
	assert.Equal(t, 67, RoundPercent(66.5))
	assert.Equal(t, 66, RoundPercent(66.4))
	assert.Equal(t, 0, RoundPercent(0.49))
	assert.Equal(t, "69% Confidence", ConfidenceText(69))
}

func TestTone(t *testing.T) {
	assert.Equal(t, "positive", Tone(71))
	assert.Equal(t, "neutral", Tone(70))
	assert.Equal(t, "neutral", Tone(40))
	assert.Equal(t, "negative", Tone(39))
}

func TestCriteriaClampAndWith(t *testing.T) {
	base := Criteria{10, 20, 30, 40, 50}
	assert.Equal(t, 100, base.With(TransitSignal, 250)[TransitSignal])
	assert.Equal(t, 0, base.With(OrbitPlausibility, -3)[OrbitPlausibility])
	assert.Equal(t, 10, base[TransitSignal], "With must not mutate the receiver")
	assert.InDelta(t, 30.0, base.Average(), 1e-9)
}

func TestCriteriaJSONKeepsDisplayOrder(t *testing.T) {
	c := Criteria{95, 5, 98, 92, 45}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t,
		`{"transit-signal":95,"false-positive":5,"planetary-plausibility":98,"orbit-plausibility":92,"temperature-habitability":45}`,
		string(data))

	var back Criteria
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestCriteriaJSONRejectsBadInput(t *testing.T) {
	var c Criteria
	assert.Error(t, json.Unmarshal([]byte(`{"transit-signal":1}`), &c), "missing keys")
	assert.Error(t, json.Unmarshal([]byte(`{"transit-signal":1,"false-positive":1,"planetary-plausibility":1,"orbit-plausibility":1,"bogus":1}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"transit-signal":101,"false-positive":1,"planetary-plausibility":1,"orbit-plausibility":1,"temperature-habitability":1}`), &c))
}

func TestParseCriterionAndDisposition(t *testing.T) {
	for _, c := range AllCriteria() {
		parsed, err := ParseCriterion(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseCriterion("habitability")
	assert.Error(t, err)

	d, err := ParseDisposition("false_positive")
	require.NoError(t, err)
	assert.Equal(t, DispositionFalsePositive, d)
	assert.Equal(t, "false-positive", d.Slug())

	_, err = ParseDisposition("REFUTED")
	assert.Error(t, err)
}
