package explain

import (
	"context"
	"fmt"
	"log"
	"math"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/errors"
	"exoml/ports"

	"github.com/tidwall/gjson"
)

// Explanation is the per-sample payload served to external front ends
type Explanation struct {
	Prediction string                    `json:"prediction"`
	Confidence float64                   `json:"confidence"`
	Criteria   map[string]CriterionScore `json:"criteria"`
}

// CriterionScore is a criterion's share of the total score plus the data
// behind its visual
type CriterionScore struct {
	Score  int                    `json:"score"`
	Visual map[string]interface{} `json:"visual"`
}

// FeedbackRecorder stores submitted corrections
type FeedbackRecorder interface {
	SaveFeedback(ctx context.Context, f *ports.FeedbackSubmission) error
}

// Service answers explanation and retrain requests against the catalog
type Service struct {
	catalog  ports.SampleCatalog
	feedback FeedbackRecorder
}

// NewService creates the backend service. feedback may be nil, in which
// case corrections are only logged.
func NewService(catalog ports.SampleCatalog, feedback FeedbackRecorder) *Service {
	return &Service{catalog: catalog, feedback: feedback}
}

// Explain builds the explanation for the sample at index
func (s *Service) Explain(index int) (*Explanation, error) {
	smp, err := s.catalog.At(index)
	if err != nil {
		return nil, errors.WithCode(errors.CodeNotFound, err)
	}

	scores := Scores(smp.Criteria)
	out := &Explanation{
		Prediction: smp.Disposition.String(),
		Confidence: sample.Confidence(smp.Disposition, smp.Criteria) / 100,
		Criteria:   make(map[string]CriterionScore, sample.NumCriteria),
	}
	for _, c := range sample.AllCriteria() {
		out.Criteria[c.ModelName()] = CriterionScore{
			Score:  scores[c],
			Visual: Visual(c, smp.Data),
		}
	}
	return out, nil
}

// Scores normalizes the criteria to integer shares of their total,
// truncating. All zero criteria give all zero shares.
func Scores(cr sample.Criteria) [sample.NumCriteria]int {
	var out [sample.NumCriteria]int
	total := 0
	for _, v := range cr {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range cr {
		out[i] = int(math.Floor(float64(v) / float64(total) * 100))
	}
	return out
}

// Visual returns the chart data a front end needs for one criterion
func Visual(c sample.Criterion, d sample.Measurements) map[string]interface{} {
	switch c {
	case sample.TransitSignal:
		return map[string]interface{}{
			"type": "feature_bars",
			"features_used": map[string]float64{
				"koi_depth":     d.Depth,
				"koi_duration":  d.Duration,
				"koi_model_snr": d.SNR,
				"koi_impact":    d.ImpactParameter,
				"koi_period":    d.Period,
			},
		}
	case sample.FalsePositive:
		flags := map[string]int{}
		for i, f := range d.Flags() {
			flags["koi_fpflag_"+sample.FlagCodes[i]] = f
		}
		return map[string]interface{}{"type": "flag_bars", "flags": flags}
	case sample.PlanetaryPlausibility:
		var ratio interface{}
		if d.StarRadius > 0 {
			ratio = d.PlanetRadius / d.StarRadius
		}
		return map[string]interface{}{
			"type":          "planet_vs_star",
			"planet_radius": d.PlanetRadius,
			"star_radius":   d.StarRadius,
			"ratio":         ratio,
		}
	case sample.OrbitPlausibility:
		return map[string]interface{}{
			"type":     "orbit_plot",
			"period":   d.Period,
			"duration": d.Duration,
			"impact":   d.ImpactParameter,
		}
	case sample.TemperatureHabitability:
		return map[string]interface{}{
			"type":         "temperature_gauge",
			"planet_teq":   d.EquilibriumTemp,
			"stellar_teff": d.StellarTeff,
			"insolation":   d.Insolation,
		}
	}
	return nil
}

// Retrain accepts scientist feedback. The body names the sample by
// "sample_id", "sampleId" or catalog "index" and carries a full "criteria"
// object.
func (s *Service) Retrain(ctx context.Context, body []byte) (*ports.FeedbackSubmission, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("feedback is not valid JSON")
	}
	doc := gjson.ParseBytes(body)

	smp, err := s.resolveSample(doc)
	if err != nil {
		return nil, err
	}

	criteria := smp.Criteria
	if raw := doc.Get("criteria"); raw.Exists() {
		if err := criteria.UnmarshalJSON([]byte(raw.Raw)); err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid criteria: %v", err))
		}
	}

	fb := &ports.FeedbackSubmission{
		ID:          core.FeedbackID(core.NewID()),
		SampleID:    smp.ID,
		Criteria:    criteria,
		SubmittedAt: core.Now(),
	}
	log.Printf("[Explain] Feedback for %s: %v", fb.SampleID, fb.Criteria.Map())

	if s.feedback != nil {
		if err := s.feedback.SaveFeedback(ctx, fb); err != nil {
			return nil, errors.Wrap(err, "failed to store feedback")
		}
	}
	return fb, nil
}

func (s *Service) resolveSample(doc gjson.Result) (sample.Sample, error) {
	for _, key := range []string{"sample_id", "sampleId"} {
		if id := doc.Get(key); id.Exists() {
			index, err := s.catalog.IndexOf(id.String())
			if err != nil {
				return sample.Sample{}, errors.WithCode(errors.CodeNotFound, err)
			}
			return s.catalog.At(index)
		}
	}
	if idx := doc.Get("index"); idx.Exists() {
		smp, err := s.catalog.At(int(idx.Int()))
		if err != nil {
			return sample.Sample{}, errors.WithCode(errors.CodeNotFound, err)
		}
		return smp, nil
	}
	return sample.Sample{}, errors.InvalidInput("feedback must name a sample_id or index")
}
