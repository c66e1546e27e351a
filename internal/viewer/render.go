package viewer

import (
	"exoml/domain/sample"
	"exoml/internal/modes"
)

// View is the declarative form of the page, bound directly by the template
// and returned as JSON by the state endpoint.
type View struct {
	Index   int  `json:"index"`
	Total   int  `json:"total"`
	HasPrev bool `json:"has_prev"`
	HasNext bool `json:"has_next"`

	SampleID        string `json:"sample_id"`
	SampleName      string `json:"sample_name"`
	Disposition     string `json:"disposition"`
	DispositionSlug string `json:"disposition_slug"`

	Confidence        float64 `json:"confidence"`
	ConfidencePercent int     `json:"confidence_percent"`
	ConfidenceText    string  `json:"confidence_text"`

	Criteria []CriterionView `json:"criteria"`
	Modified bool            `json:"modified"`

	Tab     string          `json:"tab"`
	Tabs    []TabView       `json:"tabs"`
	Metrics []sample.Metric `json:"metrics"`

	Mode           string `json:"mode"`
	ControlsLocked bool   `json:"controls_locked"`
	SubmitEnabled  bool   `json:"submit_enabled"`
	SubmitLabel    string `json:"submit_label"`
	TestLabel      string `json:"test_label"`
	LastAccuracy   string `json:"last_accuracy,omitempty"`
}

// CriterionView is one slider row with its contribution bar
type CriterionView struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Value       int    `json:"value"`
	Original    int    `json:"original"`
	Tone        string `json:"tone"`
	Explanation string `json:"explanation"`
	Active      bool   `json:"active"`
}

// TabView is one entry of the diagnostic tab strip
type TabView struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Render maps a state onto its view
func Render(s State) View {
	conf := s.Confidence()
	locked := s.Mode.ControlsLocked()

	v := View{
		Index:   s.Index,
		Total:   s.Total,
		HasPrev: s.HasPrev(),
		HasNext: s.HasNext(),

		SampleID:        s.Sample.ID.String(),
		SampleName:      s.Sample.Name,
		Disposition:     s.Sample.Disposition.String(),
		DispositionSlug: s.Sample.Disposition.Slug(),

		Confidence:        conf,
		ConfidencePercent: sample.RoundPercent(conf),
		ConfidenceText:    sample.ConfidenceText(conf),

		Modified: s.Modified(),
		Tab:      s.Tab.String(),
		Metrics:  sample.PanelMetrics(s.Tab, s.Sample.Data),

		Mode:           string(s.Mode.Mode),
		ControlsLocked: locked,
		SubmitEnabled:  s.Mode.SubmitEnabled(),
		SubmitLabel:    submitLabel(s.Mode.Retrain),
		TestLabel:      "Test Mode",
	}
	if locked {
		v.TestLabel = "Testing..."
	}
	if s.Mode.LastAccuracy > 0 {
		v.LastAccuracy = modes.FormatAccuracy(s.Mode.LastAccuracy)
	}

	for _, c := range sample.AllCriteria() {
		value := s.Criteria[c]
		v.Criteria = append(v.Criteria, CriterionView{
			Key:         c.String(),
			Label:       c.Label(),
			Value:       value,
			Original:    s.Sample.Criteria[c],
			Tone:        sample.Tone(value),
			Explanation: sample.Explanation(c, locked),
			Active:      c == s.Tab,
		})
		v.Tabs = append(v.Tabs, TabView{Key: c.String(), Label: c.Label(), Active: c == s.Tab})
	}
	return v
}

func submitLabel(phase modes.RetrainPhase) string {
	switch phase {
	case modes.RetrainRunning:
		return "Retraining Model..."
	case modes.RetrainCompleting:
		return "Retrained!"
	default:
		return "Submit Corrections"
	}
}
