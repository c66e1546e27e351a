package export

import (
	"encoding/json"
	"fmt"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/viewer"
)

// Record is the exported snapshot of what the viewer is showing. Field
// order matches the downloaded file.
type Record struct {
	SampleID    core.SampleID   `json:"sampleId"`
	SampleName  string          `json:"sampleName"`
	Criteria    sample.Criteria `json:"criteria"`
	Disposition string          `json:"disposition"`
	Confidence  string          `json:"confidence"`
	Timestamp   core.Timestamp  `json:"timestamp"`
}

// NewRecord captures the displayed values of a state
func NewRecord(st viewer.State, at core.Timestamp) Record {
	return Record{
		SampleID:    st.Sample.ID,
		SampleName:  st.Sample.Name,
		Criteria:    st.Criteria,
		Disposition: st.Sample.Disposition.String(),
		Confidence:  sample.ConfidenceText(st.Confidence()),
		Timestamp:   at,
	}
}

// JSON encodes the record with two-space indentation
func (r Record) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ParseRecord decodes an exported file
func ParseRecord(body []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(body, &r); err != nil {
		return Record{}, fmt.Errorf("invalid export record: %w", err)
	}
	return r, nil
}

// DataFileName is the download name of the JSON export
func DataFileName(id core.SampleID) string {
	return fmt.Sprintf("exoml-data-%s.json", id)
}

// VisualizationFileName is the download name of the chart export
func VisualizationFileName(id core.SampleID) string {
	return fmt.Sprintf("exoml-visualization-%s.png", id)
}
