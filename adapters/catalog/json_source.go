package catalog

import (
	"context"
	"fmt"
	"log"
	"os"

	"exoml/domain/core"
	"exoml/domain/sample"

	"github.com/tidwall/gjson"
)

// JSONSource reads samples from a JSON document. DataPath is a gjson path
// to the array of sample objects ("samples" by default, "." for a bare array).
type JSONSource struct {
	FilePath string
	DataPath string
}

// NewJSONSource creates a JSON catalog source
func NewJSONSource(filePath, dataPath string) *JSONSource {
	return &JSONSource{FilePath: filePath, DataPath: dataPath}
}

func (s *JSONSource) Describe() string { return "json:" + s.FilePath }

func (s *JSONSource) LoadSamples(ctx context.Context) ([]sample.Sample, error) {
	body, err := os.ReadFile(s.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseJSONSamples(body, s.DataPath)
}

// ParseJSONSamples extracts samples from a JSON document
func ParseJSONSamples(body []byte, dataPath string) ([]sample.Sample, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("catalog is not valid JSON")
	}
	if dataPath == "" {
		dataPath = "samples"
	}

	var result gjson.Result
	if dataPath == "." {
		result = gjson.ParseBytes(body)
	} else {
		result = gjson.GetBytes(body, dataPath)
	}
	if !result.Exists() {
		return nil, fmt.Errorf("data path '%s' not found in catalog", dataPath)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("data path '%s' is not an array", dataPath)
	}

	var samples []sample.Sample
	var parseErr error
	result.ForEach(func(key, item gjson.Result) bool {
		smp, err := parseJSONSample(item)
		if err != nil {
			parseErr = fmt.Errorf("catalog entry %d: %w", key.Int(), err)
			return false
		}
		samples = append(samples, smp)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	log.Printf("[JSONSource] Parsed %d samples from path '%s'", len(samples), dataPath)
	return samples, nil
}

func parseJSONSample(item gjson.Result) (sample.Sample, error) {
	id, err := core.ParseSampleID(item.Get("id").String())
	if err != nil {
		return sample.Sample{}, err
	}
	disposition, err := sample.ParseDisposition(item.Get("disposition").String())
	if err != nil {
		return sample.Sample{}, err
	}

	var criteria sample.Criteria
	for _, c := range sample.AllCriteria() {
		v := item.Get("criteria." + c.String())
		if !v.Exists() {
			return sample.Sample{}, fmt.Errorf("missing criterion %s", c)
		}
		criteria[c] = int(v.Int())
	}

	data := item.Get("data")
	return sample.Sample{
		ID:          id,
		Name:        item.Get("name").String(),
		Disposition: disposition,
		Criteria:    criteria,
		Data: sample.Measurements{
			Period:          data.Get("period").Float(),
			Depth:           data.Get("depth").Float(),
			Duration:        data.Get("duration").Float(),
			SNR:             data.Get("snr").Float(),
			PlanetRadius:    data.Get("planetRadius").Float(),
			StarRadius:      data.Get("starRadius").Float(),
			ImpactParameter: data.Get("impactParameter").Float(),
			EquilibriumTemp: data.Get("equilibriumTemp").Float(),
			Insolation:      data.Get("insolation").Float(),
			StellarTeff:     data.Get("stellarTeff").Float(),
			FPFlagNT:        int(data.Get("fpflag_nt").Int()),
			FPFlagSS:        int(data.Get("fpflag_ss").Int()),
			FPFlagCO:        int(data.Get("fpflag_co").Int()),
			FPFlagEC:        int(data.Get("fpflag_ec").Int()),
		},
	}, nil
}
