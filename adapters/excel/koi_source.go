package excel

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"exoml/domain/core"
	"exoml/domain/sample"
)

// KOISource builds samples from a KOI table exported as CSV or XLSX.
// Rows without a full set of criterion scores are skipped; missing
// measurements are treated as zero.
type KOISource struct {
	FilePath string
	Columns  KOIColumns
}

// NewKOISource creates a KOI table source with the archive column names
func NewKOISource(filePath string) *KOISource {
	return &KOISource{FilePath: filePath, Columns: DefaultKOIColumns()}
}

func (s *KOISource) Describe() string { return "koi:" + s.FilePath }

func (s *KOISource) LoadSamples(ctx context.Context) ([]sample.Sample, error) {
	data, err := NewDataReader(s.FilePath).ReadData()
	if err != nil {
		return nil, err
	}
	return s.Convert(data)
}

// Convert maps table rows onto samples
func (s *KOISource) Convert(data *ExcelData) ([]sample.Sample, error) {
	if !data.HasColumn(s.Columns.ID) {
		return nil, fmt.Errorf("KOI table has no %s column", s.Columns.ID)
	}

	criterionCols := make([]string, sample.NumCriteria)
	for _, c := range sample.AllCriteria() {
		for _, candidate := range CriterionColumns(c) {
			if data.HasColumn(candidate) {
				criterionCols[c] = candidate
				break
			}
		}
		if criterionCols[c] == "" {
			return nil, fmt.Errorf("KOI table has no score column for %s", c)
		}
	}

	var samples []sample.Sample
	skipped := 0
	for i, row := range data.Rows {
		smp, err := s.convertRow(row, criterionCols)
		if err != nil {
			skipped++
			log.Printf("[KOISource] Skipping row %d: %v", i+2, err)
			continue
		}
		samples = append(samples, smp)
	}

	log.Printf("[KOISource] Converted %d rows (%d skipped)", len(samples), skipped)
	if len(samples) == 0 {
		return nil, core.ErrEmptyCatalog
	}
	return samples, nil
}

func (s *KOISource) convertRow(row RawRowData, criterionCols []string) (sample.Sample, error) {
	id, err := core.ParseSampleID(row[s.Columns.ID])
	if err != nil {
		return sample.Sample{}, err
	}
	disposition, err := sample.ParseDisposition(row[s.Columns.Disposition])
	if err != nil {
		return sample.Sample{}, err
	}

	var criteria sample.Criteria
	for i, col := range criterionCols {
		raw := row[col]
		if raw == "" {
			return sample.Sample{}, fmt.Errorf("empty %s", col)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sample.Sample{}, fmt.Errorf("invalid %s %q: %w", col, raw, err)
		}
		criteria[i] = sample.Clamp(int(v + 0.5))
	}

	name := row[s.Columns.Name]
	if name == "" {
		name = id.String()
	}

	flags := [4]int{}
	for i, col := range s.Columns.FPFlags {
		flags[i] = int(num(row, col))
	}

	return sample.Sample{
		ID:          id,
		Name:        name,
		Disposition: disposition,
		Criteria:    criteria,
		Data: sample.Measurements{
			Period:          num(row, s.Columns.Period),
			Depth:           num(row, s.Columns.Depth),
			Duration:        num(row, s.Columns.Duration),
			SNR:             num(row, s.Columns.SNR),
			PlanetRadius:    num(row, s.Columns.PlanetRadius),
			StarRadius:      num(row, s.Columns.StarRadius),
			ImpactParameter: num(row, s.Columns.ImpactParameter),
			EquilibriumTemp: num(row, s.Columns.EquilibriumTemp),
			Insolation:      num(row, s.Columns.Insolation),
			StellarTeff:     num(row, s.Columns.StellarTeff),
			FPFlagNT:        flags[0],
			FPFlagSS:        flags[1],
			FPFlagCO:        flags[2],
			FPFlagEC:        flags[3],
		},
	}, nil
}

// num parses a numeric cell; blanks and junk read as zero
func num(row RawRowData, col string) float64 {
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return 0
	}
	return v
}
