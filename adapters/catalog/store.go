package catalog

import (
	"context"
	"fmt"
	"log"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/ports"
)

// Store is the immutable, ordered sample list. It is safe for concurrent
// readers because nothing mutates it after Load.
type Store struct {
	samples []sample.Sample
	byID    map[core.SampleID]int
	source  string
}

var _ ports.SampleCatalog = (*Store)(nil)

// NewStore validates the samples and freezes them in order
func NewStore(samples []sample.Sample) (*Store, error) {
	if len(samples) == 0 {
		return nil, core.ErrEmptyCatalog
	}
	s := &Store{
		samples: make([]sample.Sample, len(samples)),
		byID:    make(map[core.SampleID]int, len(samples)),
	}
	for i, smp := range samples {
		if err := smp.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := s.byID[smp.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate sample ID %s", i, smp.ID)
		}
		s.byID[smp.ID] = i
		s.samples[i] = smp
	}
	return s, nil
}

// Load reads a source once and builds the store
func Load(ctx context.Context, src ports.SampleSource) (*Store, error) {
	samples, err := src.LoadSamples(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples from %s: %w", src.Describe(), err)
	}
	store, err := NewStore(samples)
	if err != nil {
		return nil, err
	}
	store.source = src.Describe()
	log.Printf("[Catalog] Loaded %d samples from %s", store.Len(), store.source)
	return store, nil
}

// Source names where the samples came from
func (s *Store) Source() string { return s.source }

func (s *Store) Len() int { return len(s.samples) }

// At returns the sample at index, or ErrIndexOutOfRange
func (s *Store) At(index int) (sample.Sample, error) {
	if index < 0 || index >= len(s.samples) {
		return sample.Sample{}, core.NewIndexError(index, len(s.samples))
	}
	return s.samples[index], nil
}

// IndexOf finds a sample position by ID
func (s *Store) IndexOf(id string) (int, error) {
	i, ok := s.byID[core.SampleID(id)]
	if !ok {
		return -1, fmt.Errorf("%w: %s", core.ErrSampleNotFound, id)
	}
	return i, nil
}

// All returns a copy of the ordered samples
func (s *Store) All() []sample.Sample {
	out := make([]sample.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}
