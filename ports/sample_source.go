package ports

import (
	"context"

	"exoml/domain/sample"
)

// SampleSource loads the catalog of samples the viewer pages through.
// Sources are read once at startup; the resulting list is immutable.
type SampleSource interface {
	LoadSamples(ctx context.Context) ([]sample.Sample, error)
	Describe() string
}

// SampleCatalog is read-only, index-addressed access to the loaded samples
type SampleCatalog interface {
	Len() int
	At(index int) (sample.Sample, error)
	IndexOf(id string) (int, error)
	All() []sample.Sample
}
