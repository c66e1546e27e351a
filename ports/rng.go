package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for chart backgrounds
type RNGPort interface {
	// Stream creates a deterministic RNG stream for one sample's diagnostic tab,
	// so the same sample and tab always draw the same background population
	Stream(ctx context.Context, sampleID, tab string, baseSeed int64) (*rand.Rand, error)
}
