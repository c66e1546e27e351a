package rng

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"exoml/ports"
)

// Seeded derives deterministic streams from a sample id and tab name, so a
// chart background is stable for as long as the same sample is on screen.
type Seeded struct{}

var _ ports.RNGPort = Seeded{}

// Stream creates the RNG for one sample's diagnostic tab
func (Seeded) Stream(ctx context.Context, sampleID, tab string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := baseSeed
	if sampleID != "" {
		seed = int64(hashString(sampleID)) + seed
	}
	if tab != "" {
		seed = int64(hashString(tab)) + seed
	}
	return rand.New(rand.NewSource(seed)), nil
}

// PerRender ignores the identifiers and hands out a fresh stream on every
// call, which regenerates chart backgrounds each time they are drawn.
type PerRender struct {
	counter atomic.Int64
}

var _ ports.RNGPort = (*PerRender)(nil)

func (p *PerRender) Stream(ctx context.Context, sampleID, tab string, baseSeed int64) (*rand.Rand, error) {
	return p.next(ctx)
}

func (p *PerRender) next(ctx context.Context) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano() + p.counter.Add(1)
	return rand.New(rand.NewSource(seed)), nil
}

// New returns the stream provider for a CHART_POPULATION mode
func New(mode string) ports.RNGPort {
	if mode == "per-render" {
		return &PerRender{}
	}
	return Seeded{}
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}
