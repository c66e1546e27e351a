package charts

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoml/adapters/catalog"
	"exoml/adapters/rng"
	"exoml/domain/core"
	"exoml/domain/sample"
)

func builtin(t *testing.T, index int) sample.Sample {
	t.Helper()
	return catalog.BuiltinSamples()[index]
}

func TestBuildTransitDataset(t *testing.T) {
	ds, err := Build(context.Background(), rng.Seeded{}, sample.TransitSignal, builtin(t, 0))
	require.NoError(t, err)

	threshold, ok := ds.Find(KindReference)
	require.True(t, ok)
	for _, y := range threshold.Y {
		assert.Equal(t, sample.DetectionThresholdSNR, y)
	}
	assert.InDelta(t, 0.1, threshold.X[0], 1e-12)
	assert.LessOrEqual(t, threshold.X[len(threshold.X)-1], 10.0)

	pop, ok := ds.Find(KindPopulation)
	require.True(t, ok)
	require.Len(t, pop.X, 100)
	for i := range pop.X {
		assert.True(t, pop.X[i] >= 0.1 && pop.X[i] < 5.1, "depth %v", pop.X[i])
		assert.True(t, pop.Y[i] >= 5 && pop.Y[i] < 25, "snr %v", pop.Y[i])
	}

	current, ok := ds.Find(KindCurrent)
	require.True(t, ok)
	assert.Equal(t, []float64{0.62}, current.X)
	assert.Equal(t, []float64{15.2}, current.Y)
}

func TestBuildPopulationRanges(t *testing.T) {
	smp := builtin(t, 1)
	ctx := context.Background()

	planetary, err := Build(ctx, rng.Seeded{}, sample.PlanetaryPlausibility, smp)
	require.NoError(t, err)
	pop, _ := planetary.Find(KindPopulation)
	require.Len(t, pop.X, 200)
	for i := range pop.X {
		assert.True(t, pop.X[i] >= 1 && pop.X[i] < 101)
		assert.True(t, pop.Y[i] >= 0.5 && pop.Y[i] < 8.5)
	}

	orbital, err := Build(ctx, rng.Seeded{}, sample.OrbitPlausibility, smp)
	require.NoError(t, err)
	pop, _ = orbital.Find(KindPopulation)
	require.Len(t, pop.X, 100)
	for i := range pop.X {
		assert.True(t, pop.X[i] >= 0 && pop.X[i] < 0.8)
		assert.True(t, pop.Y[i] >= 1 && pop.Y[i] < 7)
	}

	thermal, err := Build(ctx, rng.Seeded{}, sample.TemperatureHabitability, smp)
	require.NoError(t, err)
	zone, _ := thermal.Find(KindReference)
	for i := range zone.X {
		assert.InDelta(t, 280*math.Sqrt(zone.X[i]), zone.Y[i], 1e-9)
		assert.True(t, zone.X[i] >= 0.3 && zone.X[i] <= 3)
	}
	pop, _ = thermal.Find(KindPopulation)
	for i := range pop.X {
		assert.InDelta(t, 280*math.Sqrt(pop.X[i]), pop.Y[i], 1e-9)
	}
}

func TestBuildFlags(t *testing.T) {
	ds, err := Build(context.Background(), rng.Seeded{}, sample.FalsePositive, builtin(t, 3))
	require.NoError(t, err)
	require.True(t, ds.IsBar())
	assert.Equal(t, []Bar{
		{"Binary Star", 0}, {"Stellar Eclipse", 1}, {"Crowding", 0}, {"Eclipsing Binary", 0},
	}, ds.Bars)
	assert.Equal(t, 0.0, ds.YMin)
	assert.Equal(t, 1.0, ds.YMax)
}

func TestSeededPopulationIsStable(t *testing.T) {
	ctx := context.Background()
	smp := builtin(t, 0)

	a, err := Build(ctx, rng.Seeded{}, sample.OrbitPlausibility, smp)
	require.NoError(t, err)
	b, err := Build(ctx, rng.Seeded{}, sample.OrbitPlausibility, smp)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := Build(ctx, rng.Seeded{}, sample.OrbitPlausibility, builtin(t, 1))
	require.NoError(t, err)
	popA, _ := a.Find(KindPopulation)
	popO, _ := other.Find(KindPopulation)
	assert.NotEqual(t, popA.X, popO.X)
}

func TestPerRenderPopulationChanges(t *testing.T) {
	ctx := context.Background()
	src := rng.New("per-render")

	a, err := Build(ctx, src, sample.TransitSignal, builtin(t, 0))
	require.NoError(t, err)
	b, err := Build(ctx, src, sample.TransitSignal, builtin(t, 0))
	require.NoError(t, err)

	popA, _ := a.Find(KindPopulation)
	popB, _ := b.Find(KindPopulation)
	assert.NotEqual(t, popA.X, popB.X)
}

func TestSummarize(t *testing.T) {
	ds, err := Build(context.Background(), rng.Seeded{}, sample.TransitSignal, builtin(t, 4))
	require.NoError(t, err)

	sum, err := Summarize(ds)
	require.NoError(t, err)
	assert.Equal(t, 100, sum.Population)
	assert.True(t, sum.MedianY > 5 && sum.MedianY < 25)
	assert.LessOrEqual(t, sum.Q25Y, sum.MedianY)
	assert.GreaterOrEqual(t, sum.Q75Y, sum.MedianY)
	assert.True(t, sum.RankY >= 0 && sum.RankY <= 1)

	flags, err := Build(context.Background(), rng.Seeded{}, sample.FalsePositive, builtin(t, 4))
	require.NoError(t, err)
	_, err = Summarize(flags)
	assert.Error(t, err)
}

func TestRendererSummary(t *testing.T) {
	r := NewRenderer(rng.Seeded{}, 640, 400, 1)
	ctx := context.Background()

	sum, err := r.Summary(ctx, builtin(t, 4), sample.TransitSignal)
	require.NoError(t, err)
	assert.Equal(t, 100, sum.Population)

	_, err = r.Summary(ctx, builtin(t, 4), sample.FalsePositive)
	assert.ErrorIs(t, err, core.ErrNoChart)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Summary(cancelled, builtin(t, 4), sample.TransitSignal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmpiricalRank(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	assert.Equal(t, 0.0, empiricalRank(0.5, values))
	assert.Equal(t, 0.6, empiricalRank(3, values))
	assert.Equal(t, 1.0, empiricalRank(9, values))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input is not reordered")
}

func TestProjectDropsNonPositiveOnLogAxes(t *testing.T) {
	x, y := project([]float64{0, 10, 100}, []float64{1, 0, 1000}, true, true)
	assert.Equal(t, []float64{2}, x)
	assert.Equal(t, []float64{3}, y)

	x, y = project([]float64{0, -1}, []float64{2, 3}, false, false)
	assert.Equal(t, []float64{0, -1}, x)
	assert.Equal(t, []float64{2, 3}, y)
}

func TestLogAxisCoversDecades(t *testing.T) {
	rng, ticks := logAxis([]float64{-0.7, 0.3, 1.4})
	assert.Equal(t, -1.0, rng.Min)
	assert.Equal(t, 2.0, rng.Max)
	require.Len(t, ticks, 4)
	assert.Equal(t, "0.1", ticks[0].Label)
	assert.Equal(t, "100", ticks[3].Label)
}

func TestRenderPNGEveryTab(t *testing.T) {
	r := NewRenderer(rng.Seeded{}, 640, 400, 2)
	ctx := context.Background()

	for i, smp := range catalog.BuiltinSamples() {
		for _, tab := range sample.AllCriteria() {
			body, err := r.RenderPNG(ctx, smp, tab)
			require.NoError(t, err, "sample %d tab %s", i, tab)

			img, err := png.Decode(bytes.NewReader(body))
			require.NoError(t, err)
			assert.Equal(t, 640, img.Bounds().Dx())
			assert.Equal(t, 400, img.Bounds().Dy())
		}
	}
}

func TestRenderPNGWithoutPlottablePoints(t *testing.T) {
	r := NewRenderer(rng.Seeded{}, 640, 400, 1)
	smp := builtin(t, 0)
	smp.Data = sample.Measurements{}

	// the transit background alone still draws
	_, err := r.RenderPNG(context.Background(), smp, sample.TransitSignal)
	assert.NoError(t, err)

	_, err = r.scatterChart(Dataset{XAxis: Axis{Log: true}, YAxis: Axis{Log: true}, Series: []Series{
		{Name: "Current Planet", Kind: KindCurrent, X: []float64{0}, Y: []float64{0}},
	}})
	assert.Error(t, err)
}

func TestRenderPNGRespectsCancellation(t *testing.T) {
	r := NewRenderer(rng.Seeded{}, 640, 400, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RenderPNG(ctx, builtin(t, 0), sample.TransitSignal)
	assert.Error(t, err)
	assert.False(t, core.IsNotFoundError(err))
}

func TestRenderPNGConcurrent(t *testing.T) {
	r := NewRenderer(rng.Seeded{}, 320, 240, 2)
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.RenderPNG(context.Background(), builtin(t, i%5), sample.AllCriteria()[i%5])
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
