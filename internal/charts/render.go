package charts

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/ports"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/semaphore"
)

var (
	colorPopulation = drawing.ColorFromHex("64ffda")
	colorCurrent    = drawing.ColorFromHex("ff9800")
	colorThreshold  = drawing.ColorFromHex("f44336")
	colorZone       = drawing.ColorFromHex("4caf50")
)

// Renderer draws diagnostic charts as PNG. Rendering is CPU bound, so the
// number of concurrent renders is capped.
type Renderer struct {
	rng    ports.RNGPort
	width  int
	height int
	sem    *semaphore.Weighted
}

// NewRenderer creates a renderer producing width x height images
func NewRenderer(rng ports.RNGPort, width, height int, maxConcurrent int64) *Renderer {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Renderer{
		rng:    rng,
		width:  width,
		height: height,
		sem:    semaphore.NewWeighted(maxConcurrent),
	}
}

// Summary places the sample within the tab's background population. Tabs
// without a population report core.ErrNoChart.
func (r *Renderer) Summary(ctx context.Context, smp sample.Sample, tab sample.Criterion) (Summary, error) {
	ds, err := Build(ctx, r.rng, tab, smp)
	if err != nil {
		if ctx.Err() != nil {
			return Summary{}, ctx.Err()
		}
		return Summary{}, fmt.Errorf("%w: %v", core.ErrNoChart, err)
	}
	summary, err := Summarize(ds)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", core.ErrNoChart, err)
	}
	return summary, nil
}

// RenderPNG draws the chart for one tab. Any failure to draw is reported as
// core.ErrNoChart so callers can skip the export quietly.
func (r *Renderer) RenderPNG(ctx context.Context, smp sample.Sample, tab sample.Criterion) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := Build(ctx, r.rng, tab, smp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoChart, err)
	}

	var buf bytes.Buffer
	if ds.IsBar() {
		err = r.barChart(ds).Render(chart.PNG, &buf)
	} else {
		var ch chart.Chart
		ch, err = r.scatterChart(ds)
		if err == nil {
			err = ch.Render(chart.PNG, &buf)
		}
	}
	if err != nil {
		log.Printf("[Charts] %s chart for %s failed: %v", tab, smp.ID, err)
		return nil, fmt.Errorf("%w: %v", core.ErrNoChart, err)
	}

	log.Printf("[Charts] Rendered %s for %s in %.2fms (%d bytes)", tab, smp.ID, float64(time.Since(start).Nanoseconds())/1e6, buf.Len())
	return buf.Bytes(), nil
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color, dot float64) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    dot,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

func styleFor(s Series) chart.Style {
	switch s.Kind {
	case KindCurrent:
		return pointStyle(colorCurrent, 8)
	case KindReference:
		if s.Name == "Habitable Zone" {
			return pointStyle(colorZone, 2)
		}
		return lineStyle(colorThreshold)
	default:
		return pointStyle(colorPopulation.WithAlpha(140), 3)
	}
}

func (r *Renderer) scatterChart(ds Dataset) (chart.Chart, error) {
	var series []chart.Series
	var xs, ys []float64
	for _, s := range ds.Series {
		x, y := project(s.X, s.Y, ds.XAxis.Log, ds.YAxis.Log)
		if len(x) == 0 {
			continue
		}
		xs = append(xs, x...)
		ys = append(ys, y...)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: x,
			YValues: y,
			Style:   styleFor(s),
		})
	}
	if len(series) == 0 {
		return chart.Chart{}, fmt.Errorf("no plottable points")
	}

	ch := chart.Chart{
		Title:      ds.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: ds.XAxis.Title},
		YAxis:      chart.YAxis{Name: ds.YAxis.Title},
		Series:     series,
	}
	if ds.XAxis.Log {
		rng, ticks := logAxis(xs)
		ch.XAxis.Range = rng
		ch.XAxis.Ticks = ticks
	}
	if ds.YAxis.Log {
		rng, ticks := logAxis(ys)
		ch.YAxis.Range = rng
		ch.YAxis.Ticks = ticks
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

func (r *Renderer) barChart(ds Dataset) chart.BarChart {
	bars := make([]chart.Value, len(ds.Bars))
	for i, b := range ds.Bars {
		col := colorZone
		if b.Value > 0 {
			col = colorCurrent
		}
		bars[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 2},
		}
	}
	return chart.BarChart{
		Title:      ds.Title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   80,
		BarSpacing: 40,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  ds.YAxis.Title,
			Range: &chart.ContinuousRange{Min: ds.YMin, Max: ds.YMax},
			Ticks: []chart.Tick{{Value: 0, Label: "0 (Pass)"}, {Value: 1, Label: "1 (Fail)"}},
		},
		Bars: bars,
	}
}

// project maps points onto plot coordinates. Log axes plot log10 of the
// value and drop points that are not positive.
func project(xs, ys []float64, logX, logY bool) ([]float64, []float64) {
	outX := make([]float64, 0, len(xs))
	outY := make([]float64, 0, len(ys))
	for i := range xs {
		x, y := xs[i], ys[i]
		if (logX && x <= 0) || (logY && y <= 0) {
			continue
		}
		if logX {
			x = math.Log10(x)
		}
		if logY {
			y = math.Log10(y)
		}
		outX = append(outX, x)
		outY = append(outY, y)
	}
	return outX, outY
}

// logAxis spans whole decades around the projected values and labels each
// decade with its real value
func logAxis(values []float64) (*chart.ContinuousRange, []chart.Tick) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi <= lo {
		hi = lo + 1
	}

	var ticks []chart.Tick
	for d := lo; d <= hi; d++ {
		ticks = append(ticks, chart.Tick{Value: d, Label: strconv.FormatFloat(math.Pow(10, d), 'g', -1, 64)})
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}, ticks
}
