package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrSeriesTooShort is returned when a series has fewer than two points.
var ErrSeriesTooShort = errors.New("time series needs at least two points to chart")

const dateLayout = "2006-01-02"

// RenderSeriesChart draws the daily totals as a PNG line chart. Dates that
// all parse as YYYY-MM-DD use a time axis; otherwise points are spaced
// evenly and labelled with their raw date strings.
func RenderSeriesChart(w io.Writer, ts *TimeSeries, width, height int) error {
	if ts == nil || len(ts.Points) < 2 {
		return ErrSeriesTooShort
	}

	style := chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"),
		StrokeWidth: 3,
		DotColor:    drawing.ColorFromHex("2563eb"),
		DotWidth:    3,
	}
	yValues := make([]float64, len(ts.Points))
	for i, p := range ts.Points {
		yValues[i] = p.TotalMeters
	}

	graph := chart.Chart{
		Title:      "Daily Erosion/Accretion",
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Name: "Total (m)"},
	}

	if times, ok := parseDates(ts.Points); ok {
		graph.XAxis = chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter}
		graph.Series = []chart.Series{chart.TimeSeries{
			Name:    "total_m",
			Style:   style,
			XValues: times,
			YValues: yValues,
		}}
	} else {
		xValues := make([]float64, len(ts.Points))
		ticks := make([]chart.Tick, len(ts.Points))
		for i, p := range ts.Points {
			xValues[i] = float64(i)
			ticks[i] = chart.Tick{Value: float64(i), Label: p.Date}
		}
		graph.XAxis = chart.XAxis{Name: "Date", Ticks: ticks}
		graph.Series = []chart.Series{chart.ContinuousSeries{
			Name:    "total_m",
			Style:   style,
			XValues: xValues,
			YValues: yValues,
		}}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render series chart: %w", err)
	}
	return nil
}

func parseDates(points []SeriesPoint) ([]time.Time, bool) {
	out := make([]time.Time, len(points))
	for i, p := range points {
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return nil, false
		}
		out[i] = t
	}
	return out, true
}
