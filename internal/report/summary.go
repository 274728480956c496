// Package report renders short-horizon summaries and per-period grids into
// display-ready view models, and exports results as charts and workbooks.
package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pu9052473/shoreline-project/internal/domain"
)

const missing = "-"

// SummaryView is the rendered form of a StructuredSummary. Each section is
// nil when the summary has nothing for it.
type SummaryView struct {
	Metadata *MetadataBlock `json:"metadata,omitempty"`
	Series   *TimeSeries    `json:"series,omitempty"`
	Top      *RankedTable   `json:"top,omitempty"`
	Bottom   *RankedTable   `json:"bottom,omitempty"`
}

// MetadataBlock is the model run description.
type MetadataBlock struct {
	Timezone      string `json:"timezone"`
	GeneratedAt   string `json:"generated_at"`
	TrainingYears string `json:"training_years"`
	Alpha         string `json:"alpha"`
	ScaleClamp    string `json:"scale_clamp"`
}

// TimeSeries is the daily totals line in backend order.
type TimeSeries struct {
	Points []SeriesPoint `json:"points"`
	Stats  SeriesStats   `json:"stats"`
}

// SeriesPoint is one day of the series.
type SeriesPoint struct {
	Date        string  `json:"date"`
	TotalMeters float64 `json:"total_m"`
}

// SeriesStats summarizes the series values.
type SeriesStats struct {
	Sum    float64 `json:"sum_m"`
	Mean   float64 `json:"mean_m"`
	Min    float64 `json:"min_m"`
	Max    float64 `json:"max_m"`
	Median float64 `json:"median_m"`
}

// RankedTable is the top or bottom transect table.
type RankedTable struct {
	Title string      `json:"title"`
	Rows  []RankedRow `json:"rows"`
}

// RankedRow holds display strings for one transect.
type RankedRow struct {
	TransectID  string `json:"transect_id"`
	WeekSum     string `json:"week_sum_m"`
	AnnualDelta string `json:"typical_annual_delta_m"`
	Latitude    string `json:"mid_lat"`
	Longitude   string `json:"mid_lon"`
}

// Summarize renders the three independent views of a summary.
func Summarize(s domain.StructuredSummary) SummaryView {
	return SummaryView{
		Metadata: metadataBlock(s.Meta),
		Series:   timeSeries(s.DailyTotals),
		Top:      rankedTable("Top Transects (Highest Erosion)", s.TopTransects),
		Bottom:   rankedTable("Bottom Transects (Highest Accretion)", s.BottomTransects),
	}
}

func metadataBlock(m *domain.SummaryMeta) *MetadataBlock {
	if m == nil {
		return nil
	}
	years := make([]string, len(m.TrainingYears))
	for i, y := range m.TrainingYears {
		years[i] = strconv.Itoa(y)
	}
	return &MetadataBlock{
		Timezone:      m.Timezone,
		GeneratedAt:   formatTimestamp(m.GeneratedAt),
		TrainingYears: strings.Join(years, " - "),
		Alpha:         formatNumber(m.Alpha),
		ScaleClamp:    formatNumber(m.ScaleClamp),
	}
}

func timeSeries(totals []domain.DailyTotal) *TimeSeries {
	if len(totals) == 0 {
		return nil
	}
	ts := &TimeSeries{Points: make([]SeriesPoint, len(totals))}
	values := make([]float64, len(totals))
	for i, d := range totals {
		ts.Points[i] = SeriesPoint{Date: d.Date, TotalMeters: d.TotalMeters}
		values[i] = d.TotalMeters
	}
	ts.Stats = seriesStats(values)
	return ts
}

// seriesStats ignores errors from stats; they only occur on empty input,
// which timeSeries already excludes.
func seriesStats(values []float64) SeriesStats {
	var st SeriesStats
	st.Sum, _ = stats.Sum(values)
	st.Mean, _ = stats.Mean(values)
	st.Min, _ = stats.Min(values)
	st.Max, _ = stats.Max(values)
	st.Median, _ = stats.Median(values)
	return st
}

func rankedTable(title string, rows []domain.RankedTransect) *RankedTable {
	if len(rows) == 0 {
		return nil
	}
	t := &RankedTable{Title: title, Rows: make([]RankedRow, len(rows))}
	for i, r := range rows {
		t.Rows[i] = RankedRow{
			TransectID:  string(r.TransectID),
			WeekSum:     formatFixed(r.WeekSumMeters, 2),
			AnnualDelta: formatNumber(r.TypicalAnnualDelta),
			Latitude:    formatFixed(r.MidLat, 4),
			Longitude:   formatFixed(r.MidLon, 4),
		}
	}
	return t
}

func formatFixed(v *float64, decimals int) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

func formatNumber(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatTimestamp renders RFC 3339 timestamps in their own offset. Naive
// ISO timestamps lose nothing but the "T"; other strings pass through.
func formatTimestamp(s string) string {
	if s == "" {
		return missing
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format("2006-01-02 15:04:05 -07:00")
	}
	if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return s
}
