package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// PredictionResult is the canonical outcome of one prediction request.
type PredictionResult struct {
	ID            string     `json:"id"`
	ModelID       string     `json:"model_id"`
	ModelTitle    string     `json:"model_title"`
	HorizonLabel  string     `json:"horizon_label"`
	Payload       Payload    `json:"payload"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Degraded      bool       `json:"degraded"`
	StatusMessage string     `json:"status_message,omitempty"`
	ModelInfo     *ModelInfo `json:"model_info,omitempty"`
}

// ModelInfo is metadata the backend echoes alongside a forecast.
type ModelInfo struct {
	Type      string `json:"type,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PayloadKind discriminates the Payload union.
type PayloadKind string

const (
	PayloadSummary  PayloadKind = "summary"
	PayloadPeriods  PayloadKind = "periods"
	PayloadFeatures PayloadKind = "features"
)

// Payload holds exactly one of Summary, Periods, or Features, selected by Kind.
// Consumers switch on Kind rather than probing fields.
type Payload struct {
	Kind     PayloadKind        `json:"kind"`
	Summary  *StructuredSummary `json:"summary,omitempty"`
	Periods  PeriodList         `json:"periods,omitempty"`
	Features []GeoFeature       `json:"features,omitempty"`
}

func SummaryPayload(s StructuredSummary) Payload {
	return Payload{Kind: PayloadSummary, Summary: &s}
}

func PeriodPayload(p PeriodList) Payload {
	return Payload{Kind: PayloadPeriods, Periods: p}
}

func FeaturePayload(f []GeoFeature) Payload {
	return Payload{Kind: PayloadFeatures, Features: f}
}

// Period is one day or week of a per-period forecast. Exactly one of Day and
// Week is set, depending on the model that produced it.
type Period struct {
	Day        string  `json:"day,omitempty"`
	Week       string  `json:"week,omitempty"`
	Erosion    float64 `json:"erosion"`
	Confidence float64 `json:"confidence"`
	Image      string  `json:"image,omitempty"`
}

// Label returns the populated period key ("day" or "week") and its value.
func (p Period) Label() (key, value string) {
	if p.Day != "" {
		return "day", p.Day
	}
	if p.Week != "" {
		return "week", p.Week
	}
	return "", ""
}

// PeriodList is an ordered per-period forecast.
type PeriodList []Period

// StructuredSummary is the short-horizon aggregate produced by the backend.
type StructuredSummary struct {
	Meta            *SummaryMeta     `json:"meta,omitempty"`
	DailyTotals     []DailyTotal     `json:"daily_totals,omitempty"`
	TopTransects    []RankedTransect `json:"top_transects,omitempty"`
	BottomTransects []RankedTransect `json:"bottom_transects,omitempty"`
}

// SummaryMeta describes the model run behind a StructuredSummary.
type SummaryMeta struct {
	Timezone        string   `json:"timezone,omitempty"`
	GeneratedAt     string   `json:"generated_at,omitempty"`
	TrainingYears   []int    `json:"training_years,omitempty"`
	Alpha           *float64 `json:"alpha,omitempty"`
	ScaleClamp      *float64 `json:"scale_clamp,omitempty"`
	FeaturesUsed    []string `json:"features_used,omitempty"`
	GlobalMeanDelta *float64 `json:"global_mean_delta,omitempty"`
	CacheTTLMinutes *float64 `json:"cache_ttl_min,omitempty"`
}

// DailyTotal is the summed shoreline change across all transects for a date.
type DailyTotal struct {
	Date        string  `json:"date"`
	TotalMeters float64 `json:"total_m"`
}

// RankedTransect is one row of the top or bottom transect tables.
// Numeric fields are nil when the backend had no value.
type RankedTransect struct {
	TransectID         TransectID `json:"transect_id"`
	WeekSumMeters      *float64   `json:"week_sum_m"`
	TypicalAnnualDelta *float64   `json:"typical_annual_delta_m"`
	MidLat             *float64   `json:"mid_lat"`
	MidLon             *float64   `json:"mid_lon"`
}

// TransectID accepts both numeric and string identifiers.
type TransectID string

func (t *TransectID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TransectID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*t = TransectID(strconv.FormatInt(i, 10))
		return nil
	}
	*t = TransectID(n.String())
	return nil
}
