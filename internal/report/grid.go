package report

import (
	"math"
	"strconv"

	"github.com/pu9052473/shoreline-project/internal/domain"
)

// GridView is one card per forecast period.
type GridView struct {
	Cards []Card `json:"cards"`
}

// Card is the display form of a Period. LabelKey is "day" or "week",
// whichever the period carried.
type Card struct {
	LabelKey      string  `json:"label_key"`
	Label         string  `json:"label"`
	Image         string  `json:"image,omitempty"`
	Erosion       string  `json:"erosion"`
	ErosionMeters float64 `json:"erosion_m"`
	Confidence    string  `json:"confidence"`
	ConfidenceBar float64 `json:"confidence_bar"`
	ConfidenceCSS string  `json:"confidence_width"`
}

// RenderGrid builds the card grid for a period list.
func RenderGrid(periods domain.PeriodList) GridView {
	view := GridView{Cards: make([]Card, len(periods))}
	for i, p := range periods {
		key, label := p.Label()
		bar := BarWidth(p.Confidence)
		view.Cards[i] = Card{
			LabelKey:      key,
			Label:         label,
			Image:         p.Image,
			Erosion:       strconv.FormatFloat(p.Erosion, 'f', -1, 64) + "m",
			ErosionMeters: p.Erosion,
			Confidence:    strconv.FormatFloat(p.Confidence, 'f', -1, 64) + "%",
			ConfidenceBar: bar,
			ConfidenceCSS: strconv.FormatFloat(bar, 'f', -1, 64) + "%",
		}
	}
	return view
}

// BarWidth maps a confidence percentage linearly onto a 0-100 bar width.
func BarWidth(confidence float64) float64 {
	if math.IsNaN(confidence) {
		return 0
	}
	return math.Max(0, math.Min(100, confidence))
}
