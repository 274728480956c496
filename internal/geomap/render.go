package geomap

import (
	"fmt"
	"strconv"

	"github.com/pu9052473/shoreline-project/internal/domain"
)

// NoDataMessage is the overlay shown when no transect is visible.
const NoDataMessage = "No prediction data available."

// Options controls viewport fitting.
type Options struct {
	Size    Size
	Padding float64
	MaxZoom int
}

// DefaultOptions returns a 1024x600 display with 50px padding and zoom capped at 20.
func DefaultOptions() Options {
	return Options{Size: Size{Width: 1024, Height: 600}, Padding: DefaultPadding, MaxZoom: DefaultMaxZoom}
}

// Transect is one rendered feature.
type Transect struct {
	Year  int      `json:"year"`
	Band  Band     `json:"band"`
	Fill  string   `json:"fill"`
	Path  []LatLng `json:"path"`
	Label Label    `json:"label"`
	Popup Popup    `json:"popup"`
}

// Label is the year marker drawn on a transect.
type Label struct {
	Position  LatLng `json:"position"`
	Text      string `json:"text"`
	TextColor string `json:"text_color"`
}

// Popup holds the formatted detail rows for a transect.
type Popup struct {
	Year        string `json:"year"`
	AvgDistance string `json:"avg_distance,omitempty"`
	Erosion     string `json:"erosion,omitempty"`
	Confidence  string `json:"confidence,omitempty"`
	Label       string `json:"label,omitempty"`
}

// MapView is everything a client needs to draw the map.
type MapView struct {
	Viewport  Viewport        `json:"viewport"`
	Fitted    bool            `json:"fitted"`
	Domain    YearDomain      `json:"domain"`
	Range     YearFilterRange `json:"range"`
	Transects []Transect      `json:"transects"`
	Legend    []LegendEntry   `json:"legend"`
	Total     int             `json:"total"`
	NoData    bool            `json:"no_data"`
	Overlay   string          `json:"overlay,omitempty"`
}

// Render builds the view of features under r. The viewport is fitted to the
// visible transects; when none are visible it stays at previous.
func Render(features []domain.GeoFeature, r YearFilterRange, previous Viewport, opts Options) MapView {
	visible := VisibleFeatures(features, r)
	view := MapView{
		Viewport:  previous,
		Domain:    DomainOf(features),
		Range:     r,
		Transects: make([]Transect, 0, len(visible)),
		Legend:    Legend(),
		Total:     len(features),
	}

	var all []LatLng
	for _, f := range visible {
		t := renderTransect(f)
		all = append(all, t.Path...)
		view.Transects = append(view.Transects, t)
	}

	if len(view.Transects) == 0 {
		view.NoData = true
		view.Overlay = NoDataMessage
		return view
	}

	if vp, ok := FitBounds(all, opts.Size, opts.Padding, opts.MaxZoom); ok {
		view.Viewport = vp
		view.Fitted = true
	}
	return view
}

// renderTransect expects a feature that passed the year filter.
func renderTransect(f domain.GeoFeature) Transect {
	band := BandForFeature(f.Year)
	path := TransformPath(f.Coordinates)
	year := strconv.Itoa(*f.Year)

	t := Transect{
		Year: *f.Year,
		Band: band,
		Fill: band.Fill(),
		Path: path,
		Label: Label{
			Position:  LabelAnchor(path),
			Text:      year,
			TextColor: band.TextColor(),
		},
		Popup: Popup{Year: year, Label: f.Label},
	}
	if f.AvgDistanceMeters != nil {
		t.Popup.AvgDistance = fmt.Sprintf("%.2f m", *f.AvgDistanceMeters)
	}
	if f.Erosion != nil {
		t.Popup.Erosion = fmt.Sprintf("%.2f", *f.Erosion)
	}
	if f.Confidence != nil {
		t.Popup.Confidence = fmt.Sprintf("%.1f%%", *f.Confidence)
	}
	return t
}

// LabelAnchor returns the path position at index floor(n/2).
func LabelAnchor(path []LatLng) LatLng {
	if len(path) == 0 {
		return LatLng{}
	}
	return path[len(path)/2]
}
