package geomap

import (
	"math"
	"strconv"
)

// Band is a fixed year-range colour class.
type Band string

const (
	BandA        Band = "A"
	BandB        Band = "B"
	BandC        Band = "C"
	BandFallback Band = "fallback"
)

// Text colours for labels drawn on band fills.
const (
	DarkText  = "#111827"
	LightText = "#ffffff"
)

// LegendEntry describes one band for the legend.
type LegendEntry struct {
	Band      Band   `json:"band"`
	FromYear  int    `json:"from_year,omitempty"`
	ToYear    int    `json:"to_year,omitempty"`
	Fill      string `json:"fill"`
	TextColor string `json:"text_color"`
}

var legendEntries = []LegendEntry{
	{Band: BandA, FromYear: 2035, ToYear: 2050, Fill: "#facc15"},
	{Band: BandB, FromYear: 2051, ToYear: 2075, Fill: "#f97316"},
	{Band: BandC, FromYear: 2076, ToYear: 2100, Fill: "#991b1b"},
}

var fallbackEntry = LegendEntry{Band: BandFallback, Fill: "#6b7280"}

// BandFor classifies a year. Every integer maps to exactly one band.
func BandFor(year int) Band {
	for _, s := range legendEntries {
		if year >= s.FromYear && year <= s.ToYear {
			return s.Band
		}
	}
	return BandFallback
}

// BandForFeature classifies an optional year; a missing year is fallback.
func BandForFeature(year *int) Band {
	if year == nil {
		return BandFallback
	}
	return BandFor(*year)
}

// Fill returns the band's fill colour.
func (b Band) Fill() string {
	return b.entry().Fill
}

// TextColor returns the label colour that contrasts with the band fill.
func (b Band) TextColor() string {
	return ContrastText(b.Fill())
}

func (b Band) entry() LegendEntry {
	for _, s := range legendEntries {
		if s.Band == b {
			return s
		}
	}
	return fallbackEntry
}

// Legend lists every band with its colours, fallback last.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(legendEntries)+1)
	for _, s := range append(append([]LegendEntry(nil), legendEntries...), fallbackEntry) {
		s.TextColor = ContrastText(s.Fill)
		out = append(out, s)
	}
	return out
}

// ContrastText picks dark text for fills whose WCAG relative luminance is
// above 0.179 and light text otherwise. Unparseable colours get dark text.
func ContrastText(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return DarkText
	}
	l := 0.2126*linear(r) + 0.7152*linear(g) + 0.0722*linear(b)
	if l > 0.179 {
		return DarkText
	}
	return LightText
}

func linear(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
