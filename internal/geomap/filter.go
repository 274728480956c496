package geomap

import "github.com/pu9052473/shoreline-project/internal/domain"

// Fixed limits of the year slider.
const (
	MinYear = 2035
	MaxYear = 2100
)

// YearDomain is the inclusive span the slider may cover.
type YearDomain struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultDomain is used when no feature has a year inside the fixed limits.
var DefaultDomain = YearDomain{Min: MinYear, Max: MaxYear}

// DomainOf returns the observed year span clamped to [MinYear, MaxYear].
func DomainOf(features []domain.GeoFeature) YearDomain {
	var (
		lo, hi  int
		seen    bool
		inRange bool
	)
	for _, f := range features {
		if f.Year == nil {
			continue
		}
		y := *f.Year
		if y >= MinYear && y <= MaxYear {
			inRange = true
		}
		if !seen || y < lo {
			lo = y
		}
		if !seen || y > hi {
			hi = y
		}
		seen = true
	}
	if !inRange {
		return DefaultDomain
	}
	return YearDomain{Min: clamp(lo, MinYear, MaxYear), Max: clamp(hi, MinYear, MaxYear)}
}

// YearFilterRange is the inclusive year window currently shown.
type YearFilterRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// FullRange covers the whole domain.
func FullRange(d YearDomain) YearFilterRange {
	return YearFilterRange{From: d.Min, To: d.Max}
}

// WithUpper moves the upper bound, keeping it within [From, d.Max].
// From is left untouched.
func (r YearFilterRange) WithUpper(d YearDomain, to int) YearFilterRange {
	return YearFilterRange{From: r.From, To: clamp(to, r.From, d.Max)}
}

// Contains reports whether a feature year is inside the window. Features
// without a year are never inside.
func (r YearFilterRange) Contains(year *int) bool {
	return year != nil && *year >= r.From && *year <= r.To
}

// VisibleFeatures returns the features inside r, preserving order.
func VisibleFeatures(features []domain.GeoFeature, r YearFilterRange) []domain.GeoFeature {
	out := make([]domain.GeoFeature, 0, len(features))
	for _, f := range features {
		if r.Contains(f.Year) {
			out = append(out, f)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
