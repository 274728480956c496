package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoFeature is one forecast transect. Coordinates are (longitude, latitude)
// pairs as received, with at least one entry.
type GeoFeature struct {
	Year              *int        `json:"year,omitempty"`
	Label             string      `json:"label,omitempty"`
	Erosion           *float64    `json:"erosion,omitempty"`
	Confidence        *float64    `json:"confidence,omitempty"`
	AvgDistanceMeters *float64    `json:"avg_distance_m,omitempty"`
	Coordinates       []orb.Point `json:"coordinates"`
}

// DecodeFeatureCollection parses a GeoJSON FeatureCollection document.
// Features without usable geometry are skipped.
func DecodeFeatureCollection(data []byte) ([]GeoFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	return fromGeoJSON(fc.Features), nil
}

// DecodeFeatures parses a JSON array of GeoJSON Feature objects.
func DecodeFeatures(data []byte) ([]GeoFeature, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	features := make([]*geojson.Feature, 0, len(raws))
	for i, raw := range raws {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("decode feature %d: %w", i, err)
		}
		features = append(features, f)
	}
	return fromGeoJSON(features), nil
}

func fromGeoJSON(features []*geojson.Feature) []GeoFeature {
	out := make([]GeoFeature, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		coords := flattenGeometry(f.Geometry)
		if len(coords) == 0 {
			continue
		}
		out = append(out, GeoFeature{
			Year:              propInt(f.Properties, "year"),
			Label:             propString(f.Properties, "label"),
			Erosion:           propFloat(f.Properties, "erosion"),
			Confidence:        propFloat(f.Properties, "confidence"),
			AvgDistanceMeters: propFloat(f.Properties, "avg_distance_m"),
			Coordinates:       coords,
		})
	}
	return out
}

// GeoJSON converts the feature back to its interchange form. A single
// coordinate becomes a Point, anything longer a LineString.
func (f GeoFeature) GeoJSON() *geojson.Feature {
	var geom orb.Geometry
	if len(f.Coordinates) == 1 {
		geom = f.Coordinates[0]
	} else {
		geom = orb.LineString(append([]orb.Point(nil), f.Coordinates...))
	}
	gf := geojson.NewFeature(geom)
	if f.Year != nil {
		gf.Properties["year"] = *f.Year
	}
	if f.Label != "" {
		gf.Properties["label"] = f.Label
	}
	if f.Erosion != nil {
		gf.Properties["erosion"] = *f.Erosion
	}
	if f.Confidence != nil {
		gf.Properties["confidence"] = *f.Confidence
	}
	if f.AvgDistanceMeters != nil {
		gf.Properties["avg_distance_m"] = *f.AvgDistanceMeters
	}
	return gf
}

// flattenGeometry reduces any supported geometry to one ordered position
// sequence. Polygons contribute their outer ring.
func flattenGeometry(g orb.Geometry) []orb.Point {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}
	case orb.MultiPoint:
		return append([]orb.Point(nil), g...)
	case orb.LineString:
		return append([]orb.Point(nil), g...)
	case orb.MultiLineString:
		var pts []orb.Point
		for _, ls := range g {
			pts = append(pts, ls...)
		}
		return pts
	case orb.Ring:
		return append([]orb.Point(nil), g...)
	case orb.Polygon:
		if len(g) > 0 {
			return append([]orb.Point(nil), g[0]...)
		}
	case orb.MultiPolygon:
		if len(g) > 0 && len(g[0]) > 0 {
			return append([]orb.Point(nil), g[0][0]...)
		}
	}
	return nil
}

func propFloat(props geojson.Properties, key string) *float64 {
	switch v := props[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

func propInt(props geojson.Properties, key string) *int {
	f := propFloat(props, key)
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

func propString(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
