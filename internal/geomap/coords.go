// Package geomap turns long-horizon forecast transects into a map view:
// coordinate transformation, viewport fitting, year bands, range filtering,
// and label placement.
package geomap

import "github.com/paulmach/orb"

// LatLng is a display-order position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToLatLng swaps a GeoJSON (longitude, latitude) position into display order.
func ToLatLng(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// ToLngLat is the inverse of ToLatLng.
func ToLngLat(ll LatLng) orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// TransformPath swaps every position of a GeoJSON coordinate sequence.
func TransformPath(coords []orb.Point) []LatLng {
	out := make([]LatLng, len(coords))
	for i, p := range coords {
		out[i] = ToLatLng(p)
	}
	return out
}
