package geomap

import "math"

const (
	tileSize  = 256.0
	maxLatDeg = 85.0511287798

	DefaultPadding = 50.0
	DefaultMaxZoom = 20
)

// DefaultViewport is shown before any feature set has been fitted.
var DefaultViewport = Viewport{Center: LatLng{Lat: -38.1, Lng: 145.12}, Zoom: 12}

// Bounds is a latitude/longitude box.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// Size is a display area in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the map center and zoom level, plus the bounds it was fitted to.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// BoundsOf returns the box around points. ok is false for an empty input.
func BoundsOf(points []LatLng) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lng = math.Min(b.SouthWest.Lng, p.Lng)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lng = math.Max(b.NorthEast.Lng, p.Lng)
	}
	return b, true
}

// FitBounds computes the Web Mercator viewport that shows every point inside
// size minus padding on each side. The zoom is the largest whole level that
// fits, capped at maxZoom, so a single point lands on maxZoom. ok is false
// and no viewport is produced when points is empty.
func FitBounds(points []LatLng, size Size, padding float64, maxZoom int) (Viewport, bool) {
	b, ok := BoundsOf(points)
	if !ok {
		return Viewport{}, false
	}

	swX, swY := project(b.SouthWest)
	neX, neY := project(b.NorthEast)
	dx := math.Abs(neX - swX)
	dy := math.Abs(swY - neY)

	availW := math.Max(size.Width-2*padding, 1)
	availH := math.Max(size.Height-2*padding, 1)

	zoom := float64(maxZoom)
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(availW/dx))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(availH/dy))
	}
	z := int(math.Floor(zoom))
	if z < 0 {
		z = 0
	}
	if z > maxZoom {
		z = maxZoom
	}

	center := unproject((swX+neX)/2, (swY+neY)/2)
	return Viewport{Center: center, Zoom: z, Bounds: &b}, true
}

// project maps a position to zoom-0 pixel space.
func project(ll LatLng) (x, y float64) {
	lat := math.Max(math.Min(ll.Lat, maxLatDeg), -maxLatDeg) * math.Pi / 180
	x = (ll.Lng + 180) / 360 * tileSize
	y = (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * tileSize
	return x, y
}

func unproject(x, y float64) LatLng {
	lng := x/tileSize*360 - 180
	n := math.Pi * (1 - 2*y/tileSize)
	lat := math.Atan(math.Sinh(n)) * 180 / math.Pi
	return LatLng{Lat: lat, Lng: lng}
}
