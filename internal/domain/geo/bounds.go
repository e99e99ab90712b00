package geo

import "github.com/paulmach/orb"

// Bounds is an axis-aligned lat/lng rectangle.
type Bounds struct {
	Min Coordinate `json:"min"`
	Max Coordinate `json:"max"`
}

// BoundsOf returns the bounding rectangle of points. ok is false for an empty slice.
func BoundsOf(points []Coordinate) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	bound := ToLineString(points).Bound()
	return Bounds{
		Min: Coordinate{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		Max: Coordinate{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}, true
}

// Contains reports whether c lies inside the rectangle, edges included.
func (b Bounds) Contains(c Coordinate) bool {
	return c.Lat >= b.Min.Lat && c.Lat <= b.Max.Lat &&
		c.Lng >= b.Min.Lng && c.Lng <= b.Max.Lng
}

// ToPoint converts to an orb point (lng, lat order).
func ToPoint(c Coordinate) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// ToLineString converts a path to an orb line string.
func ToLineString(points []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = ToPoint(p)
	}
	return ls
}
