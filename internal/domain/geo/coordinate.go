package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate returns a validated Coordinate.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate out of range: %v,%v", lat, lng)
	}
	return c, nil
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (c Coordinate) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lng >= -180 && c.Lng <= 180
}

// String renders "lat,lng" with the shortest exact decimal form, which is
// also the waypoint format the routing API accepts.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// ParseCoordinate parses "lat,lng" or "lat,lng,alt". Altitude is ignored.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, fmt.Errorf("malformed coordinate %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("malformed latitude in %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("malformed longitude in %q: %w", s, err)
	}
	return NewCoordinate(lat, lng)
}

// FormatHemisphere renders the coordinate as "12.9000N 77.6000E".
// Zero latitude or longitude is reported as S or W.
func FormatHemisphere(c Coordinate) string {
	ns := "S"
	if c.Lat > 0 {
		ns = "N"
	}
	ew := "W"
	if c.Lng > 0 {
		ew = "E"
	}
	return fmt.Sprintf("%.4f%s %.4f%s", math.Abs(c.Lat), ns, math.Abs(c.Lng), ew)
}
