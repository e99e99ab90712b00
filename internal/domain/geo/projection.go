package geo

import "math"

// WorldTileSize is the edge in CSS pixels of the zoom-0 world in the
// spherical mercator projection used by the map view.
const WorldTileSize = 256.0

const maxMercatorLat = 85.05112878

// Project converts c to world pixel coordinates at the given zoom.
func Project(c Coordinate, zoom float64) (x, y float64) {
	scale := WorldTileSize * math.Pow(2, zoom)
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, c.Lat))
	sinLat := math.Sin(lat * math.Pi / 180)

	x = (c.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * scale
	return x, y
}

// Unproject converts world pixel coordinates at the given zoom back to a coordinate.
func Unproject(x, y, zoom float64) Coordinate {
	scale := WorldTileSize * math.Pow(2, zoom)
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return Coordinate{Lat: lat, Lng: lng}
}
