package mapview

import (
	"fmt"
	"math"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
)

const (
	MinZoom = 0
	MaxZoom = 20
)

// Viewport is the size of the map container in CSS pixels.
type Viewport struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`
}

// LayerOptions are the default tile layer settings derived from the pixel ratio.
type LayerOptions struct {
	TileSize int `json:"tile_size"`
	PPI      int `json:"ppi,omitempty"`
}

// View is a map widget: camera, overlays and the shared info bubble.
// Overlays are append-only; nothing removes them once added.
type View struct {
	center   geo.Coordinate
	zoom     float64
	viewport Viewport
	layers   LayerOptions
	overlays []Overlay
	bubble   *Bubble
}

// NewView creates a view centered on center.
func NewView(center geo.Coordinate, zoom float64, viewport Viewport) (*View, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("invalid map center %s", center)
	}
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", viewport.Width, viewport.Height)
	}
	if viewport.PixelRatio <= 0 {
		viewport.PixelRatio = 1
	}

	layers := LayerOptions{TileSize: 256}
	if viewport.PixelRatio != 1 {
		layers = LayerOptions{TileSize: 512, PPI: 320}
	}

	return &View{
		center:   center,
		zoom:     clampZoom(zoom),
		viewport: viewport,
		layers:   layers,
	}, nil
}

// Center returns the camera center.
func (v *View) Center() geo.Coordinate { return v.center }

// Zoom returns the camera zoom level.
func (v *View) Zoom() float64 { return v.zoom }

// Viewport returns the container size.
func (v *View) Viewport() Viewport { return v.viewport }

// Layers returns the default layer options.
func (v *View) Layers() LayerOptions { return v.layers }

// Bubble returns the shared info bubble, or nil if none was opened yet.
func (v *View) Bubble() *Bubble { return v.bubble }

// Overlays returns a copy of the overlay list in insertion order.
func (v *View) Overlays() []Overlay {
	return append([]Overlay(nil), v.overlays...)
}

// AddObject appends an overlay.
func (v *View) AddObject(o Overlay) {
	v.overlays = append(v.overlays, o)
}

// SetCenter moves the camera.
func (v *View) SetCenter(c geo.Coordinate) {
	v.center = c
}

// SetCamera moves the camera to center at zoom; zoom is clamped to the
// supported range.
func (v *View) SetCamera(center geo.Coordinate, zoom float64) error {
	if !center.Valid() {
		return fmt.Errorf("invalid map center %s", center)
	}
	if math.IsNaN(zoom) {
		return fmt.Errorf("invalid zoom %v", zoom)
	}
	v.center = center
	v.zoom = clampZoom(zoom)
	return nil
}

// SetViewBounds centers the camera on b and picks the largest zoom at which b fits.
func (v *View) SetViewBounds(b geo.Bounds) {
	minX, maxY := geo.Project(b.Min, 0)
	maxX, minY := geo.Project(b.Max, 0)
	v.center = geo.Unproject((minX+maxX)/2, (minY+maxY)/2, 0)

	dx, dy := maxX-minX, maxY-minY
	zoom := float64(MaxZoom)
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(float64(v.viewport.Width)/dx))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(float64(v.viewport.Height)/dy))
	}
	v.zoom = clampZoom(math.Floor(zoom))
}

// ScreenToGeo converts a viewport pixel position to a coordinate.
func (v *View) ScreenToGeo(x, y float64) geo.Coordinate {
	cx, cy := geo.Project(v.center, v.zoom)
	wx := cx + x - float64(v.viewport.Width)/2
	wy := cy + y - float64(v.viewport.Height)/2
	return geo.Unproject(wx, wy, v.zoom)
}

// OpenBubble shows text at position, creating the shared bubble on first use
// and reusing it afterwards.
func (v *View) OpenBubble(position geo.Coordinate, text string) *Bubble {
	if v.bubble == nil {
		v.bubble = &Bubble{Position: position, Content: text, IsOpen: true}
		return v.bubble
	}
	v.bubble.SetPosition(position)
	v.bubble.SetContent(text)
	v.bubble.Open()
	return v.bubble
}

// TappableMarkers returns the markers of every tappable group, in overlay order.
func (v *View) TappableMarkers() []*Marker {
	var markers []*Marker
	for _, o := range v.overlays {
		if g, ok := o.(*Group); ok && g.Tappable {
			markers = append(markers, g.Markers...)
		}
	}
	return markers
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
