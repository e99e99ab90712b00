package mapview

import (
	"encoding/json"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
)

// OverlayKind names the type of a map overlay.
type OverlayKind string

const (
	KindPolyline OverlayKind = "polyline"
	KindMarker   OverlayKind = "marker"
	KindGroup    OverlayKind = "group"
)

// Overlay is a visual object drawn on the view.
type Overlay interface {
	Kind() OverlayKind
}

// Style describes how a line is stroked.
type Style struct {
	LineWidth   int    `json:"lineWidth"`
	StrokeColor string `json:"strokeColor"`
}

// Anchor is the icon pixel placed on the marker position.
type Anchor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Icon is an SVG marker image.
type Icon struct {
	SVG    string  `json:"svg"`
	Anchor *Anchor `json:"anchor,omitempty"`
}

// Polyline is a line through an ordered list of points.
type Polyline struct {
	Points []geo.Coordinate `json:"points"`
	Style  Style            `json:"style"`
}

// NewPolyline copies points into a new Polyline.
func NewPolyline(points []geo.Coordinate, style Style) *Polyline {
	return &Polyline{Points: append([]geo.Coordinate(nil), points...), Style: style}
}

// Kind implements Overlay.
func (p *Polyline) Kind() OverlayKind { return KindPolyline }

// Bounds returns the rectangle covering every point.
func (p *Polyline) Bounds() (geo.Bounds, bool) { return geo.BoundsOf(p.Points) }

// MarshalJSON adds the kind discriminator.
func (p *Polyline) MarshalJSON() ([]byte, error) {
	type alias Polyline
	return json.Marshal(struct {
		Kind OverlayKind `json:"kind"`
		*alias
	}{KindPolyline, (*alias)(p)})
}

// Marker is an icon pinned at a position. Instruction is shown when it is tapped.
type Marker struct {
	Position    geo.Coordinate `json:"position"`
	Icon        *Icon          `json:"icon,omitempty"`
	Instruction string         `json:"instruction,omitempty"`
}

// Kind implements Overlay.
func (m *Marker) Kind() OverlayKind { return KindMarker }

// MarshalJSON adds the kind discriminator.
func (m *Marker) MarshalJSON() ([]byte, error) {
	type alias Marker
	return json.Marshal(struct {
		Kind OverlayKind `json:"kind"`
		*alias
	}{KindMarker, (*alias)(m)})
}

// Group holds markers that share one tap handler.
type Group struct {
	Markers  []*Marker `json:"markers"`
	Tappable bool      `json:"tappable"`
}

// Kind implements Overlay.
func (g *Group) Kind() OverlayKind { return KindGroup }

// AddObject appends a marker to the group.
func (g *Group) AddObject(m *Marker) { g.Markers = append(g.Markers, m) }

// MarshalJSON adds the kind discriminator.
func (g *Group) MarshalJSON() ([]byte, error) {
	type alias Group
	return json.Marshal(struct {
		Kind OverlayKind `json:"kind"`
		*alias
	}{KindGroup, (*alias)(g)})
}
