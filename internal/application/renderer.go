package application

import (
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/panel"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
)

// RouteStyle is the stroke of a rendered route.
var RouteStyle = mapview.Style{LineWidth: 4, StrokeColor: "rgba(0, 128, 255, 0.7)"}

// DotIcon marks each maneuver.
var DotIcon = mapview.Icon{
	SVG: `<svg width="18" height="18" xmlns="http://www.w3.org/2000/svg">` +
		`<circle cx="8" cy="8" r="8" fill="#1b468d" stroke="white" stroke-width="1"  />` +
		`</svg>`,
	Anchor: &mapview.Anchor{X: 8, Y: 8},
}

// RenderRoute draws r onto the view and panel: the route line framed by the
// camera, a tappable marker group with one marker per maneuver, and the
// panel heading, instructions and summary. An invalid route leaves both
// untouched.
func RenderRoute(v *mapview.View, p *panel.Panel, r *route.Route) error {
	if err := r.Validate(); err != nil {
		return err
	}
	points, err := r.ShapePoints()
	if err != nil {
		return err
	}

	line := mapview.NewPolyline(points, RouteStyle)
	v.AddObject(line)
	if b, ok := line.Bounds(); ok {
		v.SetViewBounds(b)
	}

	maneuvers := r.Maneuvers()
	group := &mapview.Group{Tappable: true}
	for _, m := range maneuvers {
		icon := DotIcon
		group.AddObject(&mapview.Marker{
			Position:    m.Position.Coordinate(),
			Icon:        &icon,
			Instruction: m.Instruction,
		})
	}
	v.AddObject(group)

	p.Clear()
	p.SetHeading(r.WaypointLabels())
	for _, m := range maneuvers {
		p.AddInstruction(m.Action, m.Instruction)
	}
	p.SetSummary(r.Summary.Distance, r.Summary.TravelTime)
	return nil
}
