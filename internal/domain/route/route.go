package route

import (
	"fmt"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
)

// CalculateRouteResponse is the top-level body returned by the routing API.
type CalculateRouteResponse struct {
	Response struct {
		Route []Route `json:"route"`
	} `json:"response"`
}

// Route is one calculated route as produced by the routing platform.
type Route struct {
	Waypoint []Waypoint `json:"waypoint"`
	Leg      []Leg      `json:"leg"`
	Summary  Summary    `json:"summary"`
	Shape    []string   `json:"shape"`
}

// Waypoint is a start, end or via point of the route.
type Waypoint struct {
	LinkID           string   `json:"linkId,omitempty"`
	MappedPosition   Position `json:"mappedPosition"`
	OriginalPosition Position `json:"originalPosition"`
	Type             string   `json:"type,omitempty"`
	Label            string   `json:"label"`
}

// Position is a lat/lng pair in the routing API's field naming.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate converts to the geo package representation.
func (p Position) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Latitude, Lng: p.Longitude}
}

// Leg is the part of the route between two consecutive waypoints.
type Leg struct {
	Length     float64    `json:"length"`
	TravelTime int64      `json:"travelTime"`
	Maneuver   []Maneuver `json:"maneuver"`
}

// Maneuver is one turn-by-turn instruction.
type Maneuver struct {
	ID          string   `json:"id,omitempty"`
	Position    *Position `json:"position"`
	Instruction string   `json:"instruction"`
	TravelTime  int64    `json:"travelTime"`
	Length      float64  `json:"length"`
	Action      string   `json:"action"`
	Direction   string   `json:"direction,omitempty"`
}

// Summary holds route totals. Distance is in meters, times in seconds.
type Summary struct {
	Distance    float64 `json:"distance"`
	TrafficTime int64   `json:"trafficTime"`
	BaseTime    int64   `json:"baseTime"`
	TravelTime  int64   `json:"travelTime"`
	Text        string  `json:"text,omitempty"`
}

// ShapePoints parses the shape strings into coordinates, preserving order.
func (r *Route) ShapePoints() ([]geo.Coordinate, error) {
	points := make([]geo.Coordinate, len(r.Shape))
	for i, s := range r.Shape {
		c, err := geo.ParseCoordinate(s)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("shape point %d: %v", i, err))
		}
		points[i] = c
	}
	return points, nil
}

// Maneuvers returns every maneuver in leg-then-maneuver order.
func (r *Route) Maneuvers() []Maneuver {
	var all []Maneuver
	for _, leg := range r.Leg {
		all = append(all, leg.Maneuver...)
	}
	return all
}

// WaypointLabels returns the waypoint labels in route order.
func (r *Route) WaypointLabels() []string {
	labels := make([]string, len(r.Waypoint))
	for i, wp := range r.Waypoint {
		labels[i] = wp.Label
	}
	return labels
}

// Validate checks the fields the renderer depends on.
func (r *Route) Validate() error {
	if r == nil {
		return domain.NewValidationError("route is missing")
	}
	if len(r.Shape) == 0 {
		return domain.NewValidationError("route has no shape")
	}
	if _, err := r.ShapePoints(); err != nil {
		return err
	}
	if r.Summary.Distance < 0 || r.Summary.TravelTime < 0 {
		return domain.NewValidationError("route summary has negative totals")
	}
	for i, leg := range r.Leg {
		for j, m := range leg.Maneuver {
			if m.Position == nil {
				return domain.NewValidationError(fmt.Sprintf("maneuver %d of leg %d has no position", j, i))
			}
			if !m.Position.Coordinate().Valid() {
				return domain.NewValidationError(fmt.Sprintf("maneuver %d of leg %d has an invalid position", j, i))
			}
		}
	}
	return nil
}

// FirstRoute returns the first route of a response.
func (resp *CalculateRouteResponse) FirstRoute() (*Route, error) {
	if len(resp.Response.Route) == 0 {
		return nil, domain.NewValidationError("routing response contains no route")
	}
	return &resp.Response.Route[0], nil
}
