package route

import (
	"strings"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
)

const (
	DefaultMode           = "fastest;car"
	DefaultRepresentation = "display"
)

var (
	DefaultRouteAttributes    = []string{"waypoints", "summary", "shape", "legs"}
	DefaultManeuverAttributes = []string{"direction", "action"}
)

// Request describes a route calculation.
type Request struct {
	Mode               string           `json:"mode"`
	Representation     string           `json:"representation"`
	RouteAttributes    []string         `json:"route_attributes"`
	ManeuverAttributes []string         `json:"maneuver_attributes"`
	Waypoints          []geo.Coordinate `json:"waypoints"`
}

// NewRequest builds a request between two points with the default attributes.
func NewRequest(mode string, from, to geo.Coordinate) Request {
	if mode == "" {
		mode = DefaultMode
	}
	return Request{
		Mode:               mode,
		Representation:     DefaultRepresentation,
		RouteAttributes:    append([]string(nil), DefaultRouteAttributes...),
		ManeuverAttributes: append([]string(nil), DefaultManeuverAttributes...),
		Waypoints:          []geo.Coordinate{from, to},
	}
}

// Validate checks that the request can be sent.
func (r Request) Validate() error {
	if r.Mode == "" {
		return domain.NewValidationError("travel mode is required")
	}
	if len(r.Waypoints) < 2 {
		return domain.NewValidationError("at least two waypoints are required")
	}
	for _, wp := range r.Waypoints {
		if !wp.Valid() {
			return domain.NewValidationError("waypoint out of range: " + wp.String())
		}
	}
	return nil
}

// Origin returns the first waypoint.
func (r Request) Origin() geo.Coordinate { return r.Waypoints[0] }

// Destination returns the last waypoint.
func (r Request) Destination() geo.Coordinate { return r.Waypoints[len(r.Waypoints)-1] }

// CacheKey identifies requests that yield the same route.
func (r Request) CacheKey() string {
	parts := []string{
		r.Mode,
		r.Representation,
		strings.Join(r.RouteAttributes, ","),
		strings.Join(r.ManeuverAttributes, ","),
	}
	for _, wp := range r.Waypoints {
		parts = append(parts, wp.String())
	}
	return strings.Join(parts, "|")
}
