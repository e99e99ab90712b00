package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const ProviderName = "google"

// Config holds the Directions API settings.
type Config struct {
	APIKey string
	// BaseURL overrides the Maps API host.
	BaseURL string
	// RatePerSecond of zero keeps the library default.
	RatePerSecond int
}

// Client adapts Google Directions responses to the route model.
type Client struct {
	maps   *maps.Client
	logger *zap.Logger
}

// NewClient creates a Client. An API key is required.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google: api key is required")
	}
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RatePerSecond > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RatePerSecond))
	}

	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google: failed to create maps client: %w", err)
	}
	return &Client{maps: mc, logger: logger}, nil
}

// Name implements route.Provider.
func (c *Client) Name() string { return ProviderName }

// CalculateRoute implements route.Provider.
func (c *Client) CalculateRoute(ctx context.Context, req route.Request) (*route.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dr := &maps.DirectionsRequest{
		Origin:      req.Origin().String(),
		Destination: req.Destination().String(),
		Mode:        travelMode(req.Mode),
	}
	for _, wp := range req.Waypoints[1 : len(req.Waypoints)-1] {
		dr.Waypoints = append(dr.Waypoints, wp.String())
	}

	c.logger.Debug("requesting directions",
		zap.String("origin", dr.Origin),
		zap.String("destination", dr.Destination),
		zap.String("mode", string(dr.Mode)),
	)

	routes, _, err := c.maps.Directions(ctx, dr)
	if err != nil {
		return nil, domain.NewUpstreamError("directions request failed", err)
	}
	if len(routes) == 0 {
		return nil, domain.NewValidationError("routing response contains no route")
	}
	return convertRoute(routes[0])
}

func travelMode(mode string) maps.Mode {
	switch {
	case strings.Contains(mode, "pedestrian"):
		return maps.TravelModeWalking
	case strings.Contains(mode, "bicycle"):
		return maps.TravelModeBicycling
	case strings.Contains(mode, "publicTransport"):
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}

func convertRoute(gr maps.Route) (*route.Route, error) {
	points, err := gr.OverviewPolyline.Decode()
	if err != nil {
		return nil, domain.NewUpstreamError("failed to decode overview polyline", err)
	}

	r := &route.Route{Shape: make([]string, len(points))}
	for i, p := range points {
		r.Shape[i] = fmt.Sprintf("%v,%v", p.Lat, p.Lng)
	}

	var distance float64
	var duration time.Duration
	for i, leg := range gr.Legs {
		if i == 0 {
			r.Waypoint = append(r.Waypoint, waypoint(leg.StartLocation, leg.StartAddress))
		}
		r.Waypoint = append(r.Waypoint, waypoint(leg.EndLocation, leg.EndAddress))
		r.Leg = append(r.Leg, convertLeg(leg))

		distance += float64(leg.Distance.Meters)
		duration += leg.Duration
	}

	r.Summary = route.Summary{
		Distance:   distance,
		BaseTime:   int64(duration.Seconds()),
		TravelTime: int64(duration.Seconds()),
		Text:       gr.Summary,
	}
	return r, nil
}

func waypoint(ll maps.LatLng, label string) route.Waypoint {
	pos := route.Position{Latitude: ll.Lat, Longitude: ll.Lng}
	return route.Waypoint{MappedPosition: pos, OriginalPosition: pos, Type: "stopOver", Label: label}
}

func convertLeg(leg *maps.Leg) route.Leg {
	out := route.Leg{
		Length:     float64(leg.Distance.Meters),
		TravelTime: int64(leg.Duration.Seconds()),
	}
	for i, step := range leg.Steps {
		action := stepAction(step.Maneuver)
		if i == 0 {
			action = "depart"
		}
		out.Maneuver = append(out.Maneuver, route.Maneuver{
			ID:          fmt.Sprintf("M%d", i+1),
			Position:    &route.Position{Latitude: step.StartLocation.Lat, Longitude: step.StartLocation.Lng},
			Instruction: step.HTMLInstructions,
			TravelTime:  int64(step.Duration.Seconds()),
			Length:      float64(step.Distance.Meters),
			Action:      action,
			Direction:   stepDirection(step.Maneuver),
		})
	}
	out.Maneuver = append(out.Maneuver, route.Maneuver{
		ID:          fmt.Sprintf("M%d", len(leg.Steps)+1),
		Position:    &route.Position{Latitude: leg.EndLocation.Lat, Longitude: leg.EndLocation.Lng},
		Instruction: "Arrive at " + leg.EndAddress + ".",
		Action:      "arrive",
		Direction:   "forward",
	})
	return out
}

var stepActions = map[string]string{
	"turn-left":         "leftTurn",
	"turn-right":        "rightTurn",
	"turn-slight-left":  "slightLeftTurn",
	"turn-slight-right": "slightRightTurn",
	"turn-sharp-left":   "sharpLeftTurn",
	"turn-sharp-right":  "sharpRightTurn",
	"uturn-left":        "uTurnLeft",
	"uturn-right":       "uTurnRight",
	"ramp-left":         "leftRamp",
	"ramp-right":        "rightRamp",
	"merge":             "leftMerge",
	"fork-left":         "leftFork",
	"fork-right":        "rightFork",
	"roundabout-left":   "roundaboutExit1",
	"roundabout-right":  "roundaboutExit1",
	"keep-left":         "leftFork",
	"keep-right":        "rightFork",
}

func stepAction(maneuver string) string {
	if a, ok := stepActions[maneuver]; ok {
		return a
	}
	return "continue"
}

func stepDirection(maneuver string) string {
	switch {
	case strings.Contains(maneuver, "left"):
		return "left"
	case strings.Contains(maneuver, "right"):
		return "right"
	default:
		return "forward"
	}
}
