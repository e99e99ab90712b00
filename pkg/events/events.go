package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicRouteMapEvents   = "routemap.events"
	TopicRouteMapRequests = "routemap.requests"
)

// Event types.
const (
	RouteCalculated = "route.calculated"
	RouteFailed     = "route.failed"
	AreaRated       = "area.rated"
	RouteRequested  = "route.requested"
	UserRegistered  = "user.registered"
)

// LatLng is a coordinate in event payloads.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteCalculatedEvent is published when a route was rendered into a session.
type RouteCalculatedEvent struct {
	JourneyID      uuid.UUID `json:"journey_id"`
	SessionID      uuid.UUID `json:"session_id"`
	Provider       string    `json:"provider"`
	Origin         LatLng    `json:"origin"`
	Destination    LatLng    `json:"destination"`
	DistanceMeters float64   `json:"distance_meters"`
	TravelTimeSec  int64     `json:"travel_time_sec"`
	ManeuverCount  int       `json:"maneuver_count"`
	Polyline       string    `json:"polyline"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// RouteFailedEvent is published when a route request failed.
type RouteFailedEvent struct {
	JourneyID   uuid.UUID `json:"journey_id"`
	SessionID   uuid.UUID `json:"session_id"`
	Provider    string    `json:"provider"`
	Origin      LatLng    `json:"origin"`
	Destination LatLng    `json:"destination"`
	Error       string    `json:"error"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// AreaRatedEvent is published for every new area rating.
type AreaRatedEvent struct {
	RatingID   uuid.UUID `json:"rating_id"`
	Area       string    `json:"area"`
	Rating     int       `json:"rating"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RouteRequestedEvent asks the service to route a session again.
// Empty waypoints select the configured defaults.
type RouteRequestedEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	Mode      string    `json:"mode,omitempty"`
	From      *LatLng   `json:"from,omitempty"`
	To        *LatLng   `json:"to,omitempty"`
}

// UserRegisteredEvent is published when an account is created.
type UserRegisteredEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}
