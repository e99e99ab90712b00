package journey

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"github.com/twpayne/go-polyline"
)

// Status is the outcome of the route request a journey records.
type Status string

const (
	StatusCalculated Status = "calculated"
	StatusFailed     Status = "failed"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	return s == StatusCalculated || s == StatusFailed
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid journey status: %s", s)
	}
	return status, nil
}

// Column limits, in characters.
const (
	maxErrorMessage   = 500
	maxWaypointLabels = 500
)

// Journey is the persisted record of one route request.
type Journey struct {
	id             uuid.UUID
	sessionID      uuid.UUID
	provider       string
	origin         geo.Coordinate
	destination    geo.Coordinate
	waypointLabels string
	distanceMeters float64
	travelTimeSec  int64
	maneuverCount  int
	polyline       string
	status         Status
	errorMessage   string
	createdAt      time.Time
}

// NewCalculatedJourney records a successful route request. The route shape
// is stored as an encoded polyline.
func NewCalculatedJourney(sessionID uuid.UUID, provider string, req route.Request, r *route.Route) (*Journey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.NewValidationError("route is required")
	}
	points, err := r.ShapePoints()
	if err != nil {
		return nil, err
	}

	return &Journey{
		id:             uuid.New(),
		sessionID:      sessionID,
		provider:       provider,
		origin:         req.Origin(),
		destination:    req.Destination(),
		waypointLabels: truncate(strings.Join(r.WaypointLabels(), " | "), maxWaypointLabels),
		distanceMeters: r.Summary.Distance,
		travelTimeSec:  r.Summary.TravelTime,
		maneuverCount:  len(r.Maneuvers()),
		polyline:       EncodePath(points),
		status:         StatusCalculated,
		createdAt:      time.Now().UTC(),
	}, nil
}

// NewFailedJourney records a failed route request.
func NewFailedJourney(sessionID uuid.UUID, provider string, req route.Request, cause error) (*Journey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	msg = truncate(msg, maxErrorMessage)

	return &Journey{
		id:           uuid.New(),
		sessionID:    sessionID,
		provider:     provider,
		origin:       req.Origin(),
		destination:  req.Destination(),
		status:       StatusFailed,
		errorMessage: msg,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Journey from persistence data (no validation).
func Reconstruct(
	id, sessionID uuid.UUID,
	provider string,
	origin, destination geo.Coordinate,
	waypointLabels string,
	distanceMeters float64,
	travelTimeSec int64,
	maneuverCount int,
	encodedPolyline string,
	status Status,
	errorMessage string,
	createdAt time.Time,
) *Journey {
	return &Journey{
		id:             id,
		sessionID:      sessionID,
		provider:       provider,
		origin:         origin,
		destination:    destination,
		waypointLabels: waypointLabels,
		distanceMeters: distanceMeters,
		travelTimeSec:  travelTimeSec,
		maneuverCount:  maneuverCount,
		polyline:       encodedPolyline,
		status:         status,
		errorMessage:   errorMessage,
		createdAt:      createdAt,
	}
}

func (j *Journey) ID() uuid.UUID               { return j.id }
func (j *Journey) SessionID() uuid.UUID        { return j.sessionID }
func (j *Journey) Provider() string            { return j.provider }
func (j *Journey) Origin() geo.Coordinate      { return j.origin }
func (j *Journey) Destination() geo.Coordinate { return j.destination }
func (j *Journey) WaypointLabels() string      { return j.waypointLabels }
func (j *Journey) DistanceMeters() float64     { return j.distanceMeters }
func (j *Journey) TravelTimeSec() int64        { return j.travelTimeSec }
func (j *Journey) ManeuverCount() int          { return j.maneuverCount }
func (j *Journey) Polyline() string            { return j.polyline }
func (j *Journey) Status() Status              { return j.status }
func (j *Journey) ErrorMessage() string        { return j.errorMessage }
func (j *Journey) CreatedAt() time.Time        { return j.createdAt }

// Path decodes the stored polyline.
func (j *Journey) Path() ([]geo.Coordinate, error) {
	return DecodePath(j.polyline)
}

// EncodePath encodes points with the polyline algorithm at 1e-5 precision.
func EncodePath(points []geo.Coordinate) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePath reverses EncodePath.
func DecodePath(encoded string) ([]geo.Coordinate, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	points := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		points[i] = geo.Coordinate{Lat: c[0], Lng: c[1]}
	}
	return points, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
