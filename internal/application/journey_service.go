package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	journeyDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/journey"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JourneyDTO is the response representation of a journey.
type JourneyDTO struct {
	ID             uuid.UUID      `json:"id"`
	SessionID      uuid.UUID      `json:"session_id"`
	Provider       string         `json:"provider"`
	Origin         geo.Coordinate `json:"origin"`
	Destination    geo.Coordinate `json:"destination"`
	WaypointLabels string         `json:"waypoint_labels,omitempty"`
	DistanceMeters float64        `json:"distance_meters"`
	TravelTimeSec  int64          `json:"travel_time_sec"`
	ManeuverCount  int            `json:"maneuver_count"`
	Polyline       string         `json:"polyline,omitempty"`
	Status         string         `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// JourneyDetailDTO adds the decoded path to a JourneyDTO.
type JourneyDetailDTO struct {
	JourneyDTO
	Path []geo.Coordinate `json:"path"`
}

// JourneyStatsDTO holds aggregate journey statistics.
type JourneyStatsDTO struct {
	TotalJourneys int64            `json:"total_journeys"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// JourneyRecorder persists the outcome of route requests.
type JourneyRecorder interface {
	RecordCalculated(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, r *route.Route)
	RecordFailed(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, cause error)
}

// JourneyService records and queries journeys.
type JourneyService struct {
	repo      journeyDomain.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewJourneyService creates a new JourneyService.
func NewJourneyService(repo journeyDomain.Repository, publisher EventPublisher, logger *zap.Logger) *JourneyService {
	return &JourneyService{repo: repo, publisher: publisher, logger: logger}
}

// RecordCalculated persists a successful route and publishes route.calculated.
// Failures are logged; a render is never undone because bookkeeping failed.
func (s *JourneyService) RecordCalculated(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, r *route.Route) {
	j, err := journeyDomain.NewCalculatedJourney(sessionID, provider, req, r)
	if err != nil {
		s.logger.Error("failed to build journey", zap.String("session_id", sessionID.String()), zap.Error(err))
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to save journey", zap.String("journey_id", j.ID().String()), zap.Error(err))
		return
	}

	publishEvent(ctx, s.publisher, s.logger, events.TopicRouteMapEvents, events.RouteCalculated, events.RouteCalculatedEvent{
		JourneyID:      j.ID(),
		SessionID:      sessionID,
		Provider:       provider,
		Origin:         toLatLng(j.Origin()),
		Destination:    toLatLng(j.Destination()),
		DistanceMeters: j.DistanceMeters(),
		TravelTimeSec:  j.TravelTimeSec(),
		ManeuverCount:  j.ManeuverCount(),
		Polyline:       j.Polyline(),
		OccurredAt:     time.Now().UTC(),
	})
}

// RecordFailed persists a failed request and publishes route.failed.
func (s *JourneyService) RecordFailed(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, cause error) {
	j, err := journeyDomain.NewFailedJourney(sessionID, provider, req, cause)
	if err != nil {
		s.logger.Error("failed to build journey", zap.String("session_id", sessionID.String()), zap.Error(err))
		return
	}
	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to save journey", zap.String("journey_id", j.ID().String()), zap.Error(err))
		return
	}

	publishEvent(ctx, s.publisher, s.logger, events.TopicRouteMapEvents, events.RouteFailed, events.RouteFailedEvent{
		JourneyID:   j.ID(),
		SessionID:   sessionID,
		Provider:    provider,
		Origin:      toLatLng(j.Origin()),
		Destination: toLatLng(j.Destination()),
		Error:       j.ErrorMessage(),
		OccurredAt:  time.Now().UTC(),
	})
}

// GetJourney returns one journey with its decoded path.
func (s *JourneyService) GetJourney(ctx context.Context, id uuid.UUID) (*JourneyDetailDTO, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := j.Path()
	if err != nil {
		return nil, fmt.Errorf("failed to decode journey path: %w", err)
	}
	return &JourneyDetailDTO{JourneyDTO: toJourneyDTO(j), Path: path}, nil
}

// ListJourneys returns a page of journeys, newest first.
func (s *JourneyService) ListJourneys(ctx context.Context, page, limit int) (*domain.PaginatedResult[JourneyDTO], error) {
	journeys, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journeys: %w", err)
	}

	dtos := make([]JourneyDTO, len(journeys))
	for i, j := range journeys {
		dtos[i] = toJourneyDTO(j)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetSessionJourneys returns the journeys recorded for a session.
func (s *JourneyService) GetSessionJourneys(ctx context.Context, sessionID uuid.UUID) ([]JourneyDTO, error) {
	journeys, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session journeys: %w", err)
	}
	dtos := make([]JourneyDTO, len(journeys))
	for i, j := range journeys {
		dtos[i] = toJourneyDTO(j)
	}
	return dtos, nil
}

// GetStats returns journey counts by status.
func (s *JourneyService) GetStats(ctx context.Context) (*JourneyStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get journey stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &JourneyStatsDTO{TotalJourneys: total, ByStatus: counts}, nil
}

func toJourneyDTO(j *journeyDomain.Journey) JourneyDTO {
	return JourneyDTO{
		ID:             j.ID(),
		SessionID:      j.SessionID(),
		Provider:       j.Provider(),
		Origin:         j.Origin(),
		Destination:    j.Destination(),
		WaypointLabels: j.WaypointLabels(),
		DistanceMeters: j.DistanceMeters(),
		TravelTimeSec:  j.TravelTimeSec(),
		ManeuverCount:  j.ManeuverCount(),
		Polyline:       j.Polyline(),
		Status:         string(j.Status()),
		ErrorMessage:   j.ErrorMessage(),
		CreatedAt:      j.CreatedAt(),
	}
}

func toLatLng(c geo.Coordinate) events.LatLng {
	return events.LatLng{Lat: c.Lat, Lng: c.Lng}
}
