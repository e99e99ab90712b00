package application

import (
	"context"
	"fmt"
	"time"

	areaDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/area"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateAreaRequest holds the data for a new area rating. A zero rating
// selects the default.
type RateAreaRequest struct {
	Area   string `json:"area" binding:"required"`
	Rating int    `json:"rating"`
}

// AreaRatingDTO is the response representation of one rating.
type AreaRatingDTO struct {
	ID        uuid.UUID `json:"id"`
	Area      string    `json:"area"`
	Rating    int       `json:"rating"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AreaSummaryDTO aggregates the ratings of one area.
type AreaSummaryDTO struct {
	Area    string  `json:"area"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// AreaService manages area ratings.
type AreaService struct {
	repo      areaDomain.Repository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAreaService creates a new AreaService.
func NewAreaService(repo areaDomain.Repository, publisher EventPublisher, logger *zap.Logger) *AreaService {
	return &AreaService{repo: repo, publisher: publisher, logger: logger}
}

// RateArea records a user's rating of an area.
func (s *AreaService) RateArea(ctx context.Context, userID uuid.UUID, req RateAreaRequest) (*AreaRatingDTO, error) {
	rating, err := areaDomain.ParseRating(req.Rating)
	if err != nil {
		return nil, err
	}
	ar, err := areaDomain.NewAreaRating(req.Area, rating, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, ar); err != nil {
		return nil, fmt.Errorf("failed to save area rating: %w", err)
	}

	s.logger.Info("area rated",
		zap.String("area", ar.Area()),
		zap.Int("rating", int(ar.Rating())),
		zap.String("user_id", userID.String()),
	)

	publishEvent(ctx, s.publisher, s.logger, events.TopicRouteMapEvents, events.AreaRated, events.AreaRatedEvent{
		RatingID:   ar.ID(),
		Area:       ar.Area(),
		Rating:     int(ar.Rating()),
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})

	return &AreaRatingDTO{
		ID:        ar.ID(),
		Area:      ar.Area(),
		Rating:    int(ar.Rating()),
		UserID:    ar.UserID(),
		CreatedAt: ar.CreatedAt(),
	}, nil
}

// ListAreas returns the aggregate rating of every rated area.
func (s *AreaService) ListAreas(ctx context.Context) ([]AreaSummaryDTO, error) {
	summaries, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	dtos := make([]AreaSummaryDTO, len(summaries))
	for i, sum := range summaries {
		dtos[i] = toAreaSummaryDTO(sum)
	}
	return dtos, nil
}

// GetArea returns the aggregate rating of one area.
func (s *AreaService) GetArea(ctx context.Context, name string) (*AreaSummaryDTO, error) {
	normalized := areaDomain.NormalizeName(name)
	if normalized == "" {
		return nil, domain.NewValidationError("area name is required")
	}
	sum, err := s.repo.FindSummary(ctx, normalized)
	if err != nil {
		return nil, err
	}
	dto := toAreaSummaryDTO(*sum)
	return &dto, nil
}

func toAreaSummaryDTO(s areaDomain.Summary) AreaSummaryDTO {
	return AreaSummaryDTO{Area: s.Area, Count: s.Count, Average: s.Average}
}
