package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	journeyDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/journey"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JourneyModel is the GORM model for the journeys table.
type JourneyModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Provider       string    `gorm:"not null;size:30"`
	OriginLat      float64   `gorm:"not null"`
	OriginLng      float64   `gorm:"not null"`
	DestinationLat float64   `gorm:"not null"`
	DestinationLng float64   `gorm:"not null"`
	WaypointLabels string    `gorm:"size:500"`
	DistanceMeters float64   `gorm:"not null;default:0"`
	TravelTimeSec  int64     `gorm:"not null;default:0"`
	ManeuverCount  int       `gorm:"not null;default:0"`
	Polyline       string    `gorm:"type:text"`
	Status         string    `gorm:"not null;size:20;index"`
	ErrorMessage   string    `gorm:"size:500"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (JourneyModel) TableName() string {
	return "journeys"
}

// GormJourneyRepository is the GORM-based implementation of journey.Repository.
type GormJourneyRepository struct {
	db *gorm.DB
}

// NewGormJourneyRepository creates a new GormJourneyRepository.
func NewGormJourneyRepository(db *gorm.DB) *GormJourneyRepository {
	return &GormJourneyRepository{db: db}
}

// Save persists a new journey.
func (r *GormJourneyRepository) Save(ctx context.Context, j *journeyDomain.Journey) error {
	if err := r.db.WithContext(ctx).Create(toJourneyModel(j)).Error; err != nil {
		return fmt.Errorf("failed to save journey: %w", err)
	}
	return nil
}

// FindByID retrieves a journey by its unique identifier.
func (r *GormJourneyRepository) FindByID(ctx context.Context, id uuid.UUID) (*journeyDomain.Journey, error) {
	var model JourneyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Journey", id.String())
		}
		return nil, fmt.Errorf("failed to find journey by ID: %w", err)
	}
	return toDomainJourney(&model)
}

// FindBySessionID retrieves a session's journeys, newest first.
func (r *GormJourneyRepository) FindBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*journeyDomain.Journey, error) {
	var models []JourneyModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find session journeys: %w", err)
	}
	return toDomainJourneys(models)
}

// List retrieves journeys with pagination, newest first.
func (r *GormJourneyRepository) List(ctx context.Context, page, limit int) ([]*journeyDomain.Journey, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&JourneyModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count journeys: %w", err)
	}

	var models []JourneyModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list journeys: %w", err)
	}

	journeys, err := toDomainJourneys(models)
	if err != nil {
		return nil, 0, err
	}
	return journeys, total, nil
}

// CountByStatus returns journey counts grouped by status.
func (r *GormJourneyRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&JourneyModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toJourneyModel(j *journeyDomain.Journey) *JourneyModel {
	return &JourneyModel{
		ID:             j.ID(),
		SessionID:      j.SessionID(),
		Provider:       j.Provider(),
		OriginLat:      j.Origin().Lat,
		OriginLng:      j.Origin().Lng,
		DestinationLat: j.Destination().Lat,
		DestinationLng: j.Destination().Lng,
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

func toDomainJourney(m *JourneyModel) (*journeyDomain.Journey, error) {
	status, err := journeyDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return journeyDomain.Reconstruct(
		m.ID,
		m.SessionID,
		m.Provider,
		geo.Coordinate{Lat: m.OriginLat, Lng: m.OriginLng},
		geo.Coordinate{Lat: m.DestinationLat, Lng: m.DestinationLng},
		m.WaypointLabels,
		m.DistanceMeters,
		m.TravelTimeSec,
		m.ManeuverCount,
		m.Polyline,
		status,
		m.ErrorMessage,
		m.CreatedAt,
	), nil
}

func toDomainJourneys(models []JourneyModel) ([]*journeyDomain.Journey, error) {
	journeys := make([]*journeyDomain.Journey, len(models))
	for i := range models {
		j, err := toDomainJourney(&models[i])
		if err != nil {
			return nil, err
		}
		journeys[i] = j
	}
	return journeys, nil
}
