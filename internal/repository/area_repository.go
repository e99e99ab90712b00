package repository

import (
	"context"
	"fmt"
	"time"

	areaDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/area"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AreaRatingModel is the GORM model for the area_ratings table.
type AreaRatingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Area      string    `gorm:"not null;size:200;index"`
	Rating    int       `gorm:"not null;default:3"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AreaRatingModel) TableName() string {
	return "area_ratings"
}

// GormAreaRepository is the GORM-based implementation of area.Repository.
type GormAreaRepository struct {
	db *gorm.DB
}

// NewGormAreaRepository creates a new GormAreaRepository.
func NewGormAreaRepository(db *gorm.DB) *GormAreaRepository {
	return &GormAreaRepository{db: db}
}

// Save persists a new rating.
func (r *GormAreaRepository) Save(ctx context.Context, ar *areaDomain.AreaRating) error {
	model := &AreaRatingModel{
		ID:        ar.ID(),
		Area:      ar.Area(),
		Rating:    int(ar.Rating()),
		UserID:    ar.UserID(),
		CreatedAt: ar.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save area rating: %w", err)
	}
	return nil
}

type areaSummaryRow struct {
	Area    string
	Count   int64
	Average float64
}

// Summaries returns the aggregate rating of every area, by area name.
func (r *GormAreaRepository) Summaries(ctx context.Context) ([]areaDomain.Summary, error) {
	var rows []areaSummaryRow
	if err := r.db.WithContext(ctx).Model(&AreaRatingModel{}).
		Select("area, count(*) as count, avg(rating) as average").
		Group("area").
		Order("area").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize area ratings: %w", err)
	}

	summaries := make([]areaDomain.Summary, len(rows))
	for i, row := range rows {
		summaries[i] = areaDomain.Summary{Area: row.Area, Count: row.Count, Average: row.Average}
	}
	return summaries, nil
}

// FindSummary returns the aggregate rating of one area.
func (r *GormAreaRepository) FindSummary(ctx context.Context, area string) (*areaDomain.Summary, error) {
	var rows []areaSummaryRow
	if err := r.db.WithContext(ctx).Model(&AreaRatingModel{}).
		Select("area, count(*) as count, avg(rating) as average").
		Where("area = ?", area).
		Group("area").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize area %s: %w", area, err)
	}
	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("Area", area)
	}
	return &areaDomain.Summary{Area: rows[0].Area, Count: rows[0].Count, Average: rows[0].Average}, nil
}
