package area

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
)

// Rating is a 1..5 score for an area.
type Rating int

const (
	MinRating     Rating = 1
	MaxRating     Rating = 5
	DefaultRating Rating = 3

	maxAreaName = 200
)

// IsValid returns true if the rating lies in 1..5.
func (r Rating) IsValid() bool {
	return r >= MinRating && r <= MaxRating
}

// ParseRating converts an int to a Rating. Zero selects DefaultRating.
func ParseRating(v int) (Rating, error) {
	if v == 0 {
		return DefaultRating, nil
	}
	r := Rating(v)
	if !r.IsValid() {
		return 0, domain.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return r, nil
}

// NormalizeName trims an area name and lower-cases it for grouping.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AreaRating is one user's rating of an area.
type AreaRating struct {
	id        uuid.UUID
	area      string
	rating    Rating
	userID    uuid.UUID
	createdAt time.Time
}

// NewAreaRating validates and creates a rating.
func NewAreaRating(area string, rating Rating, userID uuid.UUID) (*AreaRating, error) {
	name := NormalizeName(area)
	if name == "" {
		return nil, domain.NewValidationError("area name is required")
	}
	if len(name) > maxAreaName {
		return nil, domain.NewValidationError(fmt.Sprintf("area name exceeds %d characters", maxAreaName))
	}
	if !rating.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}

	return &AreaRating{
		id:        uuid.New(),
		area:      name,
		rating:    rating,
		userID:    userID,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an AreaRating from persistence data (no validation).
func Reconstruct(id uuid.UUID, area string, rating Rating, userID uuid.UUID, createdAt time.Time) *AreaRating {
	return &AreaRating{id: id, area: area, rating: rating, userID: userID, createdAt: createdAt}
}

func (a *AreaRating) ID() uuid.UUID        { return a.id }
func (a *AreaRating) Area() string         { return a.area }
func (a *AreaRating) Rating() Rating       { return a.rating }
func (a *AreaRating) UserID() uuid.UUID    { return a.userID }
func (a *AreaRating) CreatedAt() time.Time { return a.createdAt }

// Summary aggregates the ratings of one area.
type Summary struct {
	Area    string
	Count   int64
	Average float64
}
