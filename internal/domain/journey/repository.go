package journey

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for journeys.
type Repository interface {
	// Save persists a new journey.
	Save(ctx context.Context, j *Journey) error

	// FindByID retrieves a journey by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Journey, error)

	// FindBySessionID retrieves a session's journeys, newest first.
	FindBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*Journey, error)

	// List retrieves journeys with pagination, newest first.
	List(ctx context.Context, page, limit int) ([]*Journey, int64, error)

	// CountByStatus returns journey counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
