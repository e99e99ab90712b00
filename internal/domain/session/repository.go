package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store keeps live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// FindByID returns the session or a not-found error.
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session; deleting an unknown ID is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of live sessions.
	Count(ctx context.Context) (int, error)

	// ExpireIdle removes and returns the sessions not accessed within idle.
	ExpireIdle(ctx context.Context, idle time.Duration) ([]*Session, error)
}
