package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
)

type storedSession struct {
	sess       *session.Session
	lastAccess time.Time
}

// MemorySessionStore keeps live sessions in process memory. Every Save and
// FindByID counts as an access for idle expiry.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*storedSession
	now      func() time.Time
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]*storedSession), now: time.Now}
}

// Save adds or replaces a session.
func (s *MemorySessionStore) Save(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = &storedSession{sess: sess, lastAccess: s.now()}
	return nil
}

// FindByID returns the session or a not-found error.
func (s *MemorySessionStore) FindByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, domain.NewNotFoundError("Session", id.String())
	}
	stored.lastAccess = s.now()
	return stored.sess, nil
}

// Delete removes a session.
func (s *MemorySessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (s *MemorySessionStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), nil
}

// ExpireIdle removes sessions not accessed within idle. Sessions with an open
// notification stream are kept.
func (s *MemorySessionStore) ExpireIdle(_ context.Context, idle time.Duration) ([]*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	var expired []*session.Session
	for id, stored := range s.sessions {
		if stored.lastAccess.After(cutoff) || stored.sess.SubscriberCount() > 0 {
			continue
		}
		delete(s.sessions, id)
		expired = append(expired, stored.sess)
	}
	return expired, nil
}
