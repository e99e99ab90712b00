package session

import (
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/panel"
	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Session is the application context of one map page: its view, its panel,
// the notification log and the render state. All access goes through the
// session's lock.
type Session struct {
	mu            sync.Mutex
	id            uuid.UUID
	view          *mapview.View
	panel         *panel.Panel
	status        Status
	notifications []Notification
	subscribers   map[chan Notification]struct{}
	renders       int
	createdAt     time.Time
	updatedAt     time.Time
}

// New creates a session around view with an empty panel.
func New(view *mapview.View) *Session {
	now := time.Now().UTC()
	return &Session{
		id:          uuid.New(),
		view:        view,
		panel:       panel.New(),
		status:      StatusNoRoute,
		subscribers: make(map[chan Notification]struct{}),
		createdAt:   now,
		updatedAt:   now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// CreatedAt returns the creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Status returns the render state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Renders returns how many routes have been rendered into the session.
func (s *Session) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Apply runs fn with exclusive access to the view and panel.
func (s *Session) Apply(fn func(v *mapview.View, p *panel.Panel) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.view, s.panel); err != nil {
		return err
	}
	s.updatedAt = time.Now().UTC()
	return nil
}

// RecordRender counts a successful render and moves the session to route_shown.
func (s *Session) RecordRender() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renders++
	if s.status.CanTransitionTo(StatusRouteShown) {
		s.status = StatusRouteShown
	}
	s.updatedAt = time.Now().UTC()
}

// Notify appends a notification and fans it out to subscribers.
// Slow subscribers miss messages rather than block the session.
func (s *Session) Notify(kind NotificationKind, message string) Notification {
	n := Notification{Kind: kind, Message: message, CreatedAt: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	s.updatedAt = n.CreatedAt
	for ch := range s.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// Notifications returns a copy of the notification log.
func (s *Session) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Notification(nil), s.notifications...)
}

// Subscribe returns a channel receiving future notifications and a cancel
// function that closes it.
func (s *Session) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount returns the number of open notification streams.
func (s *Session) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// Snapshot is a consistent read-only copy of the session state.
type Snapshot struct {
	ID            uuid.UUID
	Status        Status
	View          ViewState
	Heading       string
	Instructions  []panel.Instruction
	Summary       *panel.Summary
	Notifications []Notification
	Renders       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ViewState is the camera and overlay part of a Snapshot.
type ViewState struct {
	Viewport mapview.Viewport
	Camera   Camera
	Layers   mapview.LayerOptions
	Overlays []mapview.Overlay
	Bubble   *mapview.Bubble
}

// Camera is the center and zoom of the view.
type Camera struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// Snapshot copies the session state under the lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bubble *mapview.Bubble
	if b := s.view.Bubble(); b != nil {
		copied := *b
		bubble = &copied
	}
	var summary *panel.Summary
	if sum := s.panel.Summary(); sum != nil {
		copied := *sum
		summary = &copied
	}
	center := s.view.Center()

	return Snapshot{
		ID:     s.id,
		Status: s.status,
		View: ViewState{
			Viewport: s.view.Viewport(),
			Camera:   Camera{Lat: center.Lat, Lng: center.Lng, Zoom: s.view.Zoom()},
			Layers:   s.view.Layers(),
			Overlays: s.view.Overlays(),
			Bubble:   bubble,
		},
		Heading:       s.panel.Heading(),
		Instructions:  s.panel.Instructions(),
		Summary:       summary,
		Notifications: append([]Notification(nil), s.notifications...),
		Renders:       s.renders,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
}
