package application

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"sync"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/panel"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// FailureMessage is the notification shown when a route request fails.
const FailureMessage = "Ooops!"

// MapSettings are the defaults of new sessions.
type MapSettings struct {
	Center      geo.Coordinate
	Zoom        float64
	Viewport    mapview.Viewport
	Mode        string
	Origin      geo.Coordinate
	Destination geo.Coordinate
}

// CreateSessionRequest optionally overrides the default viewport.
type CreateSessionRequest struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`
}

// RouteRequest optionally overrides the default mode and waypoints.
type RouteRequest struct {
	Mode string          `json:"mode"`
	From *geo.Coordinate `json:"from"`
	To   *geo.Coordinate `json:"to"`
}

// CameraRequest is the center and zoom the page is currently showing.
type CameraRequest struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// TapRequest is a viewport position in CSS pixels. Camera, when set, is the
// view the position refers to and replaces the session camera first.
type TapRequest struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Camera *CameraRequest `json:"camera,omitempty"`
}

// ClickDTO is the result of a map tap.
type ClickDTO struct {
	Position geo.Coordinate `json:"position"`
	Message  string         `json:"message"`
}

// InstructionDTO is one panel row.
type InstructionDTO struct {
	Action     string `json:"action"`
	ArrowClass string `json:"arrow_class"`
	Text       string `json:"text"`
}

// PanelDTO is the textual part of a session.
type PanelDTO struct {
	Heading      string           `json:"heading"`
	Instructions []InstructionDTO `json:"instructions"`
	Distance     string           `json:"distance,omitempty"`
	TravelTime   string           `json:"travel_time,omitempty"`
}

// SessionDTO is the response representation of a session.
type SessionDTO struct {
	ID            uuid.UUID              `json:"id"`
	Status        string                 `json:"status"`
	Viewport      mapview.Viewport       `json:"viewport"`
	Camera        session.Camera         `json:"camera"`
	Layers        mapview.LayerOptions   `json:"layers"`
	Overlays      []mapview.Overlay      `json:"overlays"`
	Bubble        *mapview.Bubble        `json:"bubble,omitempty"`
	Panel         PanelDTO               `json:"panel"`
	Notifications []session.Notification `json:"notifications"`
	Renders       int                    `json:"renders"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SessionService orchestrates map sessions: creation, routing, taps and
// the read models served to the page.
type SessionService struct {
	store    session.Store
	routes   *RouteService
	journeys JourneyRecorder
	settings MapSettings
	logger   *zap.Logger

	wg sync.WaitGroup
}

// NewSessionService creates a new SessionService. journeys may be nil.
func NewSessionService(
	store session.Store,
	routes *RouteService,
	journeys JourneyRecorder,
	settings MapSettings,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		store:    store,
		routes:   routes,
		journeys: journeys,
		settings: settings,
		logger:   logger,
	}
}

// Create opens a session: the view with its decorations is stored and the
// default route is requested in the background.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*SessionDTO, error) {
	viewport := s.settings.Viewport
	if req.Width > 0 {
		viewport.Width = req.Width
	}
	if req.Height > 0 {
		viewport.Height = req.Height
	}
	if req.PixelRatio > 0 {
		viewport.PixelRatio = req.PixelRatio
	}

	view, err := mapview.NewView(s.settings.Center, s.settings.Zoom, viewport)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	Decorate(view)

	sess := session.New(view)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID().String()),
		zap.Int("width", viewport.Width),
		zap.Int("height", viewport.Height),
	)

	s.startRoute(ctx, sess, route.NewRequest(s.settings.Mode, s.settings.Origin, s.settings.Destination))

	dto := toSessionDTO(sess.Snapshot())
	return &dto, nil
}

// Get returns the current state of a session.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toSessionDTO(sess.Snapshot())
	return &dto, nil
}

// Delete closes a session.
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// RequestRoute issues another route request for the session. The result is
// rendered in the background; earlier overlays are kept.
func (s *SessionService) RequestRoute(ctx context.Context, id uuid.UUID, req RouteRequest) error {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	from, to := s.settings.Origin, s.settings.Destination
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil {
		to = *req.To
	}
	mode := req.Mode
	if mode == "" {
		mode = s.settings.Mode
	}

	rr := route.NewRequest(mode, from, to)
	if err := rr.Validate(); err != nil {
		return err
	}

	s.startRoute(ctx, sess, rr)
	return nil
}

// Tap reports the geographic position of a viewport tap as a notification.
func (s *SessionService) Tap(ctx context.Context, id uuid.UUID, req TapRequest) (*ClickDTO, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var click ClickDTO
	err = sess.Apply(func(v *mapview.View, _ *panel.Panel) error {
		vp := v.Viewport()
		if req.X < 0 || req.Y < 0 || req.X > float64(vp.Width) || req.Y > float64(vp.Height) {
			return domain.NewValidationError(fmt.Sprintf("tap (%v, %v) is outside the %dx%d viewport", req.X, req.Y, vp.Width, vp.Height))
		}
		if req.Camera != nil {
			if err := setCamera(v, *req.Camera); err != nil {
				return err
			}
		}
		if b := v.Bubble(); b != nil {
			b.Close()
		}
		click.Position, click.Message = ReportClick(v, req.X, req.Y)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sess.Notify(session.NotificationInfo, click.Message)
	return &click, nil
}

// SetCamera records the center and zoom the page moved to, so later taps
// convert against what the user sees.
func (s *SessionService) SetCamera(ctx context.Context, id uuid.UUID, req CameraRequest) (*session.Camera, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var camera session.Camera
	err = sess.Apply(func(v *mapview.View, _ *panel.Panel) error {
		if err := setCamera(v, req); err != nil {
			return err
		}
		c := v.Center()
		camera = session.Camera{Lat: c.Lat, Lng: c.Lng, Zoom: v.Zoom()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &camera, nil
}

func setCamera(v *mapview.View, req CameraRequest) error {
	if err := v.SetCamera(geo.Coordinate{Lat: req.Lat, Lng: req.Lng}, req.Zoom); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

// TapMarker centers the view on a maneuver marker and opens the shared
// bubble with its instruction. index counts tappable markers in render order.
func (s *SessionService) TapMarker(ctx context.Context, id uuid.UUID, index int) (*mapview.Bubble, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var bubble mapview.Bubble
	err = sess.Apply(func(v *mapview.View, _ *panel.Panel) error {
		markers := v.TappableMarkers()
		if index < 0 || index >= len(markers) {
			return domain.NewNotFoundError("Marker", strconv.Itoa(index))
		}
		m := markers[index]
		v.SetCenter(m.Position)
		bubble = *v.OpenBubble(m.Position, m.Instruction)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bubble, nil
}

// PanelHTML renders the session's turn-by-turn panel.
func (s *SessionService) PanelHTML(ctx context.Context, id uuid.UUID) (template.HTML, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	var out template.HTML
	err = sess.Apply(func(_ *mapview.View, p *panel.Panel) error {
		var err error
		out, err = p.HTML()
		return err
	})
	return out, err
}

// Overlays exports the session's overlays as GeoJSON.
func (s *SessionService) Overlays(ctx context.Context, id uuid.UUID) (*geojson.FeatureCollection, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return OverlaysToGeoJSON(sess.Snapshot().View.Overlays), nil
}

// Notifications returns the session's notification log.
func (s *SessionService) Notifications(ctx context.Context, id uuid.UUID) ([]session.Notification, error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Notifications(), nil
}

// Subscribe streams future notifications of a session until cancel is called.
func (s *SessionService) Subscribe(ctx context.Context, id uuid.UUID) (<-chan session.Notification, func(), error) {
	sess, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sess.Subscribe()
	return ch, cancel, nil
}

// RunExpiry drops idle sessions every interval until ctx is done.
func (s *SessionService) RunExpiry(ctx context.Context, idle, interval time.Duration) {
	if idle <= 0 || interval <= 0 {
		s.logger.Warn("session expiry disabled", zap.Duration("idle_ttl", idle), zap.Duration("interval", interval))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireIdle(ctx, idle)
		}
	}
}

// ExpireIdle drops the sessions nobody accessed within idle and returns how
// many were dropped.
func (s *SessionService) ExpireIdle(ctx context.Context, idle time.Duration) int {
	expired, err := s.store.ExpireIdle(ctx, idle)
	if err != nil {
		s.logger.Error("failed to expire sessions", zap.Error(err))
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	for _, sess := range expired {
		s.logger.Debug("session expired",
			zap.String("session_id", sess.ID().String()),
			zap.Duration("age", time.Since(sess.CreatedAt())),
		)
	}
	live, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("failed to count sessions", zap.Error(err))
	}
	s.logger.Info("idle sessions expired",
		zap.Int("expired", len(expired)),
		zap.Int("live", live),
	)
	return len(expired)
}

// Wait blocks until every in-flight route result has been handled.
func (s *SessionService) Wait() {
	s.wg.Wait()
}

// startRoute outlives the caller's request; only its values are kept.
func (s *SessionService) startRoute(ctx context.Context, sess *session.Session, req route.Request) {
	bg := context.WithoutCancel(ctx)
	results := s.routes.RequestRoute(bg, req)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for res := range results {
			s.handleResult(bg, sess, req, res)
		}
	}()
}

func (s *SessionService) handleResult(ctx context.Context, sess *session.Session, req route.Request, res route.Result) {
	provider := s.routes.ProviderName()

	err := res.Err
	if err == nil {
		err = sess.Apply(func(v *mapview.View, p *panel.Panel) error {
			return RenderRoute(v, p, res.Route)
		})
	}

	if err != nil {
		s.logger.Error("route request failed",
			zap.String("session_id", sess.ID().String()),
			zap.String("provider", provider),
			zap.Error(err),
		)
		sess.Notify(session.NotificationError, FailureMessage)
		if s.journeys != nil {
			s.journeys.RecordFailed(ctx, sess.ID(), provider, req, err)
		}
		return
	}

	sess.RecordRender()
	s.logger.Info("route rendered",
		zap.String("session_id", sess.ID().String()),
		zap.Int("maneuvers", len(res.Route.Maneuvers())),
		zap.Int("renders", sess.Renders()),
	)
	if s.journeys != nil {
		s.journeys.RecordCalculated(ctx, sess.ID(), provider, req, res.Route)
	}
}

func toSessionDTO(snap session.Snapshot) SessionDTO {
	p := PanelDTO{Heading: snap.Heading, Instructions: make([]InstructionDTO, len(snap.Instructions))}
	for i, in := range snap.Instructions {
		p.Instructions[i] = InstructionDTO{Action: in.Action, ArrowClass: in.ArrowClass(), Text: in.Text}
	}
	if snap.Summary != nil {
		p.Distance = snap.Summary.DistanceText()
		p.TravelTime = snap.Summary.TravelTimeText()
	}

	notifications := snap.Notifications
	if notifications == nil {
		notifications = []session.Notification{}
	}

	return SessionDTO{
		ID:            snap.ID,
		Status:        string(snap.Status),
		Viewport:      snap.View.Viewport,
		Camera:        snap.View.Camera,
		Layers:        snap.View.Layers,
		Overlays:      snap.View.Overlays,
		Bubble:        snap.View.Bubble,
		Panel:         p,
		Notifications: notifications,
		Renders:       snap.Renders,
		CreatedAt:     snap.CreatedAt,
		UpdatedAt:     snap.UpdatedAt,
	}
}
