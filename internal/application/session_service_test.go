package application

import (
	"context"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionService(t *testing.T, provider *stubProvider) (*SessionService, *recordingJourneys) {
	t.Helper()
	journeys := &recordingJourneys{}
	routes := NewRouteService(provider, time.Second, zap.NewNop())
	svc := NewSessionService(repository.NewMemorySessionStore(), routes, journeys, testSettings, zap.NewNop())
	return svc, journeys
}

func TestSessionService_CreateRendersDefaultRoute(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{route: loadFixtureRoute(t)}
	svc, journeys := newTestSessionService(t, provider)

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusRouteShown), got.Status)
	assert.Len(t, got.Overlays, 5)
	assert.Equal(t, 1, got.Renders)
	assert.Equal(t, "Hosur Road80 Feet Road", got.Panel.Heading)
	assert.Len(t, got.Panel.Instructions, 3)
	assert.Equal(t, "Total distance: 13410m.", got.Panel.Distance)
	assert.Empty(t, got.Notifications)
	assert.Equal(t, 1, journeys.calculated)

	reqs := provider.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "fastest;car", reqs[0].Mode)
	assert.Equal(t, "12.8448,77.6632", reqs[0].Origin().String())
	assert.Equal(t, "12.9343,77.6112", reqs[0].Destination().String())
}

func TestSessionService_FailureNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	svc, journeys := newTestSessionService(t, &stubProvider{err: errUpstream})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(session.StatusNoRoute), got.Status)
	assert.Len(t, got.Overlays, 3)
	require.Len(t, got.Notifications, 1)
	assert.Equal(t, session.NotificationError, got.Notifications[0].Kind)
	assert.Equal(t, FailureMessage, got.Notifications[0].Message)
	require.Len(t, journeys.failed, 1)
	assert.ErrorIs(t, journeys.failed[0], errUpstream)
}

func TestSessionService_MalformedRouteTakesFailurePath(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *route.Route)
	}{
		{"maneuver out of range", func(r *route.Route) { r.Leg[0].Maneuver[0].Position.Latitude = 120 }},
		{"maneuver without position", func(r *route.Route) { r.Leg[0].Maneuver[1].Position = nil }},
		{"malformed shape point", func(r *route.Route) { r.Shape[0] = "north,east" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r := loadFixtureRoute(t)
			tt.mutate(r)
			svc, journeys := newTestSessionService(t, &stubProvider{route: r})

			created, err := svc.Create(ctx, CreateSessionRequest{})
			require.NoError(t, err)
			svc.Wait()

			got, err := svc.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Len(t, got.Overlays, 3)
			require.Len(t, got.Notifications, 1)
			assert.Equal(t, FailureMessage, got.Notifications[0].Message)
			assert.Len(t, journeys.failed, 1)
			assert.Equal(t, 0, journeys.calculated)
		})
	}
}

func TestSessionService_RequestRouteAccumulates(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{route: loadFixtureRoute(t)}
	svc, _ := newTestSessionService(t, provider)

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	to := geo.Coordinate{Lat: 12.95, Lng: 77.64}
	require.NoError(t, svc.RequestRoute(ctx, created.ID, RouteRequest{To: &to}))
	svc.Wait()

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Overlays, 7)
	assert.Equal(t, 2, got.Renders)

	reqs := provider.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, to, reqs[1].Destination())
	assert.Equal(t, testSettings.Origin, reqs[1].Origin())
}

func TestSessionService_RequestRouteValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{route: loadFixtureRoute(t)})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	bad := geo.Coordinate{Lat: 95, Lng: 0}
	err = svc.RequestRoute(ctx, created.ID, RouteRequest{From: &bad})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestSessionService_Tap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{err: errUpstream})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	click, err := svc.Tap(ctx, created.ID, TapRequest{X: 400, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, "Clicked at 12.9716N 77.5946E", click.Message)

	notifications, err := svc.Notifications(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, session.NotificationInfo, notifications[1].Kind)
	assert.Equal(t, click.Message, notifications[1].Message)

	_, err = svc.Tap(ctx, created.ID, TapRequest{X: 900, Y: 10})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
}

func TestSessionService_TapMarkerReusesBubble(t *testing.T) {
	ctx := context.Background()
	r := loadFixtureRoute(t)
	svc, _ := newTestSessionService(t, &stubProvider{route: r})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	first, err := svc.TapMarker(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.True(t, first.IsOpen)
	assert.Equal(t, r.Leg[0].Maneuver[0].Instruction, first.Content)

	second, err := svc.TapMarker(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, r.Leg[0].Maneuver[2].Instruction, second.Content)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Bubble)
	assert.Equal(t, second.Position, got.Bubble.Position)
	assert.Equal(t, second.Position.Lat, got.Camera.Lat)

	_, err = svc.TapMarker(ctx, created.ID, 3)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestSessionService_PanelAndOverlays(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{route: loadFixtureRoute(t)})

	created, err := svc.Create(ctx, CreateSessionRequest{Width: 1024, Height: 768})
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 1024, created.Viewport.Width)

	html, err := svc.PanelHTML(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h3>Hosur Road80 Feet Road</h3>")
	assert.Contains(t, string(html), `<span class="arrow leftTurn"></span>`)

	fc, err := svc.Overlays(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 7)
	last := fc.Features[6]
	assert.Equal(t, 2, last.Properties["tap_index"])
}

func TestSessionService_SubscribeReceivesTaps(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{route: loadFixtureRoute(t)})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	ch, cancel, err := svc.Subscribe(ctx, created.ID)
	require.NoError(t, err)
	defer cancel()

	_, err = svc.Tap(ctx, created.ID, TapRequest{X: 10, Y: 10})
	require.NoError(t, err)

	select {
	case n := <-ch:
		assert.Equal(t, session.NotificationInfo, n.Kind)
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc, _ := newTestSessionService(t, &stubProvider{})
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestSessionService_TapUsesCurrentCamera(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{err: errUpstream})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	camera, err := svc.SetCamera(ctx, created.ID, CameraRequest{Lat: 12.9, Lng: 77.6, Zoom: 16})
	require.NoError(t, err)
	assert.Equal(t, 16.0, camera.Zoom)

	click, err := svc.Tap(ctx, created.ID, TapRequest{X: 400, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, "Clicked at 12.9000N 77.6000E", click.Message)

	click, err = svc.Tap(ctx, created.ID, TapRequest{X: 400, Y: 300, Camera: &CameraRequest{Lat: 12.95, Lng: 77.55, Zoom: 14}})
	require.NoError(t, err)
	assert.Equal(t, "Clicked at 12.9500N 77.5500E", click.Message)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Camera{Lat: 12.95, Lng: 77.55, Zoom: 14}, got.Camera)

	_, err = svc.SetCamera(ctx, created.ID, CameraRequest{Lat: 95, Lng: 77.6, Zoom: 10})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))

	_, err = svc.Tap(ctx, created.ID, TapRequest{X: 900, Y: 10, Camera: &CameraRequest{Lat: 1, Lng: 1, Zoom: 3}})
	assert.True(t, domain.IsCode(err, domain.CodeValidation))
	got, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.95, got.Camera.Lat)
}

func TestSessionService_TapClosesBubble(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{route: loadFixtureRoute(t)})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	_, err = svc.TapMarker(ctx, created.ID, 1)
	require.NoError(t, err)
	_, err = svc.Tap(ctx, created.ID, TapRequest{X: 10, Y: 10})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Bubble)
	assert.False(t, got.Bubble.IsOpen)

	reopened, err := svc.TapMarker(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen)
}

func TestSessionService_ExpireIdle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, &stubProvider{err: errUpstream})

	idle, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	watched, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	_, cancel, err := svc.Subscribe(ctx, watched.ID)
	require.NoError(t, err)
	defer cancel()

	assert.Equal(t, 1, svc.ExpireIdle(ctx, 0))

	_, err = svc.Get(ctx, idle.ID)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	_, err = svc.Tap(ctx, idle.ID, TapRequest{X: 1, Y: 1})
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))

	_, err = svc.Get(ctx, watched.ID)
	assert.NoError(t, err)
}

func TestSessionService_RunExpiryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := newTestSessionService(t, &stubProvider{err: errUpstream})

	created, err := svc.Create(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	svc.Wait()

	done := make(chan struct{})
	go func() {
		svc.RunExpiry(ctx, time.Nanosecond, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := svc.Get(context.Background(), created.ID)
		return domain.IsCode(err, domain.CodeNotFound)
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry loop did not stop")
	}
}
