package session

import (
	"errors"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	v, err := mapview.NewView(geo.Coordinate{Lat: 12.9716, Lng: 77.5946}, 13, mapview.Viewport{Width: 800, Height: 600})
	require.NoError(t, err)
	return New(v)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusNoRoute.CanTransitionTo(StatusRouteShown))
	assert.False(t, StatusRouteShown.CanTransitionTo(StatusNoRoute))

	_, err := ParseStatus("route_shown")
	assert.NoError(t, err)
	_, err = ParseStatus("hidden")
	assert.Error(t, err)
}

func TestSession_RecordRenderIsOneWay(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, StatusNoRoute, s.Status())

	s.RecordRender()
	s.RecordRender()
	assert.Equal(t, StatusRouteShown, s.Status())
	assert.Equal(t, 2, s.Renders())
}

func TestSession_ApplyPropagatesError(t *testing.T) {
	s := newTestSession(t)
	boom := errors.New("boom")
	err := s.Apply(func(v *mapview.View, p *panel.Panel) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSession_NotifyFansOut(t *testing.T) {
	s := newTestSession(t)
	ch, cancel := s.Subscribe()
	assert.Equal(t, 1, s.SubscriberCount())

	s.Notify(NotificationInfo, "Clicked at 12.9000N 77.6000E")

	n := <-ch
	assert.Equal(t, "Clicked at 12.9000N 77.6000E", n.Message)
	assert.Len(t, s.Notifications(), 1)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, s.SubscriberCount())

	s.Notify(NotificationError, "Ooops!")
	assert.Len(t, s.Notifications(), 2)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Apply(func(v *mapview.View, p *panel.Panel) error {
		v.OpenBubble(geo.Coordinate{Lat: 1, Lng: 1}, "first")
		p.SetSummary(10, 20)
		return nil
	}))

	snap := s.Snapshot()
	snap.View.Bubble.Content = "changed"
	snap.Summary.Distance = 99

	again := s.Snapshot()
	assert.Equal(t, "first", again.View.Bubble.Content)
	assert.Equal(t, float64(10), again.Summary.Distance)
	assert.Equal(t, 13.0, again.View.Camera.Zoom)
}
