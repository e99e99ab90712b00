package application

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func loadFixtureRoute(t *testing.T) *route.Route {
	t.Helper()
	raw, err := os.ReadFile("../domain/route/testdata/calculateroute.json")
	require.NoError(t, err)

	var resp route.CalculateRouteResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	r, err := resp.FirstRoute()
	require.NoError(t, err)
	return r
}

func newTestView(t *testing.T) *mapview.View {
	t.Helper()
	v, err := mapview.NewView(geo.Coordinate{Lat: 12.9716, Lng: 77.5946}, 13, mapview.Viewport{Width: 800, Height: 600, PixelRatio: 1})
	require.NoError(t, err)
	return v
}

var testSettings = MapSettings{
	Center:      geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
	Zoom:        13,
	Viewport:    mapview.Viewport{Width: 800, Height: 600, PixelRatio: 1},
	Mode:        route.DefaultMode,
	Origin:      geo.Coordinate{Lat: 12.8448, Lng: 77.6632},
	Destination: geo.Coordinate{Lat: 12.9343, Lng: 77.6112},
}

// stubProvider returns a fixed route or error.
type stubProvider struct {
	mu       sync.Mutex
	route    *route.Route
	err      error
	requests []route.Request
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) CalculateRoute(ctx context.Context, req route.Request) (*route.Route, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.route, nil
}

func (p *stubProvider) Requests() []route.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]route.Request(nil), p.requests...)
}

// recordingJourneys captures recorder calls.
type recordingJourneys struct {
	mu         sync.Mutex
	calculated int
	failed     []error
}

func (r *recordingJourneys) RecordCalculated(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, rt *route.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculated++
}

func (r *recordingJourneys) RecordFailed(ctx context.Context, sessionID uuid.UUID, provider string, req route.Request, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, cause)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

var errUpstream = errors.New("routing API returned 503")
