package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/mapview"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixtureProvider struct {
	route *route.Route
	err   error
}

func (p *fixtureProvider) Name() string { return "fixture" }

func (p *fixtureProvider) CalculateRoute(ctx context.Context, req route.Request) (*route.Route, error) {
	if p.err != nil {
		return nil, p.err
	}
	copied := *p.route
	return &copied, nil
}

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

func newSessionService(t *testing.T, provider route.Provider) *application.SessionService {
	t.Helper()
	settings := application.MapSettings{
		Center:      geo.Coordinate{Lat: 12.9716, Lng: 77.5946},
		Zoom:        13,
		Viewport:    mapview.Viewport{Width: 800, Height: 600, PixelRatio: 1},
		Mode:        route.DefaultMode,
		Origin:      geo.Coordinate{Lat: 12.8448, Lng: 77.6632},
		Destination: geo.Coordinate{Lat: 12.9343, Lng: 77.6112},
	}
	routes := application.NewRouteService(provider, time.Second, zap.NewNop())
	return application.NewSessionService(repository.NewMemorySessionStore(), routes, nil, settings, zap.NewNop())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}
