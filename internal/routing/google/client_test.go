package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Overview polyline "_p~iF~ps|U_ulLnnqC_mqNvxq`@" decodes to three points.
const directionsBody = `{
  "status": "OK",
  "geocoded_waypoints": [],
  "routes": [{
    "summary": "Outer Ring Rd",
    "overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
    "legs": [{
      "distance": {"text": "13.4 km", "value": 13410},
      "duration": {"text": "28 mins", "value": 1685},
      "start_address": "Hosur Road",
      "end_address": "80 Feet Road",
      "start_location": {"lat": 12.8448, "lng": 77.6632},
      "end_location": {"lat": 12.9343, "lng": 77.6112},
      "steps": [
        {"html_instructions": "Head <b>north</b>", "distance": {"text": "5 km", "value": 5000}, "duration": {"text": "10 mins", "value": 600},
         "start_location": {"lat": 12.8448, "lng": 77.6632}, "end_location": {"lat": 12.8901, "lng": 77.6401}, "polyline": {"points": ""}, "travel_mode": "DRIVING"},
        {"html_instructions": "Turn <b>left</b>", "distance": {"text": "8.4 km", "value": 8410}, "duration": {"text": "18 mins", "value": 1085},
         "start_location": {"lat": 12.8901, "lng": 77.6401}, "end_location": {"lat": 12.9343, "lng": 77.6112}, "polyline": {"points": ""}, "travel_mode": "DRIVING", "maneuver": "turn-left"}
      ]
    }]
  }]
}`

func TestCalculateRoute_ConvertsDirections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "12.8448,77.6632", r.URL.Query().Get("origin"))
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(directionsBody))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "AIza-test", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	r, err := c.CalculateRoute(context.Background(), route.NewRequest("",
		geo.Coordinate{Lat: 12.8448, Lng: 77.6632},
		geo.Coordinate{Lat: 12.9343, Lng: 77.6112},
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hosur Road", "80 Feet Road"}, r.WaypointLabels())
	assert.Len(t, r.Shape, 3)
	require.NoError(t, r.Validate())

	ms := r.Maneuvers()
	require.Len(t, ms, 3)
	assert.Equal(t, "depart", ms[0].Action)
	assert.Equal(t, "leftTurn", ms[1].Action)
	assert.Equal(t, "arrive", ms[2].Action)
	assert.Equal(t, float64(13410), r.Summary.Distance)
	assert.Equal(t, int64(1685), r.Summary.TravelTime)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestTravelMode(t *testing.T) {
	assert.Equal(t, "driving", string(travelMode("fastest;car")))
	assert.Equal(t, "walking", string(travelMode("shortest;pedestrian")))
	assert.Equal(t, "bicycling", string(travelMode("fastest;bicycle")))
}
