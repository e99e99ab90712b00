package journey

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	from = geo.Coordinate{Lat: 12.8448, Lng: 77.6632}
	to   = geo.Coordinate{Lat: 12.9343, Lng: 77.6112}
)

func testRoute() *route.Route {
	return &route.Route{
		Waypoint: []route.Waypoint{{Label: "Hosur Road"}, {Label: "80 Feet Road"}},
		Leg: []route.Leg{{Maneuver: []route.Maneuver{
			{Position: &route.Position{Latitude: 12.8448, Longitude: 77.6632}, Action: "depart"},
			{Position: &route.Position{Latitude: 12.9343, Longitude: 77.6112}, Action: "arrive"},
		}}},
		Summary: route.Summary{Distance: 13410, TravelTime: 1685},
		Shape:   []string{"12.8448,77.6632", "12.8901,77.6401", "12.9343,77.6112"},
	}
}

func TestNewCalculatedJourney(t *testing.T) {
	sessionID := uuid.New()
	j, err := NewCalculatedJourney(sessionID, "here", route.NewRequest("", from, to), testRoute())
	require.NoError(t, err)

	assert.Equal(t, StatusCalculated, j.Status())
	assert.Equal(t, sessionID, j.SessionID())
	assert.Equal(t, "Hosur Road | 80 Feet Road", j.WaypointLabels())
	assert.Equal(t, 2, j.ManeuverCount())
	assert.Equal(t, int64(1685), j.TravelTimeSec())

	path, err := j.Path()
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.InDelta(t, 12.8901, path[1].Lat, 1e-5)
	assert.InDelta(t, 77.6401, path[1].Lng, 1e-5)
}

func TestNewFailedJourney_TruncatesMessage(t *testing.T) {
	j, err := NewFailedJourney(uuid.New(), "here", route.NewRequest("", from, to), errors.New(strings.Repeat("x", 900)))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, j.Status())
	assert.Len(t, j.ErrorMessage(), maxErrorMessage)
	assert.Empty(t, j.Polyline())

	path, err := j.Path()
	require.NoError(t, err)
	assert.Empty(t, path)

	j, err = NewFailedJourney(uuid.New(), "here", route.NewRequest("", from, to), errors.New("a"+strings.Repeat("é", 600)))
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(j.ErrorMessage()))
	assert.Equal(t, maxErrorMessage, utf8.RuneCountInString(j.ErrorMessage()))
	assert.True(t, strings.HasSuffix(j.ErrorMessage(), "é"))
}

func TestNewCalculatedJourney_CapsWaypointLabels(t *testing.T) {
	r := testRoute()
	r.Waypoint[0].Label = strings.Repeat("ü", 400)
	r.Waypoint[1].Label = strings.Repeat("ö", 400)

	j, err := NewCalculatedJourney(uuid.New(), "here", route.NewRequest("", from, to), r)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(j.WaypointLabels()))
	assert.Equal(t, maxWaypointLabels, utf8.RuneCountInString(j.WaypointLabels()))
}

func TestNewJourney_RejectsInvalidRequest(t *testing.T) {
	_, err := NewCalculatedJourney(uuid.New(), "here", route.Request{}, testRoute())
	assert.Error(t, err)
	_, err = NewFailedJourney(uuid.New(), "here", route.Request{}, nil)
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("failed")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, s)
	_, err = ParseStatus("pending")
	assert.Error(t, err)
}
