package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "routemap", cfg.DBConfig.DBName)
	assert.Equal(t, "here", cfg.Routing.Provider)
	assert.True(t, cfg.Routing.UseCIT)
	assert.Equal(t, 10*time.Second, cfg.Routing.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Routing.CacheTTL)

	assert.Equal(t, 12.9716, cfg.Map.Center.Lat)
	assert.Equal(t, 77.5946, cfg.Map.Center.Lng)
	assert.Equal(t, float64(13), cfg.Map.Zoom)
	assert.Equal(t, "fastest;car", cfg.Map.Mode)
	assert.Equal(t, 12.8448, cfg.Map.Origin.Lat)
	assert.Equal(t, 77.6112, cfg.Map.Destination.Lng)

	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Sessions.SweepInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ROUTEMAP_SERVICE_PORT", "9090")
	t.Setenv("ROUTEMAP_HERE_APP_ID", "app-id")
	t.Setenv("ROUTEMAP_HERE_APP_CODE", "app-code")
	t.Setenv("ROUTEMAP_ROUTING_USE_CIT", "false")
	t.Setenv("ROUTEMAP_MAP_ORIGIN", "12.90,77.60")
	t.Setenv("ROUTEMAP_SESSION_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "app-id", cfg.Routing.HEREAppID)
	assert.Equal(t, "app-code", cfg.Routing.HEREAppCode)
	assert.False(t, cfg.Routing.UseCIT)
	assert.Equal(t, 12.9, cfg.Map.Origin.Lat)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.IdleTTL)
}

func TestLoad_InvalidCoordinate(t *testing.T) {
	t.Setenv("ROUTEMAP_MAP_CENTER", "north")
	_, err := Load()
	assert.Error(t, err)
}
