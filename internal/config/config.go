package config

import (
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/config"
	"github.com/spf13/viper"
)

// RoutingConfig selects the routing provider and its limits.
type RoutingConfig struct {
	Provider      string
	HEREAppID     string
	HEREAppCode   string
	UseCIT        bool
	BaseURL       string
	GoogleAPIKey  string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	CacheTTL      time.Duration
}

// MapConfig holds the defaults of new map sessions.
type MapConfig struct {
	Center      geo.Coordinate
	Zoom        float64
	Width       int
	Height      int
	PixelRatio  float64
	Mode        string
	Origin      geo.Coordinate
	Destination geo.Coordinate
}

// SessionConfig controls how long idle map sessions are kept.
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// ServiceConfig holds all configuration for the route map service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	MigrationsPath string
	DBConfig       config.DatabaseConfig
	RedisConfig    config.RedisConfig
	JWTConfig      config.JWTConfig
	KafkaConfig    config.KafkaConfig
	Routing        RoutingConfig
	Map            MapConfig
	Sessions       SessionConfig
}

// Load reads configuration from environment variables prefixed ROUTEMAP_.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("ROUTEMAP")
	if err != nil {
		return nil, err
	}
	setDefaults(v)

	mapCfg, err := loadMapConfig(v)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:           config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:         config.GetAppEnv(v),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		DBConfig:       config.LoadDatabaseConfig(v, "DB_NAME"),
		RedisConfig:    config.LoadRedisConfig(v),
		JWTConfig:      config.LoadJWTConfig(v),
		KafkaConfig:    config.LoadKafkaConfig(v),
		Routing:        loadRoutingConfig(v),
		Map:            mapCfg,
		Sessions: SessionConfig{
			IdleTTL:       v.GetDuration("SESSION_IDLE_TTL"),
			SweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("DB_NAME", "routemap")
	v.SetDefault("MIGRATIONS_PATH", "migrations")

	v.SetDefault("ROUTING_PROVIDER", "here")
	v.SetDefault("ROUTING_USE_CIT", true)
	v.SetDefault("ROUTING_TIMEOUT", "10s")
	v.SetDefault("ROUTING_RATE_PER_SECOND", 5)
	v.SetDefault("ROUTING_BURST", 5)
	v.SetDefault("ROUTING_CACHE_TTL", "10m")

	v.SetDefault("MAP_CENTER", "12.9716,77.5946")
	v.SetDefault("MAP_ZOOM", 13)
	v.SetDefault("MAP_WIDTH", 800)
	v.SetDefault("MAP_HEIGHT", 600)
	v.SetDefault("MAP_PIXEL_RATIO", 1)
	v.SetDefault("MAP_MODE", "fastest;car")
	v.SetDefault("MAP_ORIGIN", "12.8448,77.6632")
	v.SetDefault("MAP_DESTINATION", "12.9343,77.6112")

	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
}

func loadRoutingConfig(v *viper.Viper) RoutingConfig {
	return RoutingConfig{
		Provider:      v.GetString("ROUTING_PROVIDER"),
		HEREAppID:     v.GetString("HERE_APP_ID"),
		HEREAppCode:   v.GetString("HERE_APP_CODE"),
		UseCIT:        v.GetBool("ROUTING_USE_CIT"),
		BaseURL:       v.GetString("ROUTING_BASE_URL"),
		GoogleAPIKey:  v.GetString("GOOGLE_API_KEY"),
		Timeout:       v.GetDuration("ROUTING_TIMEOUT"),
		RatePerSecond: v.GetFloat64("ROUTING_RATE_PER_SECOND"),
		Burst:         v.GetInt("ROUTING_BURST"),
		CacheTTL:      v.GetDuration("ROUTING_CACHE_TTL"),
	}
}

func loadMapConfig(v *viper.Viper) (MapConfig, error) {
	coords := map[string]geo.Coordinate{}
	for _, key := range []string{"MAP_CENTER", "MAP_ORIGIN", "MAP_DESTINATION"} {
		c, err := geo.ParseCoordinate(v.GetString(key))
		if err != nil {
			return MapConfig{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		coords[key] = c
	}

	return MapConfig{
		Center:      coords["MAP_CENTER"],
		Zoom:        v.GetFloat64("MAP_ZOOM"),
		Width:       v.GetInt("MAP_WIDTH"),
		Height:      v.GetInt("MAP_HEIGHT"),
		PixelRatio:  v.GetFloat64("MAP_PIXEL_RATIO"),
		Mode:        v.GetString("MAP_MODE"),
		Origin:      coords["MAP_ORIGIN"],
		Destination: coords["MAP_DESTINATION"],
	}, nil
}
