package routing

import (
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing/google"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/routing/here"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Config selects and configures the routing provider.
type Config struct {
	Provider string
	HERE     here.Config
	Google   google.Config
	CacheTTL time.Duration
}

// New builds the configured provider. A non-nil redis client adds the route cache.
func New(cfg Config, rdb *redis.Client, logger *zap.Logger) (route.Provider, error) {
	var (
		provider route.Provider
		err      error
	)

	switch cfg.Provider {
	case "", here.ProviderName:
		provider, err = here.NewClient(cfg.HERE, logger.Named("here"))
	case google.ProviderName:
		provider, err = google.NewClient(cfg.Google, logger.Named("google"))
	default:
		return nil, fmt.Errorf("unknown routing provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if rdb != nil && cfg.CacheTTL > 0 {
		provider = NewCachedProvider(provider, rdb, cfg.CacheTTL, logger.Named("route-cache"))
	}
	return provider, nil
}
