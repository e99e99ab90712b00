package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"go.uber.org/zap"
)

// RouteService issues route requests against the configured provider.
type RouteService struct {
	provider route.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRouteService creates a RouteService. A zero timeout means no deadline
// beyond the caller's context.
func NewRouteService(provider route.Provider, timeout time.Duration, logger *zap.Logger) *RouteService {
	return &RouteService{provider: provider, timeout: timeout, logger: logger}
}

// ProviderName returns the name of the routing provider.
func (s *RouteService) ProviderName() string { return s.provider.Name() }

// RequestRoute starts one request in the background. The returned channel
// yields exactly one Result and is then closed.
func (s *RouteService) RequestRoute(ctx context.Context, req route.Request) <-chan route.Result {
	results := make(chan route.Result, 1)

	go func() {
		defer close(results)
		results <- s.calculate(ctx, req)
	}()

	return results
}

func (s *RouteService) calculate(ctx context.Context, req route.Request) route.Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	r, err := s.provider.CalculateRoute(ctx, req)
	if err != nil {
		s.logger.Warn("route request failed",
			zap.String("provider", s.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return route.Failure(fmt.Errorf("calculate route: %w", err))
	}

	s.logger.Info("route calculated",
		zap.String("provider", s.provider.Name()),
		zap.Float64("distance_m", r.Summary.Distance),
		zap.Int64("travel_time_s", r.Summary.TravelTime),
		zap.Duration("elapsed", time.Since(start)),
	)
	return route.Success(r)
}
