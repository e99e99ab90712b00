package route

import "context"

// Provider calculates routes using an external routing platform.
type Provider interface {
	// Name identifies the provider in logs and persisted journeys.
	Name() string

	// CalculateRoute issues one request and returns the first route of the response.
	CalculateRoute(ctx context.Context, req Request) (*Route, error)
}
