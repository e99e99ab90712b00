package here

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	ProviderName = "here"

	productionHost     = "https://route.api.here.com"
	citHost            = "https://route.cit.api.here.com"
	calculateRoutePath = "/routing/7.2/calculateroute.json"

	maxErrorBody = 4096
)

// Config holds the platform credentials and client limits.
type Config struct {
	AppID   string
	AppCode string
	UseCIT  bool
	// BaseURL overrides the host selected by UseCIT.
	BaseURL string
	Timeout time.Duration
	// RatePerSecond of zero disables rate limiting.
	RatePerSecond float64
	Burst         int
}

// Client calls the Routing 7.2 calculateroute endpoint.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a Client. Credentials are required.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.AppID == "" || cfg.AppCode == "" {
		return nil, fmt.Errorf("here: app_id and app_code are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	host := productionHost
	if cfg.UseCIT {
		host = citHost
	}
	if cfg.BaseURL != "" {
		host = strings.TrimRight(cfg.BaseURL, "/")
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		cfg:        cfg,
		endpoint:   host + calculateRoutePath,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// Name implements route.Provider.
func (c *Client) Name() string { return ProviderName }

// Endpoint returns the calculateroute URL the client targets.
func (c *Client) Endpoint() string { return c.endpoint }

// CalculateRoute implements route.Provider.
func (c *Client) CalculateRoute(ctx context.Context, req route.Request) (*route.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewUpstreamError("routing rate limit wait aborted", err)
	}

	params := c.queryParams(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build routing request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting route",
		zap.String("mode", req.Mode),
		zap.String("waypoint0", params.Get("waypoint0")),
		zap.String("waypoint1", params.Get("waypoint1")),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewUpstreamError("routing request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var body route.CalculateRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewUpstreamError("failed to decode routing response", err)
	}

	r, err := body.FirstRoute()
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Client) queryParams(req route.Request) url.Values {
	params := url.Values{}
	params.Set("app_id", c.cfg.AppID)
	params.Set("app_code", c.cfg.AppCode)
	params.Set("mode", req.Mode)
	params.Set("representation", req.Representation)
	params.Set("routeattributes", strings.Join(req.RouteAttributes, ","))
	params.Set("maneuverattributes", strings.Join(req.ManeuverAttributes, ","))
	for i, wp := range req.Waypoints {
		params.Set(fmt.Sprintf("waypoint%d", i), wp.String())
	}
	return params
}

// errorBody is the platform's error document.
type errorBody struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Details string `json:"details"`
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && (body.Subtype != "" || body.Details != "") {
		return domain.NewUpstreamError(
			fmt.Sprintf("routing API returned %d", resp.StatusCode),
			fmt.Errorf("%s/%s: %s", body.Type, body.Subtype, body.Details),
		)
	}
	return domain.NewUpstreamError(
		fmt.Sprintf("routing API returned %d", resp.StatusCode),
		fmt.Errorf("%s", strings.TrimSpace(string(raw))),
	)
}
