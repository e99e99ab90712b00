package events

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-routemap/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/events"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RouteRequester re-routes a session.
type RouteRequester interface {
	RequestRoute(ctx context.Context, id uuid.UUID, req application.RouteRequest) error
}

// RouteRequestConsumer listens for route requests and routes the named session.
type RouteRequestConsumer struct {
	consumer *kafka.Consumer
	service  RouteRequester
	logger   *zap.Logger
}

// NewRouteRequestConsumer creates a new RouteRequestConsumer.
func NewRouteRequestConsumer(
	brokers []string,
	groupID string,
	service RouteRequester,
	logger *zap.Logger,
) *RouteRequestConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicRouteMapRequests, logger)
	return &RouteRequestConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming route requests. This blocks until the context is cancelled.
func (c *RouteRequestConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RouteRequestConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RouteRequestConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from request topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}
	return c.handleEvent(ctx, cloudEvent)
}

func (c *RouteRequestConsumer) handleEvent(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	switch cloudEvent.Type {
	case events.RouteRequested:
		return c.handleRouteRequested(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled request event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *RouteRequestConsumer) handleRouteRequested(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.RouteRequestedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RouteRequestedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing route request",
		zap.String("session_id", evt.SessionID.String()),
		zap.String("event_id", cloudEvent.ID),
	)

	req := application.RouteRequest{Mode: evt.Mode}
	if evt.From != nil {
		req.From = &geo.Coordinate{Lat: evt.From.Lat, Lng: evt.From.Lng}
	}
	if evt.To != nil {
		req.To = &geo.Coordinate{Lat: evt.To.Lat, Lng: evt.To.Lng}
	}

	if err := c.service.RequestRoute(ctx, evt.SessionID, req); err != nil {
		if domain.IsCode(err, domain.CodeNotFound) || domain.IsCode(err, domain.CodeValidation) {
			c.logger.Warn("dropping route request",
				zap.String("session_id", evt.SessionID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to request route",
			zap.String("session_id", evt.SessionID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
