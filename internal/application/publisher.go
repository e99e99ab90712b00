package application

import (
	"context"

	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/kafka"
	"go.uber.org/zap"
)

const eventSource = "service-routemap"

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// publishEvent logs publish failures instead of returning them; the state
// change that produced the event has already been committed.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType string, data interface{}) {
	if publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
