package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/kafka"
	"github.com/transit-planner/service-route/internal/events"
)

// EventPublisher is satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// networkPublisher wraps network-change events in CloudEvents. Publish failures
// are logged; the write that triggered them has already been committed.
type networkPublisher struct {
	producer EventPublisher
	source   string
	logger   *zap.Logger
}

func (p networkPublisher) publish(ctx context.Context, eventType string, data interface{}) {
	if p.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(p.source, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, events.TopicNetworkEvents, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", events.TopicNetworkEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
