package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/kafka"
)

// CacheInvalidator drops cached catalog entries.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// NetworkEventConsumer listens to network-change events published by any
// instance and drops this instance's cached catalog entries.
type NetworkEventConsumer struct {
	consumer        *kafka.Consumer
	source          string
	locations       CacheInvalidator
	transportations CacheInvalidator
	logger          *zap.Logger
}

// NewNetworkEventConsumer creates a new NetworkEventConsumer. Events whose
// source equals source were published by this instance and are skipped.
// groupID must be unique per instance so that every instance sees every event.
func NewNetworkEventConsumer(
	brokers []string,
	groupID, source string,
	locations, transportations CacheInvalidator,
	logger *zap.Logger,
) *NetworkEventConsumer {
	return &NetworkEventConsumer{
		consumer:        kafka.NewConsumer(brokers, groupID, TopicNetworkEvents, logger),
		source:          source,
		locations:       locations,
		transportations: transportations,
		logger:          logger,
	}
}

// Start begins consuming network events. This blocks until the context is cancelled.
func (c *NetworkEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *NetworkEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *NetworkEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from network topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	if cloudEvent.Source == c.source {
		return nil
	}

	switch {
	case strings.HasPrefix(cloudEvent.Type, "transportation."):
		c.transportations.InvalidateAll(ctx)
	case strings.HasPrefix(cloudEvent.Type, "location."):
		c.locations.InvalidateAll(ctx)
		c.transportations.InvalidateAll(ctx)
	default:
		c.logger.Debug("ignoring unhandled network event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	c.logger.Info("cache invalidated by peer event",
		zap.String("type", cloudEvent.Type),
		zap.String("source", cloudEvent.Source),
		zap.String("event_id", cloudEvent.ID),
	)
	return nil
}
