package events

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/transit-planner/service-route/internal/common/kafka"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll(context.Context) { c.calls++ }

func newTestConsumer() (*NetworkEventConsumer, *countingInvalidator, *countingInvalidator) {
	locs, legs := &countingInvalidator{}, &countingInvalidator{}
	return &NetworkEventConsumer{
		source:          "service-route/self",
		locations:       locs,
		transportations: legs,
		logger:          zap.NewNop(),
	}, locs, legs
}

func message(t *testing.T, source, eventType string) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent(source, eventType, map[string]string{"k": "v"})
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: TopicNetworkEvents, Value: raw}
}

func TestHandleMessage_TransportationEventInvalidatesCatalog(t *testing.T) {
	c, locs, legs := newTestConsumer()

	require.NoError(t, c.handleMessage(context.Background(), message(t, "service-route/peer", TransportationCreated)))

	assert.Equal(t, 0, locs.calls)
	assert.Equal(t, 1, legs.calls)
}

func TestHandleMessage_LocationEventInvalidatesBoth(t *testing.T) {
	c, locs, legs := newTestConsumer()

	require.NoError(t, c.handleMessage(context.Background(), message(t, "service-route/peer", LocationUpdated)))

	assert.Equal(t, 1, locs.calls)
	assert.Equal(t, 1, legs.calls)
}

func TestHandleMessage_SkipsOwnEvents(t *testing.T) {
	c, locs, legs := newTestConsumer()

	require.NoError(t, c.handleMessage(context.Background(), message(t, "service-route/self", TransportationDeleted)))

	assert.Zero(t, locs.calls)
	assert.Zero(t, legs.calls)
}

func TestHandleMessage_MalformedIsDropped(t *testing.T) {
	c, locs, legs := newTestConsumer()

	err := c.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")})

	assert.NoError(t, err)
	assert.Zero(t, locs.calls + legs.calls)
}

func TestHandleMessage_UnknownTypeIgnored(t *testing.T) {
	c, locs, legs := newTestConsumer()

	require.NoError(t, c.handleMessage(context.Background(), message(t, "service-route/peer", "fleet.updated")))

	assert.Zero(t, locs.calls + legs.calls)
}
