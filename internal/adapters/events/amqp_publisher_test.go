package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/services"
)

var _ services.EventPublisher = (*AMQPPublisher)(nil)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, DefaultExchange, nil)

	event := services.Event{
		ID:         "evt-1",
		Type:       services.EventApplicationSubmitted,
		OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Payload:    map[string]interface{}{"application_id": 7},
	}
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, DefaultExchange, sent.exchange)
	assert.Equal(t, "application.submitted", sent.key)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, "evt-1", sent.msg.MessageId)
	assert.Equal(t, "application/json", sent.msg.ContentType)

	var decoded services.Event
	require.NoError(t, json.Unmarshal(sent.msg.Body, &decoded))
	assert.Equal(t, event.Type, decoded.Type)
	assert.EqualValues(t, 7, decoded.Payload["application_id"])
}

func TestPublishErrors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, DefaultExchange, nil)
	assert.Error(t, p.Publish(context.Background(), services.Event{Type: services.EventInterviewScheduled}))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), services.Event{}), ErrPublisherClosed)
}
