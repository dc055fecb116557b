package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fruitika/storefront-api/logger"
	"github.com/fruitika/storefront-api/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:         "o-1",
		TrackingID: "FRK-00000001",
		UserID:     "u1",
		Items:      []models.OrderItem{{ProductID: "1", ProductName: "Sweet Lime", Quantity: 2, UnitPrice: 24.99}},
		Total:      65.97,
		Currency:   "INR",
	}
}

func TestKafkaPublisher_OrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "o-1", string(msg.Key))
	assert.Equal(t, EventOrderPlaced, string(msg.Headers[0].Value))

	var ev OrderPlacedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "FRK-00000001", ev.TrackingID)
	assert.Equal(t, 65.97, ev.Total)
	assert.Len(t, ev.Items, 1)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.OrderPlaced(context.Background(), sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestFanout_ContinuesPastFailures(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	f := NewFanout(logger.Discard()).
		Add("first", NotifierFunc(func(context.Context, *models.Order) error {
			calls = append(calls, "first")
			return boom
		})).
		Add("nil", nil).
		Add("second", NotifierFunc(func(context.Context, *models.Order) error {
			calls = append(calls, "second")
			return nil
		}))

	err := f.OrderPlaced(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}
