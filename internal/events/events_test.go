package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, zerolog.Nop())

	minted := "NEXT1234"
	err := publisher.PublishOrderPlaced(context.Background(), OrderPlaced{
		OrderID:             42,
		UserID:              7,
		OrderNumber:         4,
		TotalAmount:         decimal.RequireFromString("200"),
		DiscountAmount:      decimal.Zero,
		FinalAmount:         decimal.RequireFromString("200"),
		DiscountCodeCreated: &minted,
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeOrderPlaced, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, TypeOrderPlaced, decoded["type"])
	assert.Equal(t, "NEXT1234", decoded["discountCodeCreated"])
	assert.NotEmpty(t, decoded["eventId"])
	assert.NotContains(t, decoded, "discountCode")

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker unavailable")}
	publisher := newKafkaPublisher(writer, zerolog.Nop())

	err := publisher.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	assert.NoError(t, p.PublishOrderPlaced(context.Background(), OrderPlaced{OrderID: 1}))
	assert.NoError(t, p.Close())
}
