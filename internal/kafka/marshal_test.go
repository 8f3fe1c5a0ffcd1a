package kafka

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCarriesEnvelope(t *testing.T) {
	env, err := events.New(events.EventOrderCreated, "ledger-api", "sale:7", map[string]int{"order_id": 7})
	require.NoError(t, err)

	m, err := Message(events.TopicOrderCreated, env)
	require.NoError(t, err)
	assert.Equal(t, events.TopicOrderCreated, m.Topic)
	assert.Equal(t, []byte("sale:7"), m.Key)
	assert.Equal(t, events.EventOrderCreated, Header(m, HeaderEventType))
	assert.Equal(t, "1", Header(m, HeaderEventVersion))
	assert.Empty(t, Header(m, "missing"))

	back, err := UnmarshalEnvelope(m.Value)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, back.EventID)
	assert.JSONEq(t, `{"order_id":7}`, string(back.Payload))
}

func TestUnmarshalEnvelopeRejectsGarbage(t *testing.T) {
	_, err := UnmarshalEnvelope([]byte("{"))
	assert.Error(t, err)
}

func TestPublishAfterClose(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, 1, nil)
	p.Close()
	p.Close()

	env, err := events.New(events.EventTransactionAdded, "test", "transaction:x", struct{}{})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Publish(context.Background(), events.TopicTransactionAdded, env), ErrProducerClosed)
}
