package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	OrderID int64  `json:"order_id"`
	Kind    string `json:"kind"`
}

func TestNewAndDecode(t *testing.T) {
	env, err := New(EventOrderCreated, "ledger-api", "sale:3", sample{OrderID: 3, Kind: "sale"})
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, Version, env.EventVersion)
	assert.Equal(t, "sale:3", env.CorrelationID)
	assert.False(t, env.OccurredAt.IsZero())

	got, err := Decode[sample](env)
	require.NoError(t, err)
	assert.Equal(t, sample{OrderID: 3, Kind: "sale"}, got)

	other, err := New(EventOrderCreated, "ledger-api", "sale:3", nil)
	require.NoError(t, err)
	assert.NotEqual(t, env.EventID, other.EventID)
}

func TestNewRejectsUnencodable(t *testing.T) {
	_, err := New(EventOrderCreated, "p", "x", make(chan int))
	assert.Error(t, err)
}

func TestTraceRoundTrip(t *testing.T) {
	assert.Empty(t, TraceFrom(context.Background()))
	ctx := WithTrace(context.Background(), "req-1")
	assert.Equal(t, "req-1", TraceFrom(ctx))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(), TopicOrderCreated, Envelope{EventID: "a"}))
	require.NoError(t, Nop{}.Publish(context.Background(), TopicOrderCreated, Envelope{}))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{TopicOrderCreated}, r.Topics)
}
