package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestLaneKeepsPartitionOnOneWorker(t *testing.T) {
	for p := 0; p < 12; p++ {
		a := lane(kafka.Message{Topic: "ledger.order.created", Partition: p}, 4)
		b := lane(kafka.Message{Topic: "ledger.order.created", Partition: p, Offset: 99}, 4)
		assert.Equal(t, a, b)
		assert.Equal(t, p%4, a)
	}
	assert.Equal(t, 0, lane(kafka.Message{Partition: 5}, 1))
}

func TestRetryHoldsMessageUntilHandled(t *testing.T) {
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		if calls < 3 {
			return errors.New("redis down")
		}
		return nil
	}
	var attempts []int
	err := retry(context.Background(), h, kafka.Message{}, time.Millisecond, 2*time.Millisecond, func(n int, _ error) {
		attempts = append(attempts, n)
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestRetryStopsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := func(context.Context, kafka.Message) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("still failing")
	}
	err := retry(ctx, h, kafka.Message{}, time.Millisecond, time.Millisecond, func(int, error) {})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}
