package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler returns nil only when the message is fully processed and its offset
// may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
	log     *zap.Logger
}

func NewConsumer(brokers []string, group string, topics []string, workers int, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{r: r, workers: workers, log: log}
}

// Start fetches messages and fans them out to the worker pool until ctx is
// cancelled. Every partition is served by one worker, in offset order, and a
// failing message is retried until it succeeds, so no later offset of its
// partition is committed ahead of it.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 256)
		wg.Add(1)
		go func(id int, jobs <-chan kafka.Message) {
			defer wg.Done()
			for m := range jobs {
				c.handle(ctx, id, h, m)
			}
		}(i, lanes[i])
	}
	defer func() {
		for _, l := range lanes {
			close(l)
		}
		wg.Wait()
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case lanes[lane(m, c.workers)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

// lane picks the worker that owns m's partition.
func lane(m kafka.Message, workers int) int {
	if workers <= 1 {
		return 0
	}
	return m.Partition % workers
}

const (
	retryMin = 200 * time.Millisecond
	retryMax = 10 * time.Second
)

func (c *Consumer) handle(ctx context.Context, worker int, h Handler, m kafka.Message) {
	fields := []zap.Field{
		zap.Int("worker", worker),
		zap.String("topic", m.Topic),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	}
	if err := retry(ctx, h, m, retryMin, retryMax, func(attempt int, err error) {
		c.log.Error("handle message", append(fields, zap.Int("attempt", attempt), zap.Error(err))...)
	}); err != nil {
		// shutting down; the offset stays uncommitted and is redelivered
		return
	}
	if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
		c.log.Warn("commit offset", append(fields, zap.Error(err))...)
	}
}

// retry runs h until it succeeds, doubling the pause between attempts up to
// ceiling. It gives up only when ctx is done.
func retry(ctx context.Context, h Handler, m kafka.Message, first, ceiling time.Duration, onErr func(attempt int, err error)) error {
	wait := first
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		onErr(attempt, err)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if wait *= 2; wait > ceiling {
			wait = ceiling
		}
	}
}
