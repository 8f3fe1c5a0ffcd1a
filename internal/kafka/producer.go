package kafka

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var ErrProducerClosed = errors.New("producer closed")

// Producer publishes envelopes through a buffered inbox drained by one
// goroutine, so request handlers never wait on the broker. The topic travels
// with each message.
type Producer struct {
	w       *kafka.Writer
	log     *zap.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ events.Publisher = (*Producer)(nil)

func NewProducer(brokers []string, buf int, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		log:     log,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the writer loop until Close is called. Messages still in the inbox
// are flushed before the writer is closed.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			p.write(ctx, m)
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn("close kafka writer", zap.Error(err))
		}
	}()
}

func (p *Producer) write(ctx context.Context, m kafka.Message) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(wctx, m); err != nil {
		p.log.Error("kafka write",
			zap.String("topic", m.Topic),
			zap.ByteString("key", m.Key),
			zap.Error(err),
		)
	}
}

// Publish queues env on topic. It blocks only while the inbox is full.
func (p *Producer) Publish(ctx context.Context, topic string, env events.Envelope) error {
	m, err := Message(topic, env)
	if err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}
	select {
	case p.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Message encodes env as a Kafka message keyed by its correlation id, with the
// event type and version mirrored into headers.
func Message(topic string, env events.Envelope) (kafka.Message, error) {
	b, err := Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Topic: topic,
		Key:   events.PartitionKey(env.CorrelationID),
		Value: b,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(env.EventType)},
			{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}, nil
}

// Close stops accepting messages; the loop flushes what is queued and exits.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed blocks until the writer loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
