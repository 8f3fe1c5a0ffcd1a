package summary

import (
	"context"
	"fmt"

	kafkax "github.com/ariefcatur/go-factory-ledger/internal/kafka"
	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Projector is the consumer handler that folds ledger events into the
// summary hashes.
type Projector struct {
	Redis *redis.Client
	Name  string
	Log   *zap.Logger
}

func (p *Projector) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// HandleEvent is installed as the kafka consumer handler. Each event id is
// claimed once; a failed update releases the claim so the redelivery retries.
func (p *Projector) HandleEvent(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		// poison message, nothing to retry
		p.log().Warn("skip undecodable message", zap.String("topic", m.Topic), zap.Error(err))
		return nil
	}
	d, err := DeltaFor(env)
	if err != nil {
		p.log().Warn("skip bad payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}
	if d.Empty() {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, p.Name, env.EventID)
	fresh, err := redisx.Claim(ctx, p.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	_, err = p.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for field, n := range d.Incr {
			pipe.HIncrBy(ctx, d.Key, field, n)
		}
		return nil
	})
	if err != nil {
		_ = p.Redis.Del(context.WithoutCancel(ctx), dkey).Err()
		return fmt.Errorf("apply %s: %w", env.EventType, err)
	}
	p.log().Debug("summary updated",
		zap.String("event_type", env.EventType),
		zap.String("event_id", env.EventID),
		zap.String("key", d.Key),
	)
	return nil
}
