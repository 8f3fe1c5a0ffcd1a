package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as a JSON string under checkout:{id}. Every
// save refreshes the TTL, so an abandoned wizard simply expires.
type RedisStore struct {
	Redis *redis.Client
	TTL   time.Duration
}

func (r *RedisStore) key(id string) string { return fmt.Sprintf(redisx.KeyCheckout, id) }

func (r *RedisStore) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = redisx.TTLCheckout
	}
	return r.Redis.Set(ctx, r.key(s.ID), b, ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	b, err := r.Redis.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.Redis.Del(ctx, r.key(id)).Err()
}

// Lock claims checkout:{id}:submit. The claim expires on its own if the
// holder dies before unlocking.
func (r *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	key := fmt.Sprintf(redisx.KeyCheckoutSubmit, id)
	ok, err := redisx.Claim(ctx, r.Redis, key, redisx.TTLCheckoutSubmit)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	return func() {
		_ = r.Redis.Del(context.WithoutCancel(ctx), key).Err()
	}, nil
}
