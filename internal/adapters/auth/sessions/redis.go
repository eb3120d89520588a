package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"doggy-daycare/internal/ports/auth"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore guarda cada sesión como JSON bajo session:<token>, con TTL nativo.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (r *RedisStore) Save(ctx context.Context, s auth.Session, ttl time.Duration) error {
	if ttl > 0 {
		s.ExpiresAt = r.now().Add(ttl)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+s.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session in redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (auth.Session, error) {
	val, err := r.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var s auth.Session
	if err := json.Unmarshal(val, &s); err != nil {
		return auth.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
