// Package ratelimit implementa middleware.Limiter en memoria (token bucket por clave)
// y sobre Redis (ventana fija compartida entre instancias).
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// IdleTTL es cuánto vive sin uso el bucket de una clave en Memory.
const IdleTTL = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Memory es un token bucket por clave. Las claves sin uso por más de IdleTTL se descartan.
type Memory struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func NewMemory(rps float64, burst int) *Memory {
	if burst <= 0 {
		burst = 5
	}
	return &Memory{
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
		buckets: map[string]*bucket{},
	}
}

func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	m.sweep(now)
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.rps, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	m.mu.Unlock()

	return b.lim.AllowN(now, 1), nil
}

// Len devuelve cuántas claves tienen bucket vivo.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

// sweep corre como mucho una vez por minuto. Requiere m.mu.
func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < time.Minute {
		return
	}
	m.lastSweep = now
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) > IdleTTL {
			delete(m.buckets, k)
		}
	}
}

// Redis cuenta requests por clave en una ventana fija.
// SET NX con TTL e INCR van en la misma transacción: la clave nunca queda sin expiración.
type Redis struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

func NewRedis(client redis.Cmdable, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := "rate_limit:" + key

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, r.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	return incr.Val() <= int64(r.limit), nil
}
