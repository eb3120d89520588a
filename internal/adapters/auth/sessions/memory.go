package sessions

import (
	"context"
	"sync"
	"time"

	"doggy-daycare/internal/ports/auth"
)

// MemoryStore guarda sesiones en proceso. Se usa cuando no hay Redis configurado.
type MemoryStore struct {
	mu      sync.Mutex
	byToken map[string]auth.Session
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]auth.Session),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, s auth.Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl > 0 {
		s.ExpiresAt = m.now().Add(ttl)
	}
	m.byToken[s.Token] = s
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byToken[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if !s.ExpiresAt.IsZero() && !m.now().Before(s.ExpiresAt) {
		delete(m.byToken, token)
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byToken, token)
	return nil
}
