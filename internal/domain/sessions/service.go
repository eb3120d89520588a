package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/ports/auth"

	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUserDisabled    = errors.New("user disabled")
)

// Authenticator valida credenciales y resuelve usuarios vigentes.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (users.User, error)
	GetByID(ctx context.Context, id string) (users.User, error)
}

// Service emite tokens opacos y los valida contra el SessionStore.
// Implementa auth.AuthVerifier.
type Service struct {
	users Authenticator
	store auth.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

func NewService(u Authenticator, store auth.SessionStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{users: u, store: store, ttl: ttl, now: time.Now}
}

// Login valida email/password y abre una sesión nueva.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Session, users.User, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return auth.Session{}, users.User{}, err
	}

	sess := auth.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess, s.ttl); err != nil {
		return auth.Session{}, users.User{}, fmt.Errorf("save session: %w", err)
	}
	return sess, u, nil
}

// Logout invalida el token. Un token desconocido no es error.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}

// Me devuelve el usuario actual de la sesión.
func (s *Service) Me(ctx context.Context, userID string) (users.User, error) {
	if strings.TrimSpace(userID) == "" {
		return users.User{}, ErrUnauthenticated
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return users.User{}, ErrUnauthenticated
		}
		return users.User{}, err
	}
	return u, nil
}

// Verify resuelve un token a claims. El usuario tiene que seguir existiendo y habilitado;
// el rol se toma del usuario y no de la sesión, así un cambio de rol aplica enseguida.
func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthenticated
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return auth.Claims{}, ErrUnauthenticated
		}
		return auth.Claims{}, err
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			_ = s.store.Delete(ctx, token)
			return auth.Claims{}, ErrUnauthenticated
		}
		return auth.Claims{}, err
	}
	if !u.Enabled {
		return auth.Claims{}, ErrUserDisabled
	}

	return auth.Claims{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
}
