package dogs

import (
	"context"

	"doggy-daycare/internal/domain/users"
)

// OwnerLookup resuelve el dueño de un perro.
// users.Service lo implementa; se usa una interfaz para poder testear sin storage.
type OwnerLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// OwnerOf expone el userID dueño de un perro.
func (s *Service) OwnerOf(ctx context.Context, dogID string) (string, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return "", err
	}
	return d.UserID, nil
}
