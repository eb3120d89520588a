package users

import "context"

// Repository persiste usuarios.
// Las lecturas ignoran usuarios borrados (soft delete) y devuelven ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
}
