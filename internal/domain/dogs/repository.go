package dogs

import "context"

// Repository persiste perros. Las lecturas ignoran perros borrados.
type Repository interface {
	Create(ctx context.Context, d Dog) error
	Update(ctx context.Context, d Dog) error
	GetByID(ctx context.Context, id string) (Dog, error)
	List(ctx context.Context) ([]Dog, error)
	ListByUser(ctx context.Context, userID string) ([]Dog, error)
}
