package bookings

import (
	"context"

	"doggy-daycare/internal/platform/civil"
)

// Filter restringe List. Campos vacíos no filtran.
type Filter struct {
	Date       *civil.Date
	From, To   *civil.Date // rango inclusivo
	DogID      string
	BookedByID string
	Status     Status
}

func (f Filter) Match(b Booking) bool {
	if f.Date != nil && b.Date != *f.Date {
		return false
	}
	if f.From != nil && b.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && b.Date.After(*f.To) {
		return false
	}
	if f.DogID != "" && b.DogID != f.DogID {
		return false
	}
	if f.BookedByID != "" && b.BookedByID != f.BookedByID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}

// Repository persiste reservas.
// - Las lecturas ignoran reservas borradas.
// - List ordena por fecha, hora esperada de check-in y creación.
// - Create/Update devuelven ErrConflict si ya hay otra reserva viva del mismo perro ese día.
type Repository interface {
	Create(ctx context.Context, b Booking) error
	Update(ctx context.Context, b Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)
}
