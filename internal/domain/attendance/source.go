package attendance

import (
	"context"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
)

// LocalSource lee directo de los servicios del proceso (lo usa la API).
type LocalSource struct {
	Bookings *bookings.Service
	Users    *users.Service
	Dogs     *dogs.Service
}

func (s LocalSource) ListBookings(ctx context.Context) ([]bookings.Booking, error) {
	return s.Bookings.List(ctx, bookings.Filter{})
}

// ListUsers devuelve los dueños, igual que GET /users.
func (s LocalSource) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.Users.ListOwners(ctx)
}

func (s LocalSource) ListDogs(ctx context.Context) ([]dogs.Dog, error) {
	return s.Dogs.List(ctx)
}

func (s LocalSource) CheckIn(ctx context.Context, bookingID string) error {
	_, err := s.Bookings.CheckIn(ctx, bookingID)
	return err
}

func (s LocalSource) CheckOut(ctx context.Context, bookingID string) error {
	_, err := s.Bookings.CheckOut(ctx, bookingID)
	return err
}
