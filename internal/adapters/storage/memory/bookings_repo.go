package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"doggy-daycare/internal/domain/bookings"
)

type bookingRepo struct {
	mu   sync.RWMutex
	byID map[string]bookings.Booking
}

func NewBookingRepo() bookings.Repository {
	return &bookingRepo{
		byID: make(map[string]bookings.Booking),
	}
}

func (r *bookingRepo) Create(ctx context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("booking id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("booking already exists")
	}
	if r.takenLocked(b) {
		return bookings.ErrConflict
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookingRepo) Update(ctx context.Context, b bookings.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[b.ID]; !exists {
		return bookings.ErrNotFound
	}
	if !b.Deleted && r.takenLocked(b) {
		return bookings.ErrConflict
	}
	r.byID[b.ID] = b
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok || b.Deleted {
		return bookings.Booking{}, bookings.ErrNotFound
	}
	return b, nil
}

func (r *bookingRepo) List(ctx context.Context, f bookings.Filter) ([]bookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bookings.Booking, 0)
	for _, b := range r.byID {
		if !b.Deleted && f.Match(b) {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Date != c.Date {
			return a.Date.Before(c.Date)
		}
		if a.ExpectedCheckIn != c.ExpectedCheckIn {
			return a.ExpectedCheckIn.Before(c.ExpectedCheckIn)
		}
		return a.CreatedAt.Before(c.CreatedAt)
	})
	return out, nil
}

// takenLocked: otra reserva viva del mismo perro ese día. Requiere r.mu tomado.
func (r *bookingRepo) takenLocked(b bookings.Booking) bool {
	for id, other := range r.byID {
		if id != b.ID && !other.Deleted && other.DogID == b.DogID && other.Date == b.Date {
			return true
		}
	}
	return false
}
