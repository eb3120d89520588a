package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/events"
	"doggy-daycare/internal/platform/civil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("booking not found")
	ErrConflict     = errors.New("dog already has a booking on this date")
)

// DogDirectory resuelve perros sin acoplarse a su storage.
type DogDirectory interface {
	GetByID(ctx context.Context, id string) (dogs.Dog, error)
}

// UserDirectory resuelve quién hace la reserva.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	dogs  DogDirectory
	users UserDirectory
	bus   *events.Bus
	log   zerolog.Logger
	now   func() time.Time
	loc   *time.Location
}

func NewService(repo Repository, dogDir DogDirectory, userDir UserDirectory) *Service {
	return &Service{
		repo:  repo,
		dogs:  dogDir,
		users: userDir,
		log:   zerolog.Nop(),
		now:   time.Now,
		loc:   time.Local,
	}
}

func (s *Service) WithEvents(bus *events.Bus) *Service {
	s.bus = bus
	return s
}

func (s *Service) WithLogger(l zerolog.Logger) *Service {
	s.log = l
	return s
}

// WithLocation fija la zona horaria del local; define "hoy" y la hora de check-in.
func (s *Service) WithLocation(loc *time.Location) *Service {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Today es la fecha actual en la zona del local.
func (s *Service) Today() civil.Date {
	return civil.Today(s.now(), s.loc)
}

func (s *Service) clock() civil.Time {
	return civil.TimeOf(s.now().In(s.loc))
}

type CreateInput struct {
	DogID            string
	BookedByID       string
	Date             civil.Date
	ExpectedCheckIn  *civil.Time
	ExpectedCheckOut *civil.Time
	Notes            *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	if strings.TrimSpace(in.DogID) == "" {
		return Booking{}, fmt.Errorf("%w: dogId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.BookedByID) == "" {
		return Booking{}, fmt.Errorf("%w: bookedById is required", ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return Booking{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if in.ExpectedCheckIn == nil {
		return Booking{}, fmt.Errorf("%w: check in time is required", ErrInvalidInput)
	}
	if in.ExpectedCheckOut == nil {
		return Booking{}, fmt.Errorf("%w: check out time is required", ErrInvalidInput)
	}
	if err := validateWindow(*in.ExpectedCheckIn, *in.ExpectedCheckOut); err != nil {
		return Booking{}, err
	}

	dog, err := s.dogs.GetByID(ctx, in.DogID)
	if err != nil {
		if errors.Is(err, dogs.ErrNotFound) {
			return Booking{}, fmt.Errorf("%w: dog %s", dogs.ErrNotFound, in.DogID)
		}
		return Booking{}, err
	}
	if _, err := s.users.GetByID(ctx, in.BookedByID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Booking{}, fmt.Errorf("%w: %s", users.ErrNotFound, in.BookedByID)
		}
		return Booking{}, err
	}

	if err := s.ensureFree(ctx, dog.ID, in.Date, ""); err != nil {
		return Booking{}, err
	}

	now := s.now()
	b := Booking{
		ID:               uuid.NewString(),
		DogID:            dog.ID,
		DogName:          dog.Name,
		BookedByID:       strings.TrimSpace(in.BookedByID),
		Date:             in.Date,
		ExpectedCheckIn:  *in.ExpectedCheckIn,
		ExpectedCheckOut: *in.ExpectedCheckOut,
		Status:           StatusConfirmed,
		Notes:            trimNotes(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, err
	}
	s.publish(events.BookingCreated, b)
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Booking, error) {
	if strings.TrimSpace(id) == "" {
		return Booking{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Booking, error) {
	return s.repo.List(ctx, f)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Date             *civil.Date
	ExpectedCheckIn  *civil.Time
	ExpectedCheckOut *civil.Time
	Notes            *string
}

// Update aplica cambios parciales. Fecha y horarios sólo se pueden mover
// mientras la reserva está CONFIRMED; las notas siempre.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}

	reschedule := in.Date != nil || in.ExpectedCheckIn != nil || in.ExpectedCheckOut != nil
	if reschedule && b.Status != StatusConfirmed {
		return Booking{}, fmt.Errorf("%w: cannot reschedule a booking that is %s", ErrInvalidTransition, b.Status)
	}

	if in.Date != nil {
		if in.Date.IsZero() {
			return Booking{}, fmt.Errorf("%w: date cannot be empty", ErrInvalidInput)
		}
		if *in.Date != b.Date {
			if err := s.ensureFree(ctx, b.DogID, *in.Date, b.ID); err != nil {
				return Booking{}, err
			}
			b.Date = *in.Date
		}
	}
	if in.ExpectedCheckIn != nil {
		b.ExpectedCheckIn = *in.ExpectedCheckIn
	}
	if in.ExpectedCheckOut != nil {
		b.ExpectedCheckOut = *in.ExpectedCheckOut
	}
	if err := validateWindow(b.ExpectedCheckIn, b.ExpectedCheckOut); err != nil {
		return Booking{}, err
	}
	if in.Notes != nil {
		b.Notes = trimNotes(in.Notes)
	}

	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (s *Service) CheckIn(ctx context.Context, id string) (Booking, error) {
	return s.apply(ctx, id, events.BookingCheckedIn, func(b *Booking) error {
		return b.CheckIn(s.clock())
	})
}

func (s *Service) CheckOut(ctx context.Context, id string) (Booking, error) {
	return s.apply(ctx, id, events.BookingCheckedOut, func(b *Booking) error {
		return b.CheckOut(s.clock())
	})
}

func (s *Service) Cancel(ctx context.Context, id string) (Booking, error) {
	return s.apply(ctx, id, events.BookingCancelled, (*Booking).Cancel)
}

// Delete es soft delete; la reserva deja de aparecer en cualquier lectura.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.apply(ctx, id, events.BookingDeleted, func(b *Booking) error {
		b.Deleted = true
		return nil
	})
	return err
}

func (s *Service) apply(ctx context.Context, id, event string, fn func(*Booking) error) (Booking, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if err := fn(&b); err != nil {
		return Booking{}, err
	}
	b.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, b); err != nil {
		return Booking{}, err
	}
	s.publish(event, b)
	return b, nil
}

// MarkNoShows pasa a NO_SHOW las reservas CONFIRMED de días anteriores a today
// que nunca tuvieron check-in. Devuelve cuántas cambió.
func (s *Service) MarkNoShows(ctx context.Context, today civil.Date) (int, error) {
	yesterday := today.AddDays(-1)
	pending, err := s.repo.List(ctx, Filter{Status: StatusConfirmed, To: &yesterday})
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, b := range pending {
		if err := b.MarkNoShow(); err != nil {
			continue
		}
		b.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, b); err != nil {
			return marked, fmt.Errorf("mark no-show %s: %w", b.ID, err)
		}
		s.publish(events.BookingNoShow, b)
		marked++
	}
	return marked, nil
}

func (s *Service) ensureFree(ctx context.Context, dogID string, date civil.Date, exceptID string) error {
	existing, err := s.repo.List(ctx, Filter{DogID: dogID, Date: &date})
	if err != nil {
		return err
	}
	for _, b := range existing {
		if b.ID != exceptID {
			return fmt.Errorf("%w: %s", ErrConflict, date)
		}
	}
	return nil
}

func (s *Service) publish(eventType string, b Booking) {
	err := s.bus.PublishJSON(eventType, events.BookingPayload{
		BookingID: b.ID,
		DogID:     b.DogID,
		DogName:   b.DogName,
		BookedBy:  b.BookedByID,
		Date:      b.Date.String(),
		Status:    string(b.Status),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Str("booking_id", b.ID).Msg("publish booking event")
	}
}

func validateWindow(in, out civil.Time) error {
	if !in.Before(out) {
		return fmt.Errorf("%w: check in time must be before check out time", ErrInvalidInput)
	}
	return nil
}

func trimNotes(n *string) *string {
	if n == nil {
		return nil
	}
	v := strings.TrimSpace(*n)
	if v == "" {
		return nil
	}
	return &v
}
