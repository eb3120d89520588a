package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"doggy-daycare/internal/platform/civil"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Status es el estado del ciclo de vida de una reserva.
// @Enum CONFIRMED, CHECKED_IN, CHECKED_OUT, CANCELLED, NO_SHOW
type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// transitions lista los destinos válidos desde cada estado.
// CHECKED_OUT, CANCELLED y NO_SHOW son terminales.
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Booking es una visita agendada de un perro en un día.
type Booking struct {
	ID         string
	DogID      string
	DogName    string // denormalizado al crear
	BookedByID string

	Date             civil.Date
	ExpectedCheckIn  civil.Time
	ExpectedCheckOut civil.Time
	ActualCheckIn    civil.NullTime
	ActualCheckOut   civil.NullTime

	Status Status
	Notes  *string

	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Booking) transition(next Status, verb string) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot %s a booking that is %s", ErrInvalidTransition, verb, b.Status)
	}
	b.Status = next
	return nil
}

func (b *Booking) CheckIn(at civil.Time) error {
	if err := b.transition(StatusCheckedIn, "check in"); err != nil {
		return err
	}
	b.ActualCheckIn = civil.NewNullTime(at)
	return nil
}

func (b *Booking) CheckOut(at civil.Time) error {
	if err := b.transition(StatusCheckedOut, "check out"); err != nil {
		return err
	}
	b.ActualCheckOut = civil.NewNullTime(at)
	return nil
}

func (b *Booking) Cancel() error {
	return b.transition(StatusCancelled, "cancel")
}

// MarkNoShow aplica sólo a reservas confirmadas sin check-in real.
func (b *Booking) MarkNoShow() error {
	if b.ActualCheckIn.Valid {
		return fmt.Errorf("%w: booking has an actual check-in", ErrInvalidTransition)
	}
	return b.transition(StatusNoShow, "mark as no-show")
}
