package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doggy-daycare/internal/platform/civil"
)

var ErrUnavailable = errors.New("attendance data unavailable")

// Service arma un Board nuevo por request: cada respuesta es una foto completa y fresca.
type Service struct {
	src Source
	now func() time.Time
	loc *time.Location
}

func NewService(src Source, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{src: src, now: time.Now, loc: loc}
}

func (s *Service) Today() civil.Date {
	return civil.Today(s.now(), s.loc)
}

func (s *Service) load(ctx context.Context, cursor civil.Date) (*Board, error) {
	b := NewBoard(s.src, cursor)
	b.now = s.now
	if err := b.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return b, nil
}

func (s *Service) Day(ctx context.Context, date civil.Date) (DayView, error) {
	b, err := s.load(ctx, date)
	if err != nil {
		return DayView{}, err
	}
	return b.Day()
}

func (s *Service) Week(ctx context.Context, date civil.Date) (WeekView, error) {
	b, err := s.load(ctx, date)
	if err != nil {
		return WeekView{}, err
	}
	return b.Week()
}

// Act aplica la acción habilitada y devuelve el día de la reserva ya actualizado.
func (s *Service) Act(ctx context.Context, bookingID string) (DayView, error) {
	b, err := s.load(ctx, s.Today())
	if err != nil {
		return DayView{}, err
	}
	return b.Act(ctx, bookingID)
}
