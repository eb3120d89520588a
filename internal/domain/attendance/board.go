package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNotLoaded      = errors.New("attendance data not loaded")
	ErrUnknownBooking = errors.New("booking not on the board")
	ErrNoAction       = errors.New("no action available for booking")
)

// Source es de dónde sale la data del board: los servicios locales o la API remota.
type Source interface {
	ListBookings(ctx context.Context) ([]bookings.Booking, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	ListDogs(ctx context.Context) ([]dogs.Dog, error)
	CheckIn(ctx context.Context, bookingID string) error
	CheckOut(ctx context.Context, bookingID string) error
}

type snapshot struct {
	bookings  []bookings.Booking
	lookups   Lookups
	fetchedAt time.Time
}

// Board mantiene el cursor de fecha y la última foto completa de la data.
// El estado de cada reserva sale siempre del servidor: después de cada acción se vuelve a leer todo.
type Board struct {
	src Source
	now func() time.Time

	mu     sync.RWMutex
	cursor civil.Date
	snap   *snapshot
}

func NewBoard(src Source, cursor civil.Date) *Board {
	return &Board{src: src, cursor: cursor, now: time.Now}
}

// Refresh trae reservas, dueños y perros en paralelo. Si cualquiera falla
// el board queda sin datos: nunca se muestra una foto parcial.
func (b *Board) Refresh(ctx context.Context) error {
	var (
		bs []bookings.Booking
		us []users.User
		ds []dogs.Dog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bs, err = b.src.ListBookings(gctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		us, err = b.src.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ds, err = b.src.ListDogs(gctx)
		if err != nil {
			return fmt.Errorf("load dogs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		b.mu.Lock()
		b.snap = nil
		b.mu.Unlock()
		return err
	}

	snap := &snapshot{
		bookings:  bs,
		lookups:   NewLookups(us, ds),
		fetchedAt: b.now(),
	}

	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
	return nil
}

func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap != nil
}

// FetchedAt es el momento del último Refresh exitoso.
func (b *Board) FetchedAt() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snap == nil {
		return time.Time{}, false
	}
	return b.snap.fetchedAt, true
}

func (b *Board) Cursor() civil.Date {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

func (b *Board) SetCursor(d civil.Date) {
	b.mu.Lock()
	b.cursor = d
	b.mu.Unlock()
}

func (b *Board) NextDay()  { b.move(NextDay) }
func (b *Board) PrevDay()  { b.move(PrevDay) }
func (b *Board) NextWeek() { b.move(NextWeek) }
func (b *Board) PrevWeek() { b.move(PrevWeek) }

func (b *Board) move(fn func(civil.Date) civil.Date) {
	b.mu.Lock()
	b.cursor = fn(b.cursor)
	b.mu.Unlock()
}

func (b *Board) Day() (DayView, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snap == nil {
		return DayView{}, ErrNotLoaded
	}
	return BuildDayView(b.cursor, b.snap.bookings, b.snap.lookups), nil
}

func (b *Board) Week() (WeekView, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snap == nil {
		return WeekView{}, ErrNotLoaded
	}
	return BuildWeekView(b.cursor, b.snap.bookings, b.snap.lookups), nil
}

// Act ejecuta la acción habilitada de la reserva (check-in o check-out),
// vuelve a cargar todo y devuelve el día de esa reserva.
func (b *Board) Act(ctx context.Context, bookingID string) (DayView, error) {
	bk, err := b.find(bookingID)
	if err != nil {
		return DayView{}, err
	}

	action, _ := ActionFor(bk.Status)
	switch {
	case action.Enabled && action.Kind == ActionCheckIn:
		err = b.src.CheckIn(ctx, bk.ID)
	case action.Enabled && action.Kind == ActionCheckOut:
		err = b.src.CheckOut(ctx, bk.ID)
	default:
		return DayView{}, fmt.Errorf("%w: %s is %s", ErrNoAction, bk.ID, bk.Status)
	}
	if err != nil {
		return DayView{}, err
	}

	if err := b.Refresh(ctx); err != nil {
		return DayView{}, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snap == nil {
		return DayView{}, ErrNotLoaded
	}
	return BuildDayView(bk.Date, b.snap.bookings, b.snap.lookups), nil
}

func (b *Board) find(bookingID string) (bookings.Booking, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.snap == nil {
		return bookings.Booking{}, ErrNotLoaded
	}
	for _, bk := range b.snap.bookings {
		if bk.ID == bookingID {
			return bk, nil
		}
	}
	return bookings.Booking{}, fmt.Errorf("%w: %s", ErrUnknownBooking, bookingID)
}
