package bookings

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/events"
	"doggy-daycare/internal/platform/civil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu   sync.RWMutex
	byID map[string]Booking
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Booking{}}
}

func (r *testRepo) Create(ctx context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) Update(ctx context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return ErrNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok || b.Deleted {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Booking, 0)
	for _, b := range r.byID {
		if !b.Deleted && f.Match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeDogs map[string]dogs.Dog

func (f fakeDogs) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	d, ok := f[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

type fakeUsers map[string]users.User

func (f fakeUsers) GetByID(ctx context.Context, id string) (users.User, error) {
	u, ok := f[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

var (
	june12 = civil.Date{Year: 2024, Month: time.June, Day: 12}
	eight  = civil.Time{Hour: 8}
	four   = civil.Time{Hour: 16}
)

func newTestService(t *testing.T) (*Service, *testRepo) {
	t.Helper()
	repo := newTestRepo()
	svc := NewService(repo,
		fakeDogs{
			"dog-1": {ID: "dog-1", Name: "Bonnie", UserID: "owner-1"},
			"dog-2": {ID: "dog-2", Name: "Peggy", UserID: "owner-1"},
		},
		fakeUsers{"owner-1": {ID: "owner-1", FirstName: "Owner", LastName: "One"}},
	).WithLocation(time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 8, 30, 15, 0, time.UTC) }
	return svc, repo
}

func createInput(dogID string, date civil.Date) CreateInput {
	in, out := eight, four
	return CreateInput{
		DogID:            dogID,
		BookedByID:       "owner-1",
		Date:             date,
		ExpectedCheckIn:  &in,
		ExpectedCheckOut: &out,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService(t)
	notes := "  likes the ball  "
	in := createInput("dog-1", june12)
	in.Notes = &notes

	b, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Bonnie", b.DogName)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.False(t, b.ActualCheckIn.Valid)
	require.NotNil(t, b.Notes)
	assert.Equal(t, "likes the ball", *b.Notes)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := createInput("", june12)
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = createInput("dog-1", civil.Date{})
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = createInput("dog-1", june12)
	in.ExpectedCheckIn, in.ExpectedCheckOut = &four, &eight
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = createInput("dog-1", june12)
	in.ExpectedCheckOut = nil
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, createInput("dog-9", june12))
	assert.ErrorIs(t, err, dogs.ErrNotFound)

	in = createInput("dog-1", june12)
	in.BookedByID = "ghost"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestCreateBookingOnePerDogPerDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createInput("dog-1", june12))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, createInput("dog-2", june12))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, createInput("dog-1", june12.AddDays(1)))
	assert.NoError(t, err)
}

func TestDeletedBookingFreesTheDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, b.ID))

	_, err = svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, createInput("dog-1", june12))
	assert.NoError(t, err)
}

func TestCheckInAndOutStampLocalClock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)

	b, err = svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, b.Status)
	assert.Equal(t, civil.Time{Hour: 8, Minute: 30, Second: 15}, b.ActualCheckIn.Time)

	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b, err = svc.CheckOut(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, b.Status)
	assert.True(t, b.ActualCheckOut.Valid)

	_, err = svc.CheckIn(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)
	other, err := svc.Create(ctx, createInput("dog-1", june12.AddDays(1)))
	require.NoError(t, err)

	moved := june12.AddDays(2)
	nine := civil.Time{Hour: 9}
	b, err = svc.Update(ctx, b.ID, UpdateInput{Date: &moved, ExpectedCheckIn: &nine})
	require.NoError(t, err)
	assert.Equal(t, moved, b.Date)
	assert.Equal(t, nine, b.ExpectedCheckIn)
	assert.Equal(t, four, b.ExpectedCheckOut)

	taken := other.Date
	_, err = svc.Update(ctx, b.ID, UpdateInput{Date: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	late := civil.Time{Hour: 17}
	_, err = svc.Update(ctx, b.ID, UpdateInput{ExpectedCheckIn: &late})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	_, err = svc.Update(ctx, b.ID, UpdateInput{ExpectedCheckIn: &nine})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	note := "picked up by grandma"
	b, err = svc.Update(ctx, b.ID, UpdateInput{Notes: &note})
	require.NoError(t, err)
	require.NotNil(t, b.Notes)
	assert.Equal(t, note, *b.Notes)
}

func TestMarkNoShows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	past, err := svc.Create(ctx, createInput("dog-1", june12.AddDays(-1)))
	require.NoError(t, err)
	attended, err := svc.Create(ctx, createInput("dog-2", june12.AddDays(-1)))
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, attended.ID)
	require.NoError(t, err)
	today, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)

	n, err := svc.MarkNoShows(ctx, june12)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := svc.GetByID(ctx, past.ID)
	assert.Equal(t, StatusNoShow, got.Status)
	got, _ = svc.GetByID(ctx, attended.ID)
	assert.Equal(t, StatusCheckedIn, got.Status)
	got, _ = svc.GetByID(ctx, today.ID)
	assert.Equal(t, StatusConfirmed, got.Status)

	n, err = svc.MarkNoShows(ctx, june12)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestServicePublishesEvents(t *testing.T) {
	svc, _ := newTestService(t)
	bus := events.NewBus()
	svc.WithEvents(bus)

	var mu sync.Mutex
	var seen []string
	for _, typ := range events.BookingTypes {
		bus.Subscribe(typ, func(e *events.Event) error {
			p, err := events.Decode[events.BookingPayload](e)
			if err != nil {
				return err
			}
			mu.Lock()
			seen = append(seen, e.Type+":"+p.DogName)
			mu.Unlock()
			return nil
		})
	}

	ctx := context.Background()
	b, err := svc.Create(ctx, createInput("dog-1", june12))
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, b.ID)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		events.BookingCreated + ":Bonnie",
		events.BookingCheckedIn + ":Bonnie",
	}, seen)
}

func TestUntilNextMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	now := time.Date(2024, 6, 12, 23, 30, 0, 0, loc)
	assert.Equal(t, 30*time.Minute, untilNextMidnight(now, loc))

	now = time.Date(2024, 6, 12, 0, 0, 0, 0, loc)
	assert.Equal(t, 24*time.Hour, untilNextMidnight(now, loc))

	// UTC 22:00 ya es medianoche en Estocolmo (UTC+2 en verano)
	now = time.Date(2024, 6, 12, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Hour, untilNextMidnight(now, loc))
}

func TestRunNoShowJobSweepsOnStartAndStops(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	past, err := svc.Create(context.Background(), createInput("dog-1", june12.AddDays(-3)))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		svc.RunNoShowJob(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		b, err := svc.GetByID(context.Background(), past.ID)
		return err == nil && b.Status == StatusNoShow
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
}
