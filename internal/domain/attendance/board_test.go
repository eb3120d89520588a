package attendance

import (
	"context"
	"errors"
	"testing"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListBookings(ctx context.Context) ([]bookings.Booking, error) {
	args := m.Called(ctx)
	bs, _ := args.Get(0).([]bookings.Booking)
	return bs, args.Error(1)
}

func (m *mockSource) ListUsers(ctx context.Context) ([]users.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]users.User)
	return us, args.Error(1)
}

func (m *mockSource) ListDogs(ctx context.Context) ([]dogs.Dog, error) {
	args := m.Called(ctx)
	ds, _ := args.Get(0).([]dogs.Dog)
	return ds, args.Error(1)
}

func (m *mockSource) CheckIn(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSource) CheckOut(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSource) withPeople(lk Lookups) {
	us := make([]users.User, 0, len(lk.Users))
	for _, u := range lk.Users {
		us = append(us, u)
	}
	ds := make([]dogs.Dog, 0, len(lk.Dogs))
	for _, d := range lk.Dogs {
		ds = append(ds, d)
	}
	m.On("ListUsers", mock.Anything).Return(us, nil)
	m.On("ListDogs", mock.Anything).Return(ds, nil)
}

func TestBoardNotLoaded(t *testing.T) {
	b := NewBoard(new(mockSource), date(t, "2024-06-12"))

	_, err := b.Day()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = b.Week()
	assert.ErrorIs(t, err, ErrNotLoaded)
	_, err = b.Act(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, b.Loaded())
}

func TestBoardRefreshFailsClosed(t *testing.T) {
	src := new(mockSource)
	src.withPeople(testLookups())
	src.On("ListBookings", mock.Anything).
		Return([]bookings.Booking{booking(t, "b1", "dog-1", "owner-1", "2024-06-12", bookings.StatusConfirmed)}, nil).Once()
	src.On("ListBookings", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	b := NewBoard(src, date(t, "2024-06-12"))
	require.NoError(t, b.Refresh(context.Background()))
	v, err := b.Day()
	require.NoError(t, err)
	assert.Len(t, v.Entries, 1)

	err = b.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load bookings")

	// sin datos parciales ni viejos
	assert.False(t, b.Loaded())
	_, err = b.Day()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestBoardNavigation(t *testing.T) {
	src := new(mockSource)
	src.withPeople(testLookups())
	src.On("ListBookings", mock.Anything).Return([]bookings.Booking{
		booking(t, "b1", "dog-1", "owner-1", "2024-06-14", bookings.StatusConfirmed),
		booking(t, "b2", "dog-1", "owner-1", "2024-06-17", bookings.StatusConfirmed),
	}, nil)

	b := NewBoard(src, date(t, "2024-06-14"))
	require.NoError(t, b.Refresh(context.Background()))

	v, _ := b.Day()
	assert.Len(t, v.Entries, 1)

	b.NextDay()
	assert.Equal(t, "2024-06-15", b.Cursor().String())
	v, _ = b.Day()
	assert.Empty(t, v.Entries)

	b.NextWeek()
	w, _ := b.Week()
	assert.Equal(t, "2024-06-17", w.Start.String())
	require.Len(t, w.Rows, 1)
	assert.Equal(t, "b2", w.Rows[0].Slots[0].BookingID)

	b.PrevWeek()
	b.PrevDay()
	assert.Equal(t, "2024-06-14", b.Cursor().String())
}

func TestBoardActCheckInThenCheckOut(t *testing.T) {
	src := new(mockSource)
	src.withPeople(testLookups())

	confirmed := booking(t, "b1", "dog-1", "owner-1", "2024-06-12", bookings.StatusConfirmed)
	checkedIn := confirmed
	checkedIn.Status = bookings.StatusCheckedIn
	checkedOut := confirmed
	checkedOut.Status = bookings.StatusCheckedOut

	src.On("ListBookings", mock.Anything).Return([]bookings.Booking{confirmed}, nil).Once()
	src.On("ListBookings", mock.Anything).Return([]bookings.Booking{checkedIn}, nil).Once()
	src.On("ListBookings", mock.Anything).Return([]bookings.Booking{checkedOut}, nil).Once()
	src.On("CheckIn", mock.Anything, "b1").Return(nil).Once()
	src.On("CheckOut", mock.Anything, "b1").Return(nil).Once()

	ctx := context.Background()
	b := NewBoard(src, date(t, "2024-06-12"))
	require.NoError(t, b.Refresh(ctx))

	v, err := b.Act(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, bookings.StatusCheckedIn, v.Entries[0].Status)
	assert.Equal(t, "Check out", v.Entries[0].Action.Label)

	v, err = b.Act(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCheckedOut, v.Entries[0].Status)
	assert.Equal(t, "Gone home", v.Entries[0].Action.Label)
	assert.False(t, v.Entries[0].Action.Enabled)

	_, err = b.Act(ctx, "b1")
	assert.ErrorIs(t, err, ErrNoAction)

	_, err = b.Act(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownBooking)

	src.AssertExpectations(t)
}

func TestBoardActPropagatesSourceError(t *testing.T) {
	src := new(mockSource)
	src.withPeople(testLookups())
	src.On("ListBookings", mock.Anything).
		Return([]bookings.Booking{booking(t, "b1", "dog-1", "owner-1", "2024-06-12", bookings.StatusConfirmed)}, nil)
	src.On("CheckIn", mock.Anything, "b1").Return(bookings.ErrInvalidTransition)

	b := NewBoard(src, date(t, "2024-06-12"))
	require.NoError(t, b.Refresh(context.Background()))

	_, err := b.Act(context.Background(), "b1")
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
	src.AssertNumberOfCalls(t, "ListBookings", 1)
}
