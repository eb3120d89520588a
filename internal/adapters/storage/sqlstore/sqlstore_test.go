package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"doggy-daycare/internal/config"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{Driver: "sqlite3", DSN: ":memory:?_foreign_keys=on"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	// dos veces: el schema es idempotente
	require.NoError(t, db.Migrate(ctx))
	return db
}

func seed(t *testing.T, db *DB) (users.User, dogs.Dog) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	u := users.User{
		ID: "owner-1", Email: "owner@doggy.test", PasswordHash: "x",
		FirstName: "Owner", LastName: "One", MobileNumber: "0701", EmergencyContact: "0702",
		Role: users.RoleOwner, Enabled: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewUsersRepo(db).Create(ctx, u))

	d := dogs.Dog{ID: "dog-1", UserID: u.ID, Name: "Bonnie", Age: 1, Breed: "Labrador", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewDogsRepo(db).Create(ctx, d))
	return u, d
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestUsersRepo(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUsersRepo(db)
	u, _ := seed(t, db)

	got, err := repo.GetByEmail(ctx, "owner@doggy.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, users.RoleOwner, got.Role)
	assert.True(t, got.Enabled)

	dup := u
	dup.ID = "owner-2"
	assert.ErrorIs(t, repo.Create(ctx, dup), users.ErrConflict)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u.MobileNumber = "0799"
	u.Deleted = true
	require.NoError(t, repo.Update(ctx, u))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.Update(ctx, users.User{ID: "ghost"}), users.ErrNotFound)
}

func TestDogsRepo(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewDogsRepo(db)
	u, d := seed(t, db)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bonnie", got.Name)
	assert.Equal(t, "Labrador", got.Breed)

	got.Age = 2
	got.Info = "loves water"
	require.NoError(t, repo.Update(ctx, got))

	mine, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 2, mine[0].Age)
	assert.Equal(t, "loves water", mine[0].Info)

	got.Deleted = true
	require.NoError(t, repo.Update(ctx, got))
	_, err = repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, dogs.ErrNotFound)
}

func TestBookingsRepo(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewBookingsRepo(db)
	u, d := seed(t, db)

	day := civil.Date{Year: 2024, Month: time.June, Day: 12}
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	notes := "bring toy"
	b := bookings.Booking{
		ID: "b1", DogID: d.ID, DogName: d.Name, BookedByID: u.ID,
		Date: day, ExpectedCheckIn: civil.Time{Hour: 8}, ExpectedCheckOut: civil.Time{Hour: 16},
		Status: bookings.StatusConfirmed, Notes: &notes, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, day, got.Date)
	assert.Equal(t, "08:00:00", got.ExpectedCheckIn.String())
	assert.False(t, got.ActualCheckIn.Valid)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)

	dup := b
	dup.ID = "b2"
	assert.ErrorIs(t, repo.Create(ctx, dup), bookings.ErrConflict)

	require.NoError(t, got.CheckIn(civil.Time{Hour: 8, Minute: 12}))
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCheckedIn, got.Status)
	require.True(t, got.ActualCheckIn.Valid)
	assert.Equal(t, "08:12", got.ActualCheckIn.Time.Short())

	next := b
	next.ID, next.Date = "b3", day.AddDays(1)
	next.Notes = nil
	require.NoError(t, repo.Create(ctx, next))

	from, to := day, day.AddDays(4)
	list, err := repo.List(ctx, bookings.Filter{From: &from, To: &to, DogID: d.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b1", list[0].ID)
	assert.Nil(t, list[1].Notes)

	list, err = repo.List(ctx, bookings.Filter{Status: bookings.StatusConfirmed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b3", list[0].ID)

	// borrar libera el día
	next.Deleted = true
	require.NoError(t, repo.Update(ctx, next))
	again := next
	again.ID, again.Deleted = "b4", false
	require.NoError(t, repo.Create(ctx, again))

	assert.ErrorIs(t, repo.Update(ctx, bookings.Booking{ID: "ghost", Date: day}), bookings.ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
