package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"doggy-daycare/internal/config"
	"doggy-daycare/internal/devdata"
	"doggy-daycare/internal/domain/attendance"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/platform/civil"
	"doggy-daycare/internal/router"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.Enabled = true
	cfg.Auth.BcryptCost = bcrypt.MinCost

	app := router.Build(router.Options{Config: cfg, Logger: zerolog.Nop()})
	_, _, err := devdata.Seeder{
		Users:       app.Users,
		Dogs:        app.Dogs,
		Bookings:    app.Bookings,
		BookingRepo: app.BookingRepo,
		Log:         zerolog.Nop(),
	}.Seed(context.Background())
	require.NoError(t, err)

	ts := httptest.NewServer(app.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func staffArgs(ts *httptest.Server, extra ...string) []string {
	return append([]string{
		"-base-url", ts.URL + "/api/v1",
		"-email", "staff@doggydaycare.com",
		"-password", "staff123",
	}, extra...)
}

func TestRunPrintsToday(t *testing.T) {
	ts := newAPI(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), staffArgs(ts), &out, zerolog.Nop()))

	s := out.String()
	assert.Contains(t, s, "(0/1 checked in)")
	assert.Contains(t, s, "Bonnie")
	assert.Contains(t, s, "Dog Owner")
	assert.Contains(t, s, "08:00-16:00")
	assert.Contains(t, s, "Check in")
	assert.NotContains(t, s, "Peggy")
}

func TestRunActChecksIn(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, staffArgs(ts), &out, zerolog.Nop()))
	id := lastField(t, out.String(), "Bonnie")

	out.Reset()
	require.NoError(t, run(ctx, staffArgs(ts, "-act", id), &out, zerolog.Nop()))
	assert.Contains(t, out.String(), "(1/1 checked in)")
	assert.Contains(t, out.String(), string(bookings.StatusCheckedIn))
	assert.Contains(t, out.String(), "Check out")
}

func TestRunWeekAndExport(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, staffArgs(ts, "-week"), &out, zerolog.Nop()))
	// el contenido depende del día de la semana en que corre el test
	assert.True(t, strings.HasPrefix(out.String(), "Week "))

	path := filepath.Join(t.TempDir(), "week.xlsx")
	require.NoError(t, run(ctx, staffArgs(ts, "-export", path), &out, zerolog.Nop()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 1)
}

func TestRunRejectsBadCredentialsAndDate(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()

	err := run(ctx, []string{"-base-url", ts.URL + "/api/v1", "-email", "staff@doggydaycare.com", "-password", "nope"}, &bytes.Buffer{}, zerolog.Nop())
	assert.Error(t, err)

	err = run(ctx, staffArgs(ts, "-date", "12/06/2024"), &bytes.Buffer{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunNavigatesDays(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, staffArgs(ts, "-prev", "1"), &out, zerolog.Nop()))
	assert.Contains(t, out.String(), civil.Today(time.Now(), nil).AddDays(-1).String())
	assert.Contains(t, out.String(), "Peggy")
	assert.NotContains(t, out.String(), "Bonnie")

	out.Reset()
	require.NoError(t, run(ctx, staffArgs(ts, "-prev", "1", "-next", "1"), &out, zerolog.Nop()))
	assert.Contains(t, out.String(), "Bonnie")

	err := run(ctx, staffArgs(ts, "-next", "-2"), &bytes.Buffer{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestNavigateByWeek(t *testing.T) {
	day := civil.Date{Year: 2024, Month: time.June, Day: 12}

	b := attendance.NewBoard(nil, day)
	navigate(b, options{week: true, next: 2, prev: 1})
	assert.Equal(t, day.AddDays(7), b.Cursor())

	b = attendance.NewBoard(nil, day)
	navigate(b, options{prev: 3})
	assert.Equal(t, day.AddDays(-3), b.Cursor())
}

func TestPrintWeekEmptySlots(t *testing.T) {
	day := civil.Date{Year: 2024, Month: time.June, Day: 12}
	b := bookings.Booking{
		ID: "b1", DogID: "d1", DogName: "Bonnie", BookedByID: "u1", Date: day,
		ExpectedCheckIn: civil.Time{Hour: 8}, ExpectedCheckOut: civil.Time{Hour: 16},
		Status: bookings.StatusConfirmed,
	}
	v := attendance.BuildWeekView(day, []bookings.Booking{b}, attendance.NewLookups(nil, nil))

	var out bytes.Buffer
	require.NoError(t, printWeek(&out, v))

	s := out.String()
	assert.Contains(t, s, "Week 24/2024")
	assert.Contains(t, s, "Wed 2024-06-12")
	assert.Contains(t, s, "08:00-16:00 CONFIRMED")
	assert.Equal(t, 4, strings.Count(strings.Split(s, "\n")[3], attendance.EmptySlot))
}

func lastField(t *testing.T, table, rowContains string) string {
	t.Helper()
	for _, line := range strings.Split(table, "\n") {
		if strings.Contains(line, rowContains) {
			fields := strings.Fields(line)
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("row %q not found in:\n%s", rowContains, table)
	return ""
}
