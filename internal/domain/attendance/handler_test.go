package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doggy-daycare/internal/adapters/storage/memory"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	router   http.Handler
	bookings *bookings.Service
	bonnie   bookings.Booking
	peggy    bookings.Booking
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()

	userSvc := users.NewService(memory.NewUserRepo()).WithBcryptCost(bcrypt.MinCost)
	dogSvc := dogs.NewService(memory.NewDogRepo(), userSvc)
	bookingSvc := bookings.NewService(memory.NewBookingRepo(), dogSvc, userSvc).WithLocation(time.UTC)

	owner, err := userSvc.Create(ctx, users.CreateInput{
		Email: "anna@doggy.test", Password: "x", FirstName: "Anna", LastName: "Berg",
		MobileNumber: "0701", EmergencyContact: "0709",
	})
	require.NoError(t, err)

	age := 2
	bonnieDog, err := dogSvc.Create(ctx, dogs.CreateInput{Name: "Bonnie", Age: &age, Breed: "Labrador", UserID: owner.ID})
	require.NoError(t, err)
	peggyDog, err := dogSvc.Create(ctx, dogs.CreateInput{Name: "Peggy", Age: &age, UserID: owner.ID})
	require.NoError(t, err)

	in, out := civil.Time{Hour: 8}, civil.Time{Hour: 16}
	day := civil.Date{Year: 2024, Month: time.June, Day: 12}
	bonnie, err := bookingSvc.Create(ctx, bookings.CreateInput{DogID: bonnieDog.ID, BookedByID: owner.ID, Date: day, ExpectedCheckIn: &in, ExpectedCheckOut: &out})
	require.NoError(t, err)
	peggy, err := bookingSvc.Create(ctx, bookings.CreateInput{DogID: peggyDog.ID, BookedByID: owner.ID, Date: day.AddDays(1), ExpectedCheckIn: &in, ExpectedCheckOut: &out})
	require.NoError(t, err)

	svc := NewService(LocalSource{Bookings: bookingSvc, Users: userSvc, Dogs: dogSvc}, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	RegisterRoutes(r, svc, nil)

	return env{router: r, bookings: bookingSvc, bonnie: bonnie, peggy: peggy}
}

func (e env) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestDayEndpointDefaultsToToday(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/attendance/day")
	require.Equal(t, http.StatusOK, rec.Code)

	var v DayView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "2024-06-12", v.Date.String())
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "Bonnie", v.Entries[0].DogName)
	assert.Equal(t, "Anna Berg", v.Entries[0].OwnerName)
	assert.Equal(t, "08:00", v.Entries[0].ExpectedCheckIn)
	assert.Equal(t, "Check in", v.Entries[0].Action.Label)

	rec = e.do(t, http.MethodGet, "/attendance/day?date=12-06-2024")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeekEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/attendance/week?date=2024-06-12")
	require.Equal(t, http.StatusOK, rec.Code)

	var v WeekView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "2024-06-10", v.Start.String())
	assert.Equal(t, "2024-06-14", v.End.String())
	require.Len(t, v.Rows, 2)
	require.NotNil(t, v.Rows[0].Slots[2])
	require.NotNil(t, v.Rows[1].Slots[3])
}

func TestActEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/attendance/"+e.bonnie.ID+"/act")
	require.Equal(t, http.StatusOK, rec.Code)
	var v DayView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Entries, 1)
	assert.Equal(t, bookings.StatusCheckedIn, v.Entries[0].Status)
	assert.NotEmpty(t, v.Entries[0].ActualCheckIn)
	assert.Equal(t, 1, v.CheckedIn)

	rec = e.do(t, http.MethodPost, "/attendance/"+e.bonnie.ID+"/act")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodPost, "/attendance/"+e.bonnie.ID+"/act")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// la acción devuelve el día de la reserva, no el de hoy
	rec = e.do(t, http.MethodPost, "/attendance/"+e.peggy.ID+"/act")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "2024-06-13", v.Date.String())

	rec = e.do(t, http.MethodPost, "/attendance/missing/act")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"booking not on the board: missing"}`, rec.Body.String())
}

func TestExportEndpoint(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/attendance/week/export?date=2024-06-12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2024-W24.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Week 24"
	header, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Mon 2024-06-10", header)

	dog, _ := f.GetCellValue(sheet, "A3")
	assert.Equal(t, "Bonnie", dog)
	wed, _ := f.GetCellValue(sheet, "E3")
	assert.Equal(t, "08:00-16:00 CONFIRMED", wed)
	mon, _ := f.GetCellValue(sheet, "C3")
	assert.Equal(t, EmptySlot, mon)
}

func TestServiceUnavailableWhenSourceFails(t *testing.T) {
	src := new(mockSource)
	src.On("ListBookings", mock.Anything).Return(nil, assert.AnError)
	src.On("ListUsers", mock.Anything).Return([]users.User{}, nil)
	src.On("ListDogs", mock.Anything).Return([]dogs.Dog{}, nil)

	r := chi.NewRouter()
	RegisterRoutes(r, NewService(src, time.UTC), nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/day?date=2024-06-12", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
