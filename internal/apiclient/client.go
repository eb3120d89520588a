// Package apiclient es el cliente tipado de la API REST del daycare (/api/v1).
package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"doggy-daycare/internal/domain/attendance"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/sessions"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"
	"doggy-daycare/internal/platform/httpclient"
)

type Client struct {
	http *httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{http: c}
}

func (c *Client) SetToken(token string) { c.http.SetToken(token) }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.http.DoJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.http.DoJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.http.DoJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, path, nil, nil)
}

func seg(s string) string { return url.PathEscape(s) }

// ---- auth

// Login abre sesión y deja el token configurado en el cliente.
func (c *Client) Login(ctx context.Context, email, password string) (sessions.LoginResponse, error) {
	var out sessions.LoginResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", in, &out); err != nil {
		return sessions.LoginResponse{}, err
	}
	c.http.SetToken(out.Token)
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.http.SetToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (sessions.MeResponse, error) {
	var out sessions.MeResponse
	err := c.get(ctx, "/auth/me", &out)
	return out, err
}

// ---- users

type CreateUserRequest struct {
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	MobileNumber     string     `json:"mobileNumber"`
	EmergencyContact string     `json:"emergencyContact"`
	Role             users.Role `json:"role,omitempty"`
}

type UpdateUserRequest struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	MobileNumber     *string `json:"mobileNumber,omitempty"`
	EmergencyContact *string `json:"emergencyContact,omitempty"`
	Enabled          *bool   `json:"enabled,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]users.UserResponse, error) {
	var out []users.UserResponse
	err := c.get(ctx, "/users", &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id string) (users.UserResponse, error) {
	var out users.UserResponse
	err := c.get(ctx, "/users/"+seg(id), &out)
	return out, err
}

func (c *Client) ListUserDogs(ctx context.Context, userID string) ([]dogs.DogResponse, error) {
	var out []dogs.DogResponse
	err := c.get(ctx, "/users/"+seg(userID)+"/dogs", &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserRequest) (users.UserResponse, error) {
	var out users.UserResponse
	err := c.post(ctx, "/users", in, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UpdateUserRequest) (users.UserResponse, error) {
	var out users.UserResponse
	err := c.put(ctx, "/users/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/"+seg(id))
}

// ---- dogs

type CreateDogRequest struct {
	Name    string `json:"name"`
	Age     *int   `json:"age"`
	Breed   string `json:"breed,omitempty"`
	DogInfo string `json:"dogInfo,omitempty"`
	UserID  string `json:"userId"`
}

type UpdateDogRequest struct {
	Name    *string `json:"name,omitempty"`
	Age     *int    `json:"age,omitempty"`
	Breed   *string `json:"breed,omitempty"`
	DogInfo *string `json:"dogInfo,omitempty"`
}

func (c *Client) ListDogs(ctx context.Context) ([]dogs.DogResponse, error) {
	var out []dogs.DogResponse
	err := c.get(ctx, "/dogs", &out)
	return out, err
}

func (c *Client) GetDog(ctx context.Context, id string) (dogs.DogResponse, error) {
	var out dogs.DogResponse
	err := c.get(ctx, "/dogs/"+seg(id), &out)
	return out, err
}

func (c *Client) CreateDog(ctx context.Context, in CreateDogRequest) (dogs.DogResponse, error) {
	var out dogs.DogResponse
	err := c.post(ctx, "/dogs", in, &out)
	return out, err
}

func (c *Client) UpdateDog(ctx context.Context, id string, in UpdateDogRequest) (dogs.DogResponse, error) {
	var out dogs.DogResponse
	err := c.put(ctx, "/dogs/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteDog(ctx context.Context, id string) error {
	return c.delete(ctx, "/dogs/"+seg(id))
}

// ---- bookings

type CreateBookingRequest struct {
	DogID                string     `json:"dogId"`
	BookedByID           string     `json:"bookedById,omitempty"`
	Date                 civil.Date `json:"date"`
	ExpectedCheckInTime  civil.Time `json:"expectedCheckInTime"`
	ExpectedCheckOutTime civil.Time `json:"expectedCheckOutTime"`
	Notes                *string    `json:"notes,omitempty"`
}

type UpdateBookingRequest struct {
	Date                 *civil.Date `json:"date,omitempty"`
	ExpectedCheckInTime  *civil.Time `json:"expectedCheckInTime,omitempty"`
	ExpectedCheckOutTime *civil.Time `json:"expectedCheckOutTime,omitempty"`
	Notes                *string     `json:"notes,omitempty"`
}

// BookingQuery son los filtros opcionales de GET /bookings.
type BookingQuery struct {
	Date     *civil.Date
	From, To *civil.Date
	DogID    string
	UserID   string
	Status   bookings.Status
}

func (q BookingQuery) encode() string {
	v := url.Values{}
	if q.Date != nil {
		v.Set("date", q.Date.String())
	}
	if q.From != nil {
		v.Set("from", q.From.String())
	}
	if q.To != nil {
		v.Set("to", q.To.String())
	}
	if q.DogID != "" {
		v.Set("dogId", q.DogID)
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListBookings(ctx context.Context, q BookingQuery) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	err := c.get(ctx, "/bookings"+q.encode(), &out)
	return out, err
}

func (c *Client) GetBooking(ctx context.Context, id string) (bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	err := c.get(ctx, "/bookings/"+seg(id), &out)
	return out, err
}

func (c *Client) ListBookingsByDate(ctx context.Context, d civil.Date) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	err := c.get(ctx, "/bookings/date/"+d.String(), &out)
	return out, err
}

func (c *Client) ListBookingsByDog(ctx context.Context, dogID string) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	err := c.get(ctx, "/bookings/dog/"+seg(dogID), &out)
	return out, err
}

func (c *Client) ListBookingsByUser(ctx context.Context, userID string) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	err := c.get(ctx, "/bookings/user/"+seg(userID), &out)
	return out, err
}

func (c *Client) ListBookingsByStatus(ctx context.Context, st bookings.Status) ([]bookings.BookingResponse, error) {
	var out []bookings.BookingResponse
	err := c.get(ctx, "/bookings/status/"+seg(string(st)), &out)
	return out, err
}

func (c *Client) CreateBooking(ctx context.Context, in CreateBookingRequest) (bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	err := c.post(ctx, "/bookings", in, &out)
	return out, err
}

func (c *Client) UpdateBooking(ctx context.Context, id string, in UpdateBookingRequest) (bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	err := c.put(ctx, "/bookings/"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.delete(ctx, "/bookings/"+seg(id))
}

func (c *Client) CheckIn(ctx context.Context, id string) (bookings.BookingResponse, error) {
	return c.transition(ctx, id, "check-in")
}

func (c *Client) CheckOut(ctx context.Context, id string) (bookings.BookingResponse, error) {
	return c.transition(ctx, id, "check-out")
}

func (c *Client) Cancel(ctx context.Context, id string) (bookings.BookingResponse, error) {
	return c.transition(ctx, id, "cancel")
}

func (c *Client) transition(ctx context.Context, id, verb string) (bookings.BookingResponse, error) {
	var out bookings.BookingResponse
	err := c.post(ctx, "/bookings/"+seg(id)+"/"+verb, nil, &out)
	return out, err
}

// ---- attendance

func (c *Client) AttendanceDay(ctx context.Context, d civil.Date) (attendance.DayView, error) {
	var out attendance.DayView
	err := c.get(ctx, "/attendance/day?date="+d.String(), &out)
	return out, err
}

func (c *Client) AttendanceWeek(ctx context.Context, d civil.Date) (attendance.WeekView, error) {
	var out attendance.WeekView
	err := c.get(ctx, "/attendance/week?date="+d.String(), &out)
	return out, err
}

func (c *Client) AttendanceAct(ctx context.Context, bookingID string) (attendance.DayView, error) {
	var out attendance.DayView
	err := c.post(ctx, "/attendance/"+seg(bookingID)+"/act", nil, &out)
	return out, err
}

// ExportWeek descarga la planilla xlsx de la semana que contiene d.
func (c *Client) ExportWeek(ctx context.Context, d civil.Date, w io.Writer) error {
	return c.http.Download(ctx, "/attendance/week/export?date="+d.String(), w)
}
