package apiclient

import (
	"context"

	"doggy-daycare/internal/domain/attendance"
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
)

// Source adapta el cliente a attendance.Source para armar el board del lado del cliente.
type Source struct {
	Client *Client
}

var _ attendance.Source = Source{}

func (s Source) ListBookings(ctx context.Context) ([]bookings.Booking, error) {
	items, err := s.Client.ListBookings(ctx, BookingQuery{})
	if err != nil {
		return nil, err
	}
	out := make([]bookings.Booking, 0, len(items))
	for _, b := range items {
		out = append(out, bookingFromResponse(b))
	}
	return out, nil
}

func (s Source) ListUsers(ctx context.Context) ([]users.User, error) {
	items, err := s.Client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]users.User, 0, len(items))
	for _, u := range items {
		out = append(out, users.User{
			ID:               u.ID,
			Email:            u.Email,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			MobileNumber:     u.MobileNumber,
			EmergencyContact: u.EmergencyContact,
			Role:             u.Role,
			Enabled:          u.Enabled,
			CreatedAt:        u.CreatedAt,
			UpdatedAt:        u.UpdatedAt,
		})
	}
	return out, nil
}

func (s Source) ListDogs(ctx context.Context) ([]dogs.Dog, error) {
	items, err := s.Client.ListDogs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dogs.Dog, 0, len(items))
	for _, d := range items {
		out = append(out, dogs.Dog{
			ID:     d.ID,
			UserID: d.UserID,
			Name:   d.Name,
			Age:    d.Age,
			Breed:  d.Breed,
			Info:   d.DogInfo,
		})
	}
	return out, nil
}

func (s Source) CheckIn(ctx context.Context, bookingID string) error {
	_, err := s.Client.CheckIn(ctx, bookingID)
	return err
}

func (s Source) CheckOut(ctx context.Context, bookingID string) error {
	_, err := s.Client.CheckOut(ctx, bookingID)
	return err
}

func bookingFromResponse(r bookings.BookingResponse) bookings.Booking {
	b := bookings.Booking{
		ID:               r.ID,
		DogID:            r.DogID,
		DogName:          r.DogName,
		BookedByID:       r.BookedByID,
		Date:             r.Date,
		ExpectedCheckIn:  r.ExpectedCheckInTime,
		ExpectedCheckOut: r.ExpectedCheckOutTime,
		Status:           r.Status,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.ActualCheckInTime != nil {
		b.ActualCheckIn.Time, b.ActualCheckIn.Valid = *r.ActualCheckInTime, true
	}
	if r.ActualCheckOutTime != nil {
		b.ActualCheckOut.Time, b.ActualCheckOut.Valid = *r.ActualCheckOutTime, true
	}
	return b
}
