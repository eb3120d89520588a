package bookings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/civil"
	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, authz *middleware.Authorizer) {
	read := authz.Require(capabilities.BookingsRead)
	write := authz.Require(capabilities.BookingsWrite)
	attend := authz.Require(capabilities.BookingsAttend)

	r.Route("/bookings", func(br chi.Router) {
		br.With(read).Get("/", listBookingsHandler(svc))
		br.With(write).Post("/", createBookingHandler(svc))

		br.With(read).Get("/date/{date}", listByDateHandler(svc))
		br.With(read).Get("/dog/{dogID}", listByDogHandler(svc))
		br.With(read).Get("/user/{userID}", listByUserHandler(svc))
		br.With(read).Get("/status/{status}", listByStatusHandler(svc))

		br.With(read).Get("/{bookingID}", getBookingHandler(svc))
		br.With(write).Put("/{bookingID}", updateBookingHandler(svc))
		br.With(write).Delete("/{bookingID}", deleteBookingHandler(svc))

		// Ciclo de vida
		br.With(attend).Post("/{bookingID}/check-in", transitionHandler(svc.CheckIn))
		br.With(attend).Post("/{bookingID}/check-out", transitionHandler(svc.CheckOut))
		br.With(write).Post("/{bookingID}/cancel", transitionHandler(svc.Cancel))
	})
}

type createBookingRequest struct {
	DogID                string      `json:"dogId"`
	BookedByID           string      `json:"bookedById"` // opcional si hay sesión: se usa el usuario logueado
	Date                 civil.Date  `json:"date" swaggertype:"string" example:"2024-06-12"`
	ExpectedCheckInTime  *civil.Time `json:"expectedCheckInTime" swaggertype:"string" example:"08:00:00"`
	ExpectedCheckOutTime *civil.Time `json:"expectedCheckOutTime" swaggertype:"string" example:"16:00:00"`
	Notes                *string     `json:"notes"`
}

type updateBookingRequest struct {
	Date                 *civil.Date `json:"date" swaggertype:"string"`
	ExpectedCheckInTime  *civil.Time `json:"expectedCheckInTime" swaggertype:"string"`
	ExpectedCheckOutTime *civil.Time `json:"expectedCheckOutTime" swaggertype:"string"`
	Notes                *string     `json:"notes"`
}

// BookingResponse es la reserva tal como la ve la API.
type BookingResponse struct {
	ID                   string      `json:"id"`
	DogID                string      `json:"dogId"`
	DogName              string      `json:"dogName"`
	BookedByID           string      `json:"bookedById"`
	Date                 civil.Date  `json:"date" swaggertype:"string" example:"2024-06-12"`
	ExpectedCheckInTime  civil.Time  `json:"expectedCheckInTime" swaggertype:"string" example:"08:00:00"`
	ExpectedCheckOutTime civil.Time  `json:"expectedCheckOutTime" swaggertype:"string" example:"16:00:00"`
	ActualCheckInTime    *civil.Time `json:"actualCheckInTime" swaggertype:"string"`
	ActualCheckOutTime   *civil.Time `json:"actualCheckOutTime" swaggertype:"string"`
	Status               Status      `json:"status" enums:"CONFIRMED,CHECKED_IN,CHECKED_OUT,CANCELLED,NO_SHOW"`
	Notes                *string     `json:"notes"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// listBookingsHandler godoc
// @Summary      Listar reservas
// @Description  Filtros opcionales por query: date, from, to, dogId, userId, status
// @Tags         bookings
// @Produce      json
// @Param        date   query string false "YYYY-MM-DD"
// @Param        from   query string false "YYYY-MM-DD"
// @Param        to     query string false "YYYY-MM-DD"
// @Param        dogId  query string false "Dog ID"
// @Param        userId query string false "Booked by user ID"
// @Param        status query string false "Status"
// @Success      200 {array} BookingResponse
// @Router       /bookings [get]
func listBookingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := Filter{
			DogID:      strings.TrimSpace(q.Get("dogId")),
			BookedByID: strings.TrimSpace(q.Get("userId")),
		}

		var err error
		if f.Date, err = optionalDate(q.Get("date")); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		if f.From, err = optionalDate(q.Get("from")); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		if f.To, err = optionalDate(q.Get("to")); err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		if raw := q.Get("status"); raw != "" {
			st, ok := ParseStatus(raw)
			if !ok {
				respond.Message(w, http.StatusBadRequest, "unknown status "+raw)
				return
			}
			f.Status = st
		}

		writeList(w, r, svc, f)
	}
}

// listByDateHandler godoc
// @Summary      Reservas de un día
// @Tags         bookings
// @Produce      json
// @Param        date path string true "YYYY-MM-DD"
// @Success      200 {array} BookingResponse
// @Router       /bookings/date/{date} [get]
func listByDateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := civil.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			respond.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		writeList(w, r, svc, Filter{Date: &d})
	}
}

// listByDogHandler godoc
// @Summary      Reservas de un perro
// @Tags         bookings
// @Produce      json
// @Param        dogID path string true "Dog ID"
// @Success      200 {array} BookingResponse
// @Router       /bookings/dog/{dogID} [get]
func listByDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, svc, Filter{DogID: chi.URLParam(r, "dogID")})
	}
}

// listByUserHandler godoc
// @Summary      Reservas hechas por un usuario
// @Tags         bookings
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {array} BookingResponse
// @Router       /bookings/user/{userID} [get]
func listByUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, r, svc, Filter{BookedByID: chi.URLParam(r, "userID")})
	}
}

// listByStatusHandler godoc
// @Summary      Reservas por estado
// @Tags         bookings
// @Produce      json
// @Param        status path string true "CONFIRMED|CHECKED_IN|CHECKED_OUT|CANCELLED|NO_SHOW"
// @Success      200 {array} BookingResponse
// @Failure      400 {object} respond.ErrorBody
// @Router       /bookings/status/{status} [get]
func listByStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "status")
		st, ok := ParseStatus(raw)
		if !ok {
			respond.Message(w, http.StatusBadRequest, "unknown status "+raw)
			return
		}
		writeList(w, r, svc, Filter{Status: st})
	}
}

// createBookingHandler godoc
// @Summary      Crear reserva
// @Description  Nace en estado CONFIRMED. Un perro no puede tener dos reservas el mismo día.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body body createBookingRequest true "Reserva"
// @Success      201 {object} BookingResponse
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody
// @Router       /bookings [post]
func createBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookingRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		bookedBy := strings.TrimSpace(req.BookedByID)
		if bookedBy == "" {
			if claims, ok := middleware.GetClaims(r.Context()); ok {
				bookedBy = claims.UserID
			}
		}

		b, err := svc.Create(r.Context(), CreateInput{
			DogID:            req.DogID,
			BookedByID:       bookedBy,
			Date:             req.Date,
			ExpectedCheckIn:  req.ExpectedCheckInTime,
			ExpectedCheckOut: req.ExpectedCheckOutTime,
			Notes:            req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ToResponse(b))
	}
}

// getBookingHandler godoc
// @Summary      Obtener reserva
// @Tags         bookings
// @Produce      json
// @Param        bookingID path string true "Booking ID"
// @Success      200 {object} BookingResponse
// @Failure      404 {object} respond.ErrorBody
// @Router       /bookings/{bookingID} [get]
func getBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(b))
	}
}

// updateBookingHandler godoc
// @Summary      Actualizar reserva (parcial)
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        bookingID path string true "Booking ID"
// @Param        body body updateBookingRequest true "Campos a cambiar"
// @Success      200 {object} BookingResponse
// @Failure      409 {object} respond.ErrorBody
// @Router       /bookings/{bookingID} [put]
func updateBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateBookingRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		b, err := svc.Update(r.Context(), chi.URLParam(r, "bookingID"), UpdateInput{
			Date:             req.Date,
			ExpectedCheckIn:  req.ExpectedCheckInTime,
			ExpectedCheckOut: req.ExpectedCheckOutTime,
			Notes:            req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(b))
	}
}

// deleteBookingHandler godoc
// @Summary      Borrar reserva (soft delete)
// @Tags         bookings
// @Param        bookingID path string true "Booking ID"
// @Success      204
// @Router       /bookings/{bookingID} [delete]
func deleteBookingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "bookingID")); err != nil {
			writeError(w, err)
			return
		}
		respond.NoContent(w)
	}
}

// transitionHandler godoc
// @Summary      Check-in / check-out / cancelar
// @Tags         bookings
// @Produce      json
// @Param        bookingID path string true "Booking ID"
// @Success      200 {object} BookingResponse
// @Failure      404 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody
// @Router       /bookings/{bookingID}/check-in [post]
// @Router       /bookings/{bookingID}/check-out [post]
// @Router       /bookings/{bookingID}/cancel [post]
func transitionHandler(fn func(ctx context.Context, id string) (Booking, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fn(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(b))
	}
}

func writeList(w http.ResponseWriter, r *http.Request, svc *Service, f Filter) {
	items, err := svc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, ToResponse(b))
	}
	respond.JSON(w, http.StatusOK, out)
}

func optionalDate(raw string) (*civil.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func ToResponse(b Booking) BookingResponse {
	return BookingResponse{
		ID:                   b.ID,
		DogID:                b.DogID,
		DogName:              b.DogName,
		BookedByID:           b.BookedByID,
		Date:                 b.Date,
		ExpectedCheckInTime:  b.ExpectedCheckIn,
		ExpectedCheckOutTime: b.ExpectedCheckOut,
		ActualCheckInTime:    b.ActualCheckIn.Ptr(),
		ActualCheckOutTime:   b.ActualCheckOut.Ptr(),
		Status:               b.Status,
		Notes:                b.Notes,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, dogs.ErrNotFound), errors.Is(err, users.ErrNotFound):
		respond.Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidTransition):
		respond.Message(w, http.StatusConflict, err.Error())
	default:
		respond.Message(w, http.StatusInternalServerError, "internal error")
	}
}
