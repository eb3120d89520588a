package attendance

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/civil"
	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func RegisterRoutes(r chi.Router, svc *Service, authz *middleware.Authorizer) {
	read := authz.Require(capabilities.AttendanceRead)
	attend := authz.Require(capabilities.BookingsAttend)

	r.Route("/attendance", func(ar chi.Router) {
		ar.With(read).Get("/day", dayHandler(svc))
		ar.With(read).Get("/week", weekHandler(svc))
		ar.With(read).Get("/week/export", exportWeekHandler(svc))
		ar.With(attend).Post("/{bookingID}/act", actHandler(svc))
	})
}

// dayHandler godoc
// @Summary      Asistencia del día
// @Description  Reservas del día sin CANCELLED ni NO_SHOW, con dueño, perro y acción disponible
// @Tags         attendance
// @Produce      json
// @Param        date query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {object} DayView
// @Failure      400 {object} respond.ErrorBody
// @Failure      503 {object} respond.ErrorBody
// @Router       /attendance/day [get]
func dayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := cursorFrom(w, r, svc)
		if !ok {
			return
		}
		v, err := svc.Day(r.Context(), date)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, v)
	}
}

// weekHandler godoc
// @Summary      Asistencia de la semana
// @Description  Grilla lunes a viernes de la semana que contiene date, agrupada por perro
// @Tags         attendance
// @Produce      json
// @Param        date query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {object} WeekView
// @Router       /attendance/week [get]
func weekHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := cursorFrom(w, r, svc)
		if !ok {
			return
		}
		v, err := svc.Week(r.Context(), date)
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, v)
	}
}

// exportWeekHandler godoc
// @Summary      Exportar semana a Excel
// @Tags         attendance
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        date query string false "YYYY-MM-DD (default: hoy)"
// @Success      200 {file} binary
// @Router       /attendance/week/export [get]
func exportWeekHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := cursorFrom(w, r, svc)
		if !ok {
			return
		}
		v, err := svc.Week(r.Context(), date)
		if err != nil {
			writeError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := WriteWeekXLSX(&buf, v); err != nil {
			respond.Message(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFileName(v)+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// actHandler godoc
// @Summary      Ejecutar la acción de una reserva
// @Description  CONFIRMED hace check-in, CHECKED_IN hace check-out. Devuelve el día actualizado.
// @Tags         attendance
// @Produce      json
// @Param        bookingID path string true "Booking ID"
// @Success      200 {object} DayView
// @Failure      404 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody
// @Router       /attendance/{bookingID}/act [post]
func actHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Act(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, v)
	}
}

func cursorFrom(w http.ResponseWriter, r *http.Request, svc *Service) (civil.Date, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return svc.Today(), true
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return civil.Date{}, false
	}
	return d, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownBooking), errors.Is(err, bookings.ErrNotFound):
		respond.Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoAction), errors.Is(err, bookings.ErrInvalidTransition):
		respond.Message(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnavailable):
		respond.Message(w, http.StatusServiceUnavailable, err.Error())
	default:
		respond.Message(w, http.StatusInternalServerError, "internal error")
	}
}
