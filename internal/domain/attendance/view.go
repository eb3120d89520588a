// Package attendance arma la vista de asistencia del staff a partir de
// reservas, dueños y perros: el listado de un día y la grilla lunes-viernes.
package attendance

import (
	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/domain/dogs"
	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/platform/civil"
)

const (
	UnknownDog   = "Unknown"
	UnknownOwner = "N/A"
	EmptySlot    = "—"

	// WeekDays: lunes a viernes, el local cierra el fin de semana.
	WeekDays = 5
)

// Lookups indexa dueños y perros por id. Se arma de cero en cada fetch;
// si un id se repite gana el último.
type Lookups struct {
	Users map[string]users.User
	Dogs  map[string]dogs.Dog
}

func NewLookups(us []users.User, ds []dogs.Dog) Lookups {
	lk := Lookups{
		Users: make(map[string]users.User, len(us)),
		Dogs:  make(map[string]dogs.Dog, len(ds)),
	}
	for _, u := range us {
		lk.Users[u.ID] = u
	}
	for _, d := range ds {
		lk.Dogs[d.ID] = d
	}
	return lk
}

// ActionKind es la operación que dispara el botón de una fila.
type ActionKind string

const (
	ActionCheckIn  ActionKind = "CHECK_IN"
	ActionCheckOut ActionKind = "CHECK_OUT"
	ActionNone     ActionKind = "NONE"
)

type Action struct {
	Kind    ActionKind `json:"kind"`
	Label   string     `json:"label"`
	Enabled bool       `json:"enabled"`
}

// ActionFor mapea el estado a la acción visible. ok=false para estados
// que no se muestran en el día (CANCELLED, NO_SHOW).
func ActionFor(st bookings.Status) (Action, bool) {
	switch st {
	case bookings.StatusConfirmed:
		return Action{Kind: ActionCheckIn, Label: "Check in", Enabled: true}, true
	case bookings.StatusCheckedIn:
		return Action{Kind: ActionCheckOut, Label: "Check out", Enabled: true}, true
	case bookings.StatusCheckedOut:
		return Action{Kind: ActionNone, Label: "Gone home", Enabled: false}, true
	}
	return Action{}, false
}

type DayEntry struct {
	BookingID string          `json:"bookingId"`
	Status    bookings.Status `json:"status"`

	DogID    string `json:"dogId"`
	DogName  string `json:"dogName"`
	DogBreed string `json:"dogBreed"`
	DogInfo  string `json:"dogInfo"`

	OwnerID          string `json:"ownerId"`
	OwnerName        string `json:"ownerName"`
	OwnerMobile      string `json:"ownerMobile"`
	EmergencyContact string `json:"emergencyContact"`

	// HH:MM
	ExpectedCheckIn  string `json:"expectedCheckIn"`
	ExpectedCheckOut string `json:"expectedCheckOut"`
	ActualCheckIn    string `json:"actualCheckIn,omitempty"`
	ActualCheckOut   string `json:"actualCheckOut,omitempty"`

	Notes  string `json:"notes,omitempty"`
	Action Action `json:"action"`
}

type DayView struct {
	Date      civil.Date `json:"date" swaggertype:"string" example:"2024-06-12"`
	Entries   []DayEntry `json:"entries"`
	Total     int        `json:"total"`
	CheckedIn int        `json:"checkedIn"`
}

// BuildDayView lista las reservas de date que siguen vigentes para el staff,
// en el mismo orden en que llegaron.
func BuildDayView(date civil.Date, all []bookings.Booking, lk Lookups) DayView {
	view := DayView{Date: date, Entries: make([]DayEntry, 0)}

	for _, b := range all {
		if b.Date != date {
			continue
		}
		action, visible := ActionFor(b.Status)
		if !visible {
			continue
		}

		e := DayEntry{
			BookingID:        b.ID,
			Status:           b.Status,
			DogID:            b.DogID,
			ExpectedCheckIn:  b.ExpectedCheckIn.Short(),
			ExpectedCheckOut: b.ExpectedCheckOut.Short(),
			Action:           action,
		}
		if b.ActualCheckIn.Valid {
			e.ActualCheckIn = b.ActualCheckIn.Time.Short()
		}
		if b.ActualCheckOut.Valid {
			e.ActualCheckOut = b.ActualCheckOut.Time.Short()
		}
		if b.Notes != nil {
			e.Notes = *b.Notes
		}

		e.DogName = dogName(b, lk)
		if d, ok := lk.Dogs[b.DogID]; ok {
			e.DogBreed = d.Breed
			e.DogInfo = d.Info
		}

		e.OwnerID = b.BookedByID
		if u, ok := lk.Users[b.BookedByID]; ok {
			e.OwnerName = u.FullName()
			e.OwnerMobile = u.MobileNumber
			e.EmergencyContact = u.EmergencyContact
		} else {
			e.OwnerName = UnknownOwner
			e.OwnerMobile = UnknownOwner
			e.EmergencyContact = UnknownOwner
		}

		if b.Status == bookings.StatusCheckedIn {
			view.CheckedIn++
		}
		view.Entries = append(view.Entries, e)
	}

	view.Total = len(view.Entries)
	return view
}

// WeekSlot es la reserva de un perro en un día de la grilla.
type WeekSlot struct {
	BookingID        string          `json:"bookingId"`
	Status           bookings.Status `json:"status"`
	ExpectedCheckIn  string          `json:"expectedCheckIn"`
	ExpectedCheckOut string          `json:"expectedCheckOut"`
}

func (s *WeekSlot) String() string {
	if s == nil {
		return EmptySlot
	}
	return s.ExpectedCheckIn + "-" + s.ExpectedCheckOut + " " + string(s.Status)
}

type WeekRow struct {
	DogID     string `json:"dogId"`
	DogName   string `json:"dogName"`
	OwnerName string `json:"ownerName"`
	// Slots[i] corresponde a Days[i]; nil = sin reserva.
	Slots []*WeekSlot `json:"slots"`
}

type WeekView struct {
	Year  int          `json:"year"`
	Week  int          `json:"week"`
	Start civil.Date   `json:"start" swaggertype:"string" example:"2024-06-10"`
	End   civil.Date   `json:"end" swaggertype:"string" example:"2024-06-14"`
	Days  []civil.Date `json:"days" swaggertype:"array,string"`
	Rows  []WeekRow    `json:"rows"`
}

// WeekOf devuelve lunes y viernes de la semana de d.
func WeekOf(d civil.Date) (start, end civil.Date) {
	start = d.StartOfWeek()
	return start, start.AddDays(WeekDays - 1)
}

// BuildWeekView agrupa por perro las reservas no canceladas de lunes a viernes.
// Las filas siguen el orden de la primera aparición de cada perro.
func BuildWeekView(cursor civil.Date, all []bookings.Booking, lk Lookups) WeekView {
	start, end := WeekOf(cursor)
	year, week := start.ISOWeek()

	view := WeekView{
		Year:  year,
		Week:  week,
		Start: start,
		End:   end,
		Days:  make([]civil.Date, WeekDays),
		Rows:  make([]WeekRow, 0),
	}
	for i := range view.Days {
		view.Days[i] = start.AddDays(i)
	}

	rowOf := make(map[string]int)
	for _, b := range all {
		if b.Status == bookings.StatusCancelled {
			continue
		}
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}

		idx, ok := rowOf[b.DogID]
		if !ok {
			idx = len(view.Rows)
			rowOf[b.DogID] = idx
			row := WeekRow{
				DogID:     b.DogID,
				DogName:   dogName(b, lk),
				OwnerName: UnknownOwner,
				Slots:     make([]*WeekSlot, WeekDays),
			}
			if u, ok := lk.Users[b.BookedByID]; ok {
				row.OwnerName = u.FullName()
			}
			view.Rows = append(view.Rows, row)
		}

		day := int(b.Date.Time().Sub(start.Time()).Hours() / 24)
		view.Rows[idx].Slots[day] = &WeekSlot{
			BookingID:        b.ID,
			Status:           b.Status,
			ExpectedCheckIn:  b.ExpectedCheckIn.Short(),
			ExpectedCheckOut: b.ExpectedCheckOut.Short(),
		}
	}

	return view
}

func dogName(b bookings.Booking, lk Lookups) string {
	if d, ok := lk.Dogs[b.DogID]; ok && d.Name != "" {
		return d.Name
	}
	if b.DogName != "" {
		return b.DogName
	}
	return UnknownDog
}

func NextDay(d civil.Date) civil.Date  { return d.AddDays(1) }
func PrevDay(d civil.Date) civil.Date  { return d.AddDays(-1) }
func NextWeek(d civil.Date) civil.Date { return d.AddDays(7) }
func PrevWeek(d civil.Date) civil.Date { return d.AddDays(-7) }
