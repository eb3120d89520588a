// Package civil modela fechas de calendario y horas del día sin zona horaria.
// Las reservas usan ambos tipos: una visita ocurre en un día, no en un instante.
package civil

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	ShortTimeLayout = "15:04"
)

// Date es una fecha de calendario (YYYY-MM-DD).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("civil: invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf toma la fecha de t en su propia location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today devuelve la fecha actual en la location indicada (nil = local).
func Today(now time.Time, loc *time.Location) Date {
	if loc != nil {
		now = now.In(loc)
	}
	return DateOf(now)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time devuelve la medianoche UTC de la fecha.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) ISOWeek() (year, week int) {
	return d.Time().ISOWeek()
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool  { return d.Time().After(o.Time()) }

// StartOfWeek devuelve el lunes en o antes de d.
func (d Date) StartOfWeek() Date {
	// time.Weekday arranca en domingo=0
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value guarda la fecha como texto ISO; postgres lo castea a DATE y sqlite lo guarda tal cual.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v.UTC())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("civil: cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// sqlite puede devolver "2024-06-12T00:00:00Z" si la columna fue tipada como fecha
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time es una hora del día con precisión de segundos (HH:MM:SS).
type Time struct {
	Hour   int
	Minute int
	Second int
}

// ParseTime acepta HH:MM:SS o HH:MM.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	layout := TimeLayout
	if len(s) == len(ShortTimeLayout) {
		layout = ShortTimeLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Time{}, fmt.Errorf("civil: invalid time %q, expected HH:MM or HH:MM:SS", s)
	}
	return TimeOf(t), nil
}

func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Short descarta los segundos (HH:MM).
func (t Time) Short() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t Time) Before(o Time) bool {
	return t.seconds() < o.seconds()
}

func (t Time) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOf(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("civil: cannot scan %T into Time", src)
	}
}

func (t *Time) scanString(s string) error {
	// postgres TIME::text puede traer fracciones ("08:00:00.123")
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NullTime es una hora opcional (check-in/out real).
type NullTime struct {
	Time  Time
	Valid bool
}

func NewNullTime(t Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// Ptr devuelve nil si no hay valor; útil para respuestas JSON.
func (n NullTime) Ptr() *Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func (n NullTime) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time.String(), nil
}

func (n *NullTime) Scan(src any) error {
	if src == nil {
		*n = NullTime{}
		return nil
	}
	if err := n.Time.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
