package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"doggy-daycare/internal/domain/bookings"
	"doggy-daycare/internal/platform/civil"
)

type BookingsRepo struct {
	db *DB
}

func NewBookingsRepo(db *DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

// Fechas y horas se leen como texto para que postgres y sqlite devuelvan lo mismo.
const bookingSelect = `
	SELECT
		id, dog_id, dog_name, booked_by_id,
		CAST(date AS TEXT),
		CAST(expected_check_in AS TEXT), CAST(expected_check_out AS TEXT),
		CAST(actual_check_in AS TEXT), CAST(actual_check_out AS TEXT),
		status, notes, deleted,
		created_at, updated_at
	FROM bookings`

func (r *BookingsRepo) Create(ctx context.Context, b bookings.Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (
			id, dog_id, dog_name, booked_by_id,
			date, expected_check_in, expected_check_out,
			actual_check_in, actual_check_out,
			status, notes, deleted,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		b.ID, b.DogID, b.DogName, b.BookedByID,
		b.Date.String(), b.ExpectedCheckIn.String(), b.ExpectedCheckOut.String(),
		nullTime(b.ActualCheckIn), nullTime(b.ActualCheckOut),
		string(b.Status), nullString(b.Notes), b.Deleted,
		b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", bookings.ErrConflict, b.Date)
	}
	return err
}

func (r *BookingsRepo) Update(ctx context.Context, b bookings.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET
			date = $2,
			expected_check_in = $3,
			expected_check_out = $4,
			actual_check_in = $5,
			actual_check_out = $6,
			status = $7,
			notes = $8,
			deleted = $9,
			updated_at = $10
		WHERE id = $1
	`,
		b.ID,
		b.Date.String(), b.ExpectedCheckIn.String(), b.ExpectedCheckOut.String(),
		nullTime(b.ActualCheckIn), nullTime(b.ActualCheckOut),
		string(b.Status), nullString(b.Notes), b.Deleted,
		b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", bookings.ErrConflict, b.Date)
	}
	if err != nil {
		return err
	}
	return rowsAffected(res, bookings.ErrNotFound)
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (bookings.Booking, error) {
	row := r.db.QueryRowContext(ctx, bookingSelect+` WHERE id = $1 AND deleted = FALSE`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return bookings.Booking{}, bookings.ErrNotFound
	}
	return b, err
}

func (r *BookingsRepo) List(ctx context.Context, f bookings.Filter) ([]bookings.Booking, error) {
	where, args := buildWhere(f)
	q := bookingSelect + ` WHERE ` + where + ` ORDER BY date ASC, expected_check_in ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bookings.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// buildWhere arma las condiciones del filtro con placeholders en orden ascendente.
func buildWhere(f bookings.Filter) (string, []any) {
	conds := []string{"deleted = FALSE"}
	args := make([]any, 0, 6)

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Date != nil {
		add("date = $%d", f.Date.String())
	}
	if f.From != nil {
		add("date >= $%d", f.From.String())
	}
	if f.To != nil {
		add("date <= $%d", f.To.String())
	}
	if f.DogID != "" {
		add("dog_id = $%d", f.DogID)
	}
	if f.BookedByID != "" {
		add("booked_by_id = $%d", f.BookedByID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	return strings.Join(conds, " AND "), args
}

func scanBooking(s scanner) (bookings.Booking, error) {
	var b bookings.Booking
	var status string
	var notes sql.NullString
	if err := s.Scan(
		&b.ID, &b.DogID, &b.DogName, &b.BookedByID,
		&b.Date,
		&b.ExpectedCheckIn, &b.ExpectedCheckOut,
		&b.ActualCheckIn, &b.ActualCheckOut,
		&status, &notes, &b.Deleted,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return bookings.Booking{}, err
	}
	b.Status = bookings.Status(status)
	if notes.Valid {
		n := notes.String
		b.Notes = &n
	}
	return b, nil
}

// Los parámetros de fecha/hora viajan como texto: pgx los manda en formato texto
// y postgres los castea a DATE/TIME.
func nullTime(t civil.NullTime) sql.NullString {
	if !t.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Time.String(), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
