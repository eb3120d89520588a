package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"doggy-daycare/internal/domain/dogs"
)

type DogsRepo struct {
	db *DB
}

func NewDogsRepo(db *DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogColumns = `id, user_id, name, age, breed, info, deleted, created_at, updated_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (`+dogColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		d.ID, d.UserID, d.Name, d.Age, d.Breed, d.Info, d.Deleted, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			age = $3,
			breed = $4,
			info = $5,
			deleted = $6,
			updated_at = $7
		WHERE id = $1
	`,
		d.ID, d.Name, d.Age, d.Breed, d.Info, d.Deleted, d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res, dogs.ErrNotFound)
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE id = $1 AND deleted = FALSE
	`, id)

	d, err := scanDog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, err
}

func (r *DogsRepo) List(ctx context.Context) ([]dogs.Dog, error) {
	return r.query(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE deleted = FALSE
		ORDER BY created_at ASC, id ASC
	`)
}

func (r *DogsRepo) ListByUser(ctx context.Context, userID string) ([]dogs.Dog, error) {
	return r.query(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE user_id = $1 AND deleted = FALSE
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (r *DogsRepo) query(ctx context.Context, q string, args ...any) ([]dogs.Dog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDog(s scanner) (dogs.Dog, error) {
	var d dogs.Dog
	err := s.Scan(&d.ID, &d.UserID, &d.Name, &d.Age, &d.Breed, &d.Info, &d.Deleted, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
