package dogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"doggy-daycare/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("dog not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

type Service struct {
	repo   Repository
	owners OwnerLookup
	now    func() time.Time
}

func NewService(repo Repository, owners OwnerLookup) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name   string
	Age    *int
	Breed  string
	Info   string
	UserID string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Dog, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Dog{}, fmt.Errorf("%w: dog name is required", ErrInvalidInput)
	}
	if in.Age == nil {
		return Dog{}, fmt.Errorf("%w: age is required", ErrInvalidInput)
	}
	if *in.Age < 0 {
		return Dog{}, fmt.Errorf("%w: age must be 0 or greater", ErrInvalidInput)
	}
	if strings.TrimSpace(in.UserID) == "" {
		return Dog{}, fmt.Errorf("%w: owner (userId) is required", ErrInvalidInput)
	}
	if err := s.ensureOwner(ctx, in.UserID); err != nil {
		return Dog{}, err
	}

	now := s.now()
	d := Dog{
		ID:        uuid.NewString(),
		UserID:    strings.TrimSpace(in.UserID),
		Name:      strings.TrimSpace(in.Name),
		Age:       *in.Age,
		Breed:     strings.TrimSpace(in.Breed),
		Info:      strings.TrimSpace(in.Info),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	if strings.TrimSpace(id) == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Dog, error) {
	return s.repo.List(ctx)
}

// ListByOwner devuelve los perros de un usuario existente.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]Dog, error) {
	if err := s.ensureOwner(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name  *string
	Age   *int
	Breed *string
	Info  *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Dog, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Dog{}, fmt.Errorf("%w: dog name cannot be blank", ErrInvalidInput)
		}
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Dog{}, fmt.Errorf("%w: age must be 0 or greater", ErrInvalidInput)
		}
		d.Age = *in.Age
	}
	if in.Breed != nil {
		d.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Info != nil {
		d.Info = strings.TrimSpace(*in.Info)
	}

	d.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

// Delete es soft delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Deleted = true
	d.UpdatedAt = s.now()
	return s.repo.Update(ctx, d)
}

func (s *Service) ensureOwner(ctx context.Context, userID string) error {
	if s.owners == nil {
		return nil
	}
	if _, err := s.owners.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrOwnerNotFound, userID)
		}
		return err
	}
	return nil
}
