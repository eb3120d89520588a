package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo Repository
	now  func() time.Time
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		cost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost cambia el costo de hashing (tests usan bcrypt.MinCost).
func (s *Service) WithBcryptCost(cost int) *Service {
	if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		s.cost = cost
	}
	return s
}

type CreateInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	MobileNumber     string
	EmergencyContact string
	Role             Role // vacío = OWNER
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	for field, v := range map[string]string{
		"firstName":        in.FirstName,
		"lastName":         in.LastName,
		"mobileNumber":     in.MobileNumber,
		"emergencyContact": in.EmergencyContact,
	} {
		if strings.TrimSpace(v) == "" {
			return User{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}

	role := RoleOwner
	if in.Role != "" {
		r, ok := ParseRole(string(in.Role))
		if !ok {
			return User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, in.Role)
		}
		role = r
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("%w: email %s is taken", ErrConflict, email)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     string(hash),
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		MobileNumber:     strings.TrimSpace(in.MobileNumber),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		Role:             role,
		Enabled:          true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListOwners devuelve los dueños de perros activos (no borrados).
func (s *Service) ListOwners(ctx context.Context) ([]User, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(all))
	for _, u := range all {
		if u.Role == RoleOwner {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	FirstName        *string
	LastName         *string
	MobileNumber     *string
	EmergencyContact *string
	Enabled          *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	apply := func(dst *string, v *string, field string) error {
		if v == nil {
			return nil
		}
		if strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s cannot be blank", ErrInvalidInput, field)
		}
		*dst = strings.TrimSpace(*v)
		return nil
	}
	if err := apply(&u.FirstName, in.FirstName, "firstName"); err != nil {
		return User{}, err
	}
	if err := apply(&u.LastName, in.LastName, "lastName"); err != nil {
		return User{}, err
	}
	if err := apply(&u.MobileNumber, in.MobileNumber, "mobileNumber"); err != nil {
		return User{}, err
	}
	if err := apply(&u.EmergencyContact, in.EmergencyContact, "emergencyContact"); err != nil {
		return User{}, err
	}
	if in.Enabled != nil {
		u.Enabled = *in.Enabled
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete es soft delete: el usuario queda deshabilitado e invisible.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.Deleted = true
	u.Enabled = false
	u.UpdatedAt = s.now()
	return s.repo.Update(ctx, u)
}

// Authenticate valida email + password de un usuario habilitado.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !u.Enabled {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, raw)
	}
	return email, nil
}
