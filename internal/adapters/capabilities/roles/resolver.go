package roles

import (
	"context"
	"errors"
	"sort"
	"strings"

	"doggy-daycare/internal/ports/auth"
	"doggy-daycare/internal/ports/capabilities"
)

var ErrUnknownRole = errors.New("unknown role")

// Resolver decide capabilities a partir del rol del usuario.
// El mapa es estático: ADMIN todo, STAFF opera asistencia, OWNER reserva para sus perros.
type Resolver struct {
	byRole   map[string]map[capabilities.Capability]bool
	allowAll bool
}

func NewResolver() *Resolver {
	return &Resolver{byRole: defaultMatrix()}
}

// AllowAll devuelve un resolver que autoriza todo (modo dev).
func AllowAll() *Resolver {
	return &Resolver{allowAll: true}
}

func defaultMatrix() map[string]map[capabilities.Capability]bool {
	set := func(cs ...capabilities.Capability) map[capabilities.Capability]bool {
		m := make(map[capabilities.Capability]bool, len(cs))
		for _, c := range cs {
			m[c] = true
		}
		return m
	}

	return map[string]map[capabilities.Capability]bool{
		"ADMIN": set(
			capabilities.UsersRead, capabilities.UsersWrite,
			capabilities.DogsRead, capabilities.DogsWrite,
			capabilities.BookingsRead, capabilities.BookingsWrite, capabilities.BookingsAttend,
			capabilities.AttendanceRead,
		),
		"STAFF": set(
			capabilities.UsersRead,
			capabilities.DogsRead,
			capabilities.BookingsRead, capabilities.BookingsAttend,
			capabilities.AttendanceRead,
		),
		"OWNER": set(
			capabilities.DogsRead,
			capabilities.BookingsRead, capabilities.BookingsWrite,
		),
	}
}

func (r *Resolver) Has(ctx context.Context, claims auth.Claims, c capabilities.Capability) (bool, error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, errors.New("capability required")
	}
	if r == nil {
		return false, errors.New("capabilities resolver not configured")
	}
	if r.allowAll {
		return true, nil
	}

	caps, ok := r.byRole[strings.ToUpper(strings.TrimSpace(claims.Role))]
	if !ok {
		return false, ErrUnknownRole
	}
	return caps[c], nil
}

// Resolve devuelve todas las capabilities de un rol (para /auth/me).
func (r *Resolver) Resolve(role string) []capabilities.Capability {
	if r == nil {
		return nil
	}
	if r.allowAll {
		return []capabilities.Capability{"*"}
	}
	out := make([]capabilities.Capability, 0)
	for c, ok := range r.byRole[strings.ToUpper(strings.TrimSpace(role))] {
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
