package capabilities

import (
	"context"

	"doggy-daycare/internal/ports/auth"
)

// Capability es un permiso granular chequeado por ruta.
type Capability string

const (
	UsersRead      Capability = "users:read"
	UsersWrite     Capability = "users:write"
	DogsRead       Capability = "dogs:read"
	DogsWrite      Capability = "dogs:write"
	BookingsRead   Capability = "bookings:read"
	BookingsWrite  Capability = "bookings:write"
	BookingsAttend Capability = "bookings:attend" // check-in / check-out
	AttendanceRead Capability = "attendance:read"
)

type Resolver interface {
	Has(ctx context.Context, claims auth.Claims, c Capability) (bool, error)
}
