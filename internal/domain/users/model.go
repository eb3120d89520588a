package users

import (
	"strings"
	"time"
)

// Role define el rol de un usuario.
// @Enum ADMIN, STAFF, OWNER
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
	RoleOwner Role = "OWNER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStaff:
		return RoleStaff, true
	case RoleOwner:
		return RoleOwner, true
	}
	return "", false
}

// User es una persona con acceso al sistema: dueños de perros, staff y admins.
type User struct {
	ID    string
	Email string

	// bcrypt, nunca se expone por la API
	PasswordHash string

	FirstName        string
	LastName         string
	MobileNumber     string
	EmergencyContact string

	Role    Role
	Enabled bool
	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
