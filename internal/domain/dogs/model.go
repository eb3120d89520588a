package dogs

import "time"

// Dog es un perro registrado; pertenece a exactamente un usuario (UserID).
type Dog struct {
	ID     string
	UserID string

	Name  string
	Age   int
	Breed string // opcional
	Info  string // texto libre opcional (alergias, carácter, etc.)

	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
