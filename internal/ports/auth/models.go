package auth

import "time"

// Claims representa la identidad del request autenticado.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// Session es un login vigente identificado por su token opaco.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Claims() Claims {
	return Claims{UserID: s.UserID, Email: s.Email, Role: s.Role}
}
