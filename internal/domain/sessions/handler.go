package sessions

import (
	"errors"
	"net/http"
	"time"

	"doggy-daycare/internal/domain/users"
	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// CapabilityLister expone las capabilities de un rol.
type CapabilityLister interface {
	Resolve(role string) []capabilities.Capability
}

func RegisterRoutes(r chi.Router, svc *Service, caps CapabilityLister) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/me", meHandler(svc, caps))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      users.UserResponse `json:"user"`
}

type MeResponse struct {
	User         users.UserResponse        `json:"user"`
	Capabilities []capabilities.Capability `json:"capabilities"`
}

// loginHandler godoc
// @Summary      Login
// @Description  Devuelve un token opaco para usar como Authorization: Bearer <token>
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body loginRequest true "Credenciales"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} respond.ErrorBody
// @Router       /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		sess, u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		respond.JSON(w, http.StatusOK, LoginResponse{
			Token:     sess.Token,
			ExpiresAt: sess.ExpiresAt,
			User:      users.ToResponse(u),
		})
	}
}

// logoutHandler godoc
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.BearerToken(r.Header.Get("Authorization"))); err != nil {
			writeError(w, err)
			return
		}
		respond.NoContent(w)
	}
}

// meHandler godoc
// @Summary      Usuario actual
// @Tags         auth
// @Produce      json
// @Success      200 {object} MeResponse
// @Failure      401 {object} respond.ErrorBody
// @Router       /auth/me [get]
func meHandler(svc *Service, caps CapabilityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			respond.Message(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.Me(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := MeResponse{User: users.ToResponse(u), Capabilities: []capabilities.Capability{}}
		if caps != nil {
			if cs := caps.Resolve(string(u.Role)); cs != nil {
				out.Capabilities = cs
			}
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrUserDisabled):
		respond.Message(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, users.ErrInvalidInput):
		respond.Message(w, http.StatusBadRequest, err.Error())
	default:
		respond.Message(w, http.StatusInternalServerError, "internal error")
	}
}
