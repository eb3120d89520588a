package users

import (
	"errors"
	"net/http"
	"time"

	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, authz *middleware.Authorizer) {
	r.Route("/users", func(ur chi.Router) {
		ur.With(authz.Require(capabilities.UsersRead)).Get("/", listUsersHandler(svc))
		ur.With(authz.Require(capabilities.UsersWrite)).Post("/", createUserHandler(svc))
		ur.With(authz.Require(capabilities.UsersRead)).Get("/{userID}", getUserHandler(svc))
		ur.With(authz.Require(capabilities.UsersWrite)).Put("/{userID}", updateUserHandler(svc))
		ur.With(authz.Require(capabilities.UsersWrite)).Delete("/{userID}", deleteUserHandler(svc))
	})
}

type createUserRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	MobileNumber     string `json:"mobileNumber"`
	EmergencyContact string `json:"emergencyContact"`
	Role             Role   `json:"role" enums:"ADMIN,STAFF,OWNER"`
}

// updateUserRequest: punteros, nil = no tocar.
type updateUserRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	MobileNumber     *string `json:"mobileNumber"`
	EmergencyContact *string `json:"emergencyContact"`
	Enabled          *bool   `json:"enabled"`
}

// UserResponse es el usuario tal como lo ve la API (sin password).
type UserResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	FullName         string    `json:"fullName"`
	MobileNumber     string    `json:"mobileNumber"`
	EmergencyContact string    `json:"emergencyContact"`
	Role             Role      `json:"role"`
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// listUsersHandler godoc
// @Summary      Listar dueños
// @Description  Devuelve los usuarios con rol OWNER no borrados
// @Tags         users
// @Produce      json
// @Success      200 {array} UserResponse
// @Router       /users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListOwners(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]UserResponse, 0, len(items))
		for _, u := range items {
			out = append(out, ToResponse(u))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// createUserHandler godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body body createUserRequest true "Usuario"
// @Success      201 {object} UserResponse
// @Failure      400 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody
// @Router       /users [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Email:            req.Email,
			Password:         req.Password,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			MobileNumber:     req.MobileNumber,
			EmergencyContact: req.EmergencyContact,
			Role:             req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ToResponse(u))
	}
}

// getUserHandler godoc
// @Summary      Obtener usuario
// @Tags         users
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {object} UserResponse
// @Failure      404 {object} respond.ErrorBody
// @Router       /users/{userID} [get]
func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// updateUserHandler godoc
// @Summary      Actualizar usuario (parcial)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userID path string true "User ID"
// @Param        body body updateUserRequest true "Campos a cambiar"
// @Success      200 {object} UserResponse
// @Router       /users/{userID} [put]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), UpdateInput{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			MobileNumber:     req.MobileNumber,
			EmergencyContact: req.EmergencyContact,
			Enabled:          req.Enabled,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(u))
	}
}

// deleteUserHandler godoc
// @Summary      Borrar usuario (soft delete)
// @Tags         users
// @Param        userID path string true "User ID"
// @Success      204
// @Router       /users/{userID} [delete]
func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
			writeError(w, err)
			return
		}
		respond.NoContent(w)
	}
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		FullName:         u.FullName(),
		MobileNumber:     u.MobileNumber,
		EmergencyContact: u.EmergencyContact,
		Role:             u.Role,
		Enabled:          u.Enabled,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		respond.Message(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		respond.Message(w, http.StatusUnauthorized, err.Error())
	default:
		respond.Message(w, http.StatusInternalServerError, "internal error")
	}
}
