package dogs

import (
	"errors"
	"net/http"

	"doggy-daycare/internal/middleware"
	"doggy-daycare/internal/platform/respond"
	"doggy-daycare/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, authz *middleware.Authorizer) {
	read := authz.Require(capabilities.DogsRead)
	write := authz.Require(capabilities.DogsWrite)

	r.Route("/dogs", func(dr chi.Router) {
		dr.With(read).Get("/", listDogsHandler(svc))
		dr.With(write).Post("/", createDogHandler(svc))
		dr.With(read).Get("/{dogID}", getDogHandler(svc))
		dr.With(write).Put("/{dogID}", updateDogHandler(svc))
		dr.With(write).Delete("/{dogID}", deleteDogHandler(svc))
	})

	// Perros de un usuario
	r.With(read).Get("/users/{userID}/dogs", listUserDogsHandler(svc))
}

type createDogRequest struct {
	Name    string `json:"name"`
	Age     *int   `json:"age"`
	Breed   string `json:"breed"`
	DogInfo string `json:"dogInfo"`
	UserID  string `json:"userId"`
}

type updateDogRequest struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Breed   *string `json:"breed"`
	DogInfo *string `json:"dogInfo"`
}

// DogResponse es el perro tal como lo ve la API.
type DogResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Breed   string `json:"breed,omitempty"`
	DogInfo string `json:"dogInfo,omitempty"`
	UserID  string `json:"userId"`
}

// listDogsHandler godoc
// @Summary      Listar perros
// @Tags         dogs
// @Produce      json
// @Success      200 {array} DogResponse
// @Router       /dogs [get]
func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponses(items))
	}
}

// listUserDogsHandler godoc
// @Summary      Perros de un usuario
// @Tags         users
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {array} DogResponse
// @Failure      404 {object} respond.ErrorBody
// @Router       /users/{userID}/dogs [get]
func listUserDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponses(items))
	}
}

// createDogHandler godoc
// @Summary      Registrar perro
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Param        body body createDogRequest true "Perro"
// @Success      201 {object} DogResponse
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDogRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Create(r.Context(), CreateInput{
			Name:   req.Name,
			Age:    req.Age,
			Breed:  req.Breed,
			Info:   req.DogInfo,
			UserID: req.UserID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, ToResponse(d))
	}
}

// getDogHandler godoc
// @Summary      Obtener perro
// @Tags         dogs
// @Produce      json
// @Param        dogID path string true "Dog ID"
// @Success      200 {object} DogResponse
// @Failure      404 {object} respond.ErrorBody
// @Router       /dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetByID(r.Context(), chi.URLParam(r, "dogID"))
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(d))
	}
}

// updateDogHandler godoc
// @Summary      Actualizar perro (parcial)
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Param        dogID path string true "Dog ID"
// @Param        body body updateDogRequest true "Campos a cambiar"
// @Success      200 {object} DogResponse
// @Router       /dogs/{dogID} [put]
func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateDogRequest
		if err := respond.Decode(r, &req); err != nil {
			respond.Message(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Update(r.Context(), chi.URLParam(r, "dogID"), UpdateInput{
			Name:  req.Name,
			Age:   req.Age,
			Breed: req.Breed,
			Info:  req.DogInfo,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, ToResponse(d))
	}
}

// deleteDogHandler godoc
// @Summary      Borrar perro (soft delete)
// @Tags         dogs
// @Param        dogID path string true "Dog ID"
// @Success      204
// @Router       /dogs/{dogID} [delete]
func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "dogID")); err != nil {
			writeError(w, err)
			return
		}
		respond.NoContent(w)
	}
}

func ToResponse(d Dog) DogResponse {
	return DogResponse{
		ID:      d.ID,
		Name:    d.Name,
		Age:     d.Age,
		Breed:   d.Breed,
		DogInfo: d.Info,
		UserID:  d.UserID,
	}
}

func toResponses(items []Dog) []DogResponse {
	out := make([]DogResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToResponse(d))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOwnerNotFound):
		respond.Message(w, http.StatusNotFound, err.Error())
	default:
		respond.Message(w, http.StatusInternalServerError, "internal error")
	}
}
