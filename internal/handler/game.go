package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/service"
	"gamevault-api/pkg/apierror"
	"gamevault-api/pkg/response"
)

// GameHandler handles public catalog reads and admin catalog CRUD.
type GameHandler struct {
	catalog *service.CatalogService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(catalog *service.CatalogService) *GameHandler {
	return &GameHandler{catalog: catalog}
}

// pathID parses the {id} URL parameter as an ObjectID.
func pathID(r *http.Request, name string) (primitive.ObjectID, *apierror.Error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apierror.BadRequest("invalid id")
	}
	return id, nil
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, games)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	game, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, game)
}

// Create handles POST /api/v1/admin/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GameInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	game, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, game)
}

// Update handles PUT /api/v1/admin/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var in service.GameInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	game, err := h.catalog.Update(r.Context(), id, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, game)
}

// Delete handles DELETE /api/v1/admin/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Game deleted"})
}
