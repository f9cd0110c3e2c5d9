package handler

import (
	"net/http"

	"gamevault-api/internal/middleware"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/response"
)

// LibraryHandler handles purchased-games and key redemption requests.
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler creates a new library handler.
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// Get handles GET /api/v1/library
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.library.GetLibrary(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, entries)
}

// UseKey handles POST /api/v1/library/keys/{keyID}/use
func (h *LibraryHandler) UseKey(w http.ResponseWriter, r *http.Request) {
	keyID, apiErr := pathID(r, "keyID")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	result, err := h.library.UseKey(r.Context(), middleware.GetUserID(r.Context()), keyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Orders handles GET /api/v1/orders
func (h *LibraryHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.library.ListOrders(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, orders)
}
