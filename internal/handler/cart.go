package handler

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/middleware"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/apierror"
	"gamevault-api/pkg/response"
)

// CartHandler handles cart and checkout HTTP requests.
type CartHandler struct {
	cart     *service.CartService
	checkout *service.CheckoutService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart *service.CartService, checkout *service.CheckoutService) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout}
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	GameID   string `json:"gameId"`
	Quantity int    `json:"quantity"`
}

// Add handles POST /api/v1/cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	gameID, err := primitive.ObjectIDFromHex(req.GameID)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid gameId"))
		return
	}

	view, svcErr := h.cart.Add(r.Context(), middleware.GetUserID(r.Context()), gameID, req.Quantity)
	if svcErr != nil {
		response.Error(w, svcErr)
		return
	}
	response.OK(w, view)
}

// UpdateItemRequest represents the request body for changing a line quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/v1/cart/items/{gameID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	gameID, apiErr := pathID(r, "gameID")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	view, err := h.cart.UpdateItem(r.Context(), middleware.GetUserID(r.Context()), gameID, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Remove handles DELETE /api/v1/cart/items/{gameID}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	gameID, apiErr := pathID(r, "gameID")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	view, err := h.cart.Remove(r.Context(), middleware.GetUserID(r.Context()), gameID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Cart cleared"})
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.Checkout(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, result)
}
