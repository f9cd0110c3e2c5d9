package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

// maxCartQuantity caps a single cart line.
const maxCartQuantity = 10

// CartLine is a cart item joined with its current catalog entry. Game is nil
// when the entry has been deleted since the item was added; such lines are
// shown as unavailable and dropped at checkout.
type CartLine struct {
	GameID   primitive.ObjectID `json:"gameId"`
	Quantity int                `json:"quantity"`
	Game     *model.Game        `json:"game,omitempty"`
}

// CartView is the cart as returned to clients. Total covers only lines whose
// game still exists.
type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// CartService manages the one-document-per-user cart.
type CartService struct {
	carts repository.CartRepository
	games repository.GameRepository
	now   func() time.Time
}

// NewCartService creates a cart service.
func NewCartService(carts repository.CartRepository, games repository.GameRepository) *CartService {
	return &CartService{carts: carts, games: games, now: time.Now}
}

// Get returns the user's cart joined with current catalog data. A missing
// cart document reads as an empty cart.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return &CartView{Items: []CartLine{}}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.GameID)
	}
	games, err := s.games.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(cart.Items))}
	for _, it := range cart.Items {
		line := CartLine{GameID: it.GameID, Quantity: it.Quantity}
		if g, ok := games[it.GameID]; ok {
			game := g
			line.Game = &game
			view.Total += game.Price * float64(it.Quantity)
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// Add puts quantity units of a game into the cart, merging with an existing
// line up to the per-line cap.
func (s *CartService) Add(ctx context.Context, userID, gameID primitive.ObjectID, quantity int) (*CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > maxCartQuantity {
		return nil, apierror.BadRequest("Quantity exceeds the per-item limit")
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apierror.NotFound("Game not found")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if cart == nil {
		cart = &model.Cart{UserID: userID, CreatedAt: now}
	}

	if i := cart.Find(gameID); i >= 0 {
		if cart.Items[i].Quantity+quantity > maxCartQuantity {
			return nil, apierror.BadRequest("Quantity exceeds the per-item limit")
		}
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, model.CartItem{GameID: gameID, Quantity: quantity})
	}
	cart.UpdatedAt = now

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem sets the quantity of an existing line. Zero removes the line; an
// emptied cart is deleted.
func (s *CartService) UpdateItem(ctx context.Context, userID, gameID primitive.ObjectID, quantity int) (*CartView, error) {
	if quantity < 0 || quantity > maxCartQuantity {
		return nil, apierror.BadRequest("Invalid quantity")
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apierror.NotFound("Cart is empty")
	}

	i := cart.Find(gameID)
	if i < 0 {
		return nil, apierror.NotFound("Item not in cart")
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = quantity
	}

	if len(cart.Items) == 0 {
		if err := s.carts.DeleteByUser(ctx, userID); err != nil {
			return nil, err
		}
		return &CartView{Items: []CartLine{}}, nil
	}

	cart.UpdatedAt = s.now()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Remove deletes one line from the cart.
func (s *CartService) Remove(ctx context.Context, userID, gameID primitive.ObjectID) (*CartView, error) {
	return s.UpdateItem(ctx, userID, gameID, 0)
}

// Clear drops the whole cart document.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.DeleteByUser(ctx, userID)
}
