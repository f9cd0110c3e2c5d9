package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

// CheckoutResult summarizes a completed checkout. DroppedGameIDs lists cart
// lines whose game vanished between add-to-cart and checkout; they were
// excluded, not charged.
type CheckoutResult struct {
	OrderID        primitive.ObjectID   `json:"orderId"`
	Total          float64              `json:"total"`
	KeysIssued     int                  `json:"keysIssued"`
	DroppedGameIDs []primitive.ObjectID `json:"droppedGameIds,omitempty"`
}

// CheckoutService turns a cart into an order plus license keys.
type CheckoutService struct {
	carts  repository.CartRepository
	games  repository.GameRepository
	orders repository.OrderRepository
	keys   repository.GameKeyRepository
	txn    repository.TxnRunner
	keygen *KeyGenerator
	now    func() time.Time
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	games repository.GameRepository,
	orders repository.OrderRepository,
	keys repository.GameKeyRepository,
	txn repository.TxnRunner,
	keygen *KeyGenerator,
) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		games:  games,
		orders: orders,
		keys:   keys,
		txn:    txn,
		keygen: keygen,
		now:    time.Now,
	}
}

// Checkout resolves the cart against the live catalog, snapshots prices into
// an order, issues one key per purchased unit and clears the cart. The write
// sequence runs inside a transaction where the deployment supports one; the
// unique key index covers the remaining race either way.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID) (*CheckoutResult, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apierror.BadRequest("Cart is empty")
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.GameID)
	}
	games, err := s.games.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &model.Order{
		UserID:    userID,
		Status:    model.OrderStatusPaid,
		CreatedAt: now,
	}

	var dropped []primitive.ObjectID
	for _, it := range cart.Items {
		game, ok := games[it.GameID]
		if !ok {
			dropped = append(dropped, it.GameID)
			continue
		}
		if it.Quantity <= 0 {
			return nil, apierror.BadRequest("Cart has invalid items")
		}

		order.Items = append(order.Items, model.OrderItem{
			GameID:      game.ID,
			Title:       game.Title,
			Price:       game.Price,
			ImageURL:    game.CoverMedia,
			Platform:    game.Platform,
			Genre:       game.Genre,
			Developer:   game.Developer,
			SizeGB:      game.SizeGB,
			Description: game.Description,
			Quantity:    it.Quantity,
		})
		order.Total += game.Price * float64(it.Quantity)
	}

	if len(order.Items) == 0 {
		// Everything in the cart has been removed from the catalog. The cart
		// is only cleared on success; a failed checkout leaves it queryable.
		return nil, apierror.BadRequest("Cart has invalid items")
	}

	err = s.txn.Run(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		var issued []model.GameKey
		for _, it := range order.Items {
			for n := 0; n < it.Quantity; n++ {
				key, err := s.keygen.Generate(ctx)
				if err != nil {
					return err
				}
				issued = append(issued, model.GameKey{
					UserID:    userID,
					GameID:    it.GameID,
					OrderID:   order.ID,
					Key:       key,
					Status:    model.KeyStatusUnused,
					CreatedAt: now,
				})
			}
		}

		if err := s.keys.InsertMany(ctx, issued); err != nil {
			return err
		}
		return s.carts.DeleteByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	keysIssued := 0
	for _, it := range order.Items {
		keysIssued += it.Quantity
	}

	return &CheckoutResult{
		OrderID:        order.ID,
		Total:          order.Total,
		KeysIssued:     keysIssued,
		DroppedGameIDs: dropped,
	}, nil
}
