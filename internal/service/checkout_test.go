package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
)

type checkoutFixture struct {
	carts    *fakeCartRepo
	games    *fakeGameRepo
	orders   *fakeOrderRepo
	keys     *fakeKeyRepo
	checkout *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:  newFakeCartRepo(),
		games:  newFakeGameRepo(),
		orders: &fakeOrderRepo{},
		keys:   newFakeKeyRepo(),
	}
	f.checkout = NewCheckoutService(
		f.carts, f.games, f.orders, f.keys,
		plainTxnRunner{}, NewKeyGenerator(f.keys),
	)
	return f
}

func (f *checkoutFixture) addGame(title string, price float64) primitive.ObjectID {
	g := &model.Game{Title: title, Price: price, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.games.Create(context.Background(), g)
	return g.ID
}

func (f *checkoutFixture) setCart(userID primitive.ObjectID, items ...model.CartItem) {
	f.carts.Save(context.Background(), &model.Cart{UserID: userID, Items: items})
}

func TestCheckoutIssuesOneKeyPerUnit(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()

	g1 := f.addGame("Alpha", 19.99)
	g2 := f.addGame("Beta", 4.99)
	f.setCart(userID,
		model.CartItem{GameID: g1, Quantity: 2},
		model.CartItem{GameID: g2, Quantity: 3},
	)

	result, err := f.checkout.Checkout(context.Background(), userID)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	if result.KeysIssued != 5 {
		t.Fatalf("KeysIssued = %d, want 5", result.KeysIssued)
	}

	keys, _ := f.keys.ListByUser(context.Background(), userID)
	if len(keys) != 5 {
		t.Fatalf("stored keys = %d, want 5", len(keys))
	}

	perGame := make(map[primitive.ObjectID]int)
	seen := make(map[string]bool)
	for _, k := range keys {
		perGame[k.GameID]++
		if seen[k.Key] {
			t.Fatalf("duplicate key issued: %s", k.Key)
		}
		seen[k.Key] = true
		if k.Status != model.KeyStatusUnused {
			t.Fatalf("fresh key status = %q, want unused", k.Status)
		}
		if k.OrderID != result.OrderID {
			t.Fatal("key not linked to the order")
		}
	}
	if perGame[g1] != 2 || perGame[g2] != 3 {
		t.Fatalf("keys per game = %v, want 2 and 3", perGame)
	}
}

func TestCheckoutSnapshotsPrices(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	gameID := f.addGame("Alpha", 10.00)
	f.setCart(userID, model.CartItem{GameID: gameID, Quantity: 1})

	result, err := f.checkout.Checkout(ctx, userID)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if result.Total != 10.00 {
		t.Fatalf("Total = %v, want 10.00", result.Total)
	}

	// A later price change must not leak into the stored order.
	g, _ := f.games.FindByID(ctx, gameID)
	g.Price = 99.99
	f.games.Update(ctx, g)

	orders, _ := f.orders.ListByUser(ctx, userID)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Total != 10.00 || orders[0].Items[0].Price != 10.00 {
		t.Fatalf("order snapshot changed: total=%v price=%v", orders[0].Total, orders[0].Items[0].Price)
	}
	if orders[0].Status != model.OrderStatusPaid {
		t.Fatalf("order status = %q, want paid", orders[0].Status)
	}
}

func TestCheckoutClearsCart(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	gameID := f.addGame("Alpha", 10.00)
	f.setCart(userID, model.CartItem{GameID: gameID, Quantity: 1})

	if _, err := f.checkout.Checkout(ctx, userID); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	cart, _ := f.carts.FindByUser(ctx, userID)
	if cart != nil {
		t.Fatal("cart still exists after checkout")
	}

	// A second checkout on the cleared cart fails and issues nothing.
	_, err := f.checkout.Checkout(ctx, userID)
	ae := apiErr(t, err)
	if ae.Message != "Cart is empty" {
		t.Fatalf("message = %q, want \"Cart is empty\"", ae.Message)
	}
	keys, _ := f.keys.ListByUser(ctx, userID)
	if len(keys) != 1 {
		t.Fatalf("keys after double checkout = %d, want 1", len(keys))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.checkout.Checkout(context.Background(), primitive.NewObjectID())
	ae := apiErr(t, err)
	if ae.StatusCode != 400 || ae.Message != "Cart is empty" {
		t.Fatalf("got %d %q, want 400 \"Cart is empty\"", ae.StatusCode, ae.Message)
	}
}

func TestCheckoutDropsVanishedGames(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	kept := f.addGame("Alpha", 10.00)
	doomed := f.addGame("Beta", 20.00)
	f.setCart(userID,
		model.CartItem{GameID: kept, Quantity: 1},
		model.CartItem{GameID: doomed, Quantity: 1},
	)
	f.games.Delete(ctx, doomed)

	result, err := f.checkout.Checkout(ctx, userID)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if result.Total != 10.00 {
		t.Fatalf("Total = %v, want 10.00 (vanished game not charged)", result.Total)
	}
	if result.KeysIssued != 1 {
		t.Fatalf("KeysIssued = %d, want 1", result.KeysIssued)
	}
	if len(result.DroppedGameIDs) != 1 || result.DroppedGameIDs[0] != doomed {
		t.Fatalf("DroppedGameIDs = %v, want [%s]", result.DroppedGameIDs, doomed.Hex())
	}
}

func TestCheckoutAllGamesVanished(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	doomed := f.addGame("Beta", 20.00)
	f.setCart(userID, model.CartItem{GameID: doomed, Quantity: 1})
	f.games.Delete(ctx, doomed)

	_, err := f.checkout.Checkout(ctx, userID)
	ae := apiErr(t, err)
	if ae.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", ae.StatusCode)
	}

	// The failure happened before cart-clear, so the cart stays queryable.
	cart, _ := f.carts.FindByUser(ctx, userID)
	if cart == nil || len(cart.Items) != 1 || cart.Items[0].GameID != doomed {
		t.Fatalf("cart = %+v, want the original line intact after failed checkout", cart)
	}
	if n, _ := f.orders.Count(ctx); n != 0 {
		t.Fatalf("orders = %d, want 0", n)
	}
	if keys, _ := f.keys.ListByUser(ctx, userID); len(keys) != 0 {
		t.Fatalf("keys = %d, want 0", len(keys))
	}
}

func TestCheckoutKeysUniqueAcrossOrders(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	gameID := f.addGame("Alpha", 10.00)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		userID := primitive.NewObjectID()
		f.setCart(userID, model.CartItem{GameID: gameID, Quantity: 2})
		if _, err := f.checkout.Checkout(ctx, userID); err != nil {
			t.Fatalf("Checkout() %d error = %v", i, err)
		}
		keys, _ := f.keys.ListByUser(ctx, userID)
		for _, k := range keys {
			if seen[k.Key] {
				t.Fatalf("key %q issued twice", k.Key)
			}
			seen[k.Key] = true
		}
	}
	if len(seen) != 20 {
		t.Fatalf("distinct keys = %d, want 20", len(seen))
	}
}

func TestCheckoutFailsWhenKeySpaceExhausted(t *testing.T) {
	f := newCheckoutFixture()
	userID := primitive.NewObjectID()
	ctx := context.Background()

	gameID := f.addGame("Alpha", 10.00)
	f.setCart(userID, model.CartItem{GameID: gameID, Quantity: 1})

	// Force every candidate to collide.
	f.checkout.keygen = NewKeyGenerator(alwaysCollides{})

	if _, err := f.checkout.Checkout(ctx, userID); err == nil {
		t.Fatal("Checkout() succeeded despite key generation failure")
	}
	if keys, _ := f.keys.ListByUser(ctx, userID); len(keys) != 0 {
		t.Fatalf("keys issued on failed checkout = %d, want 0", len(keys))
	}
}
