package service

import (
	"context"
	"testing"

	"gamevault-api/internal/model"
)

func TestAdminDashboardAggregation(t *testing.T) {
	f := newCheckoutFixture()
	users := newFakeUserRepo()
	admin := NewAdminService(users, f.games, f.orders, f.keys)
	ctx := context.Background()

	alice := &model.User{Name: "alice", Email: "alice@example.com", IsVerified: true}
	bob := &model.User{Name: "bob", Email: "bob@example.com", IsVerified: true}
	users.Create(ctx, alice)
	users.Create(ctx, bob)

	alphaID := f.addGame("Alpha", 10)
	betaID := f.addGame("Beta", 5)

	// Alice buys twice (two copies of Alpha, then one Beta), Bob once.
	f.setCart(alice.ID, model.CartItem{GameID: alphaID, Quantity: 2})
	if _, err := f.checkout.Checkout(ctx, alice.ID); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	f.setCart(alice.ID, model.CartItem{GameID: betaID, Quantity: 1})
	if _, err := f.checkout.Checkout(ctx, alice.ID); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	f.setCart(bob.ID, model.CartItem{GameID: alphaID, Quantity: 1})
	if _, err := f.checkout.Checkout(ctx, bob.ID); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	rows, err := admin.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// Sorted by spend: Alice (25) before Bob (10).
	if rows[0].UserID != alice.ID || rows[0].OrderCount != 2 || rows[0].TotalSpent != 25 {
		t.Fatalf("top row = %+v, want alice with 2 orders / 25 spent", rows[0])
	}
	if rows[0].CopiesTotal != 3 || rows[0].UniqueGames != 2 {
		t.Fatalf("alice copies/games = %d/%d, want 3/2", rows[0].CopiesTotal, rows[0].UniqueGames)
	}
	if len(rows[0].Games) != 2 {
		t.Fatalf("alice games = %d, want 2", len(rows[0].Games))
	}
	// Per-game breakdown sorts by copies, then title.
	if rows[0].Games[0].GameID != alphaID || rows[0].Games[0].Copies != 2 || len(rows[0].Games[0].Keys) != 2 {
		t.Fatalf("alice Alpha row = %+v, want 2 copies with 2 keys", rows[0].Games[0])
	}
	if rows[0].Games[1].GameID != betaID || rows[0].Games[1].Copies != 1 || len(rows[0].Games[1].Keys) != 1 {
		t.Fatalf("alice Beta row = %+v, want 1 copy with 1 key", rows[0].Games[1])
	}
	for _, k := range rows[0].Games[0].Keys {
		if k.UserID != alice.ID || k.GameID != alphaID {
			t.Fatalf("key %+v leaked into the wrong breakdown", k)
		}
	}

	if rows[1].UserID != bob.ID || rows[1].TotalSpent != 10 {
		t.Fatalf("second row = %+v, want bob with 10 spent", rows[1])
	}
	if rows[1].CopiesTotal != 1 || rows[1].UniqueGames != 1 || len(rows[1].Games) != 1 {
		t.Fatalf("bob breakdown = %+v, want one copy of one game", rows[1])
	}
	if rows[0].LastOrderAt == nil {
		t.Fatal("LastOrderAt missing")
	}
}

func TestAdminStats(t *testing.T) {
	f := newCheckoutFixture()
	users := newFakeUserRepo()
	admin := NewAdminService(users, f.games, f.orders, f.keys)
	ctx := context.Background()

	buyer := &model.User{Name: "alice", Email: "alice@example.com", IsVerified: true}
	users.Create(ctx, buyer)

	gameID := f.addGame("Alpha", 25)
	f.setCart(buyer.ID, model.CartItem{GameID: gameID, Quantity: 2})
	if _, err := f.checkout.Checkout(ctx, buyer.ID); err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	keys, _ := f.keys.ListByUser(ctx, buyer.ID)
	f.keys.MarkUsed(ctx, keys[0].ID, buyer.ID)

	stats, err := admin.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := Stats{Users: 1, Games: 1, Orders: 1, Revenue: 50, KeysUnused: 1, KeysUsed: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
