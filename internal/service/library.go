package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

// LibraryEntry is one owned game with all its keys. Game metadata comes from
// order snapshots, so it survives catalog deletion.
type LibraryEntry struct {
	GameID      primitive.ObjectID `json:"gameId"`
	Title       string             `json:"title"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	Platform    string             `json:"platform,omitempty"`
	Genre       string             `json:"genre,omitempty"`
	Developer   string             `json:"developer,omitempty"`
	PurchasedAt time.Time          `json:"purchasedAt"`
	Keys        []model.GameKey    `json:"keys"`
}

// UseKeyResult reports a key redemption.
type UseKeyResult struct {
	Message string     `json:"message"`
	Status  string     `json:"status"`
	UsedAt  *time.Time `json:"usedAt"`
}

// LibraryService serves the purchased-games view and key redemption.
type LibraryService struct {
	orders repository.OrderRepository
	keys   repository.GameKeyRepository
	now    func() time.Time
}

// NewLibraryService creates a library service.
func NewLibraryService(orders repository.OrderRepository, keys repository.GameKeyRepository) *LibraryService {
	return &LibraryService{orders: orders, keys: keys, now: time.Now}
}

// GetLibrary groups the user's keys by game, decorated with snapshot metadata
// from the earliest order that bought each game. Most recent purchase first.
func (s *LibraryService) GetLibrary(ctx context.Context, userID primitive.ObjectID) ([]LibraryEntry, error) {
	keys, err := s.keys.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []LibraryEntry{}, nil
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type snapshot struct {
		item model.OrderItem
		at   time.Time
	}
	snaps := make(map[primitive.ObjectID]snapshot)
	for _, o := range orders {
		for _, it := range o.Items {
			if prev, ok := snaps[it.GameID]; !ok || o.CreatedAt.Before(prev.at) {
				snaps[it.GameID] = snapshot{item: it, at: o.CreatedAt}
			}
		}
	}

	byGame := make(map[primitive.ObjectID]*LibraryEntry)
	var entries []*LibraryEntry
	for _, k := range keys {
		entry, ok := byGame[k.GameID]
		if !ok {
			entry = &LibraryEntry{GameID: k.GameID, PurchasedAt: k.CreatedAt}
			if snap, ok := snaps[k.GameID]; ok {
				entry.Title = snap.item.Title
				entry.ImageURL = snap.item.ImageURL
				entry.Platform = snap.item.Platform
				entry.Genre = snap.item.Genre
				entry.Developer = snap.item.Developer
			}
			byGame[k.GameID] = entry
			entries = append(entries, entry)
		}
		if k.CreatedAt.After(entry.PurchasedAt) {
			entry.PurchasedAt = k.CreatedAt
		}
		entry.Keys = append(entry.Keys, k)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PurchasedAt.After(entries[j].PurchasedAt)
	})

	out := make([]LibraryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	return out, nil
}

// UseKey redeems an unused key. The transition happens as one conditional
// update, so two concurrent redemptions of the same key cannot both succeed.
func (s *LibraryService) UseKey(ctx context.Context, userID, keyID primitive.ObjectID) (*UseKeyResult, error) {
	ok, err := s.keys.MarkUsed(ctx, keyID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Distinguish missing from already-used for the caller, without ever
		// exposing another user's key.
		key, err := s.keys.FindByIDForUser(ctx, keyID, userID)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, apierror.NotFound("Key not found")
		}
		return nil, apierror.BadRequest("This key has already been used")
	}

	key, err := s.keys.FindByIDForUser(ctx, keyID, userID)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, apierror.NotFound("Key not found")
	}

	return &UseKeyResult{
		Message: "Key marked as used",
		Status:  key.Status,
		UsedAt:  key.UsedAt,
	}, nil
}

// ListOrders returns the user's order history, newest first.
func (s *LibraryService) ListOrders(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}
