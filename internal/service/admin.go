package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
)

// CustomerGame is one purchased title within a customer row, with the keys
// issued to that customer for it.
type CustomerGame struct {
	GameID primitive.ObjectID `json:"gameId"`
	Title  string             `json:"title"`
	Copies int                `json:"copies"`
	Keys   []model.GameKey    `json:"keys"`
}

// CustomerSummary is one row of the back-office dashboard.
type CustomerSummary struct {
	UserID      primitive.ObjectID `json:"userId"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	IsVerified  bool               `json:"isVerified"`
	OrderCount  int                `json:"orderCount"`
	CopiesTotal int                `json:"copiesTotal"`
	UniqueGames int                `json:"uniqueGames"`
	TotalSpent  float64            `json:"totalSpent"`
	LastOrderAt *time.Time         `json:"lastOrderAt,omitempty"`
	Games       []CustomerGame     `json:"games"`
}

// Stats is the back-office counters block.
type Stats struct {
	Users      int64   `json:"users"`
	Games      int64   `json:"games"`
	Orders     int64   `json:"orders"`
	Revenue    float64 `json:"revenue"`
	KeysUnused int64   `json:"keysUnused"`
	KeysUsed   int64   `json:"keysUsed"`
}

// AdminService computes back-office views. Aggregation happens in process
// over full collection reads, which is fine at back-office scale.
type AdminService struct {
	users  repository.UserRepository
	games  repository.GameRepository
	orders repository.OrderRepository
	keys   repository.GameKeyRepository
}

// NewAdminService creates an admin service.
func NewAdminService(
	users repository.UserRepository,
	games repository.GameRepository,
	orders repository.OrderRepository,
	keys repository.GameKeyRepository,
) *AdminService {
	return &AdminService{users: users, games: games, orders: orders, keys: keys}
}

// Dashboard returns a per-customer purchase summary, biggest spenders first.
func (s *AdminService) Dashboard(ctx context.Context) ([]CustomerSummary, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type gameAgg struct {
		title  string
		copies int
	}
	type agg struct {
		count  int
		copies int
		spent  float64
		last   time.Time
		games  map[primitive.ObjectID]*gameAgg
	}
	byUser := make(map[primitive.ObjectID]*agg)
	for _, o := range orders {
		a, ok := byUser[o.UserID]
		if !ok {
			a = &agg{games: make(map[primitive.ObjectID]*gameAgg)}
			byUser[o.UserID] = a
		}
		a.count++
		a.spent += o.Total
		if o.CreatedAt.After(a.last) {
			a.last = o.CreatedAt
		}
		for _, it := range o.Items {
			g, ok := a.games[it.GameID]
			if !ok {
				g = &gameAgg{title: it.Title}
				a.games[it.GameID] = g
			}
			g.copies += it.Quantity
			a.copies += it.Quantity
		}
	}

	ids := make([]primitive.ObjectID, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]CustomerSummary, 0, len(byUser))
	for id, a := range byUser {
		row := CustomerSummary{
			UserID:      id,
			Name:        "Deleted user",
			OrderCount:  a.count,
			CopiesTotal: a.copies,
			UniqueGames: len(a.games),
			TotalSpent:  a.spent,
		}
		if !a.last.IsZero() {
			last := a.last
			row.LastOrderAt = &last
		}
		if u, ok := users[id]; ok {
			row.Name = u.Name
			row.Email = u.Email
			row.IsVerified = u.IsVerified
		}

		keys, err := s.keys.ListByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		keysByGame := make(map[primitive.ObjectID][]model.GameKey)
		for _, k := range keys {
			keysByGame[k.GameID] = append(keysByGame[k.GameID], k)
		}
		for gameID, g := range a.games {
			row.Games = append(row.Games, CustomerGame{
				GameID: gameID,
				Title:  g.title,
				Copies: g.copies,
				Keys:   keysByGame[gameID],
			})
		}
		sort.Slice(row.Games, func(i, j int) bool {
			if row.Games[i].Copies != row.Games[j].Copies {
				return row.Games[i].Copies > row.Games[j].Copies
			}
			return row.Games[i].Title < row.Games[j].Title
		})

		summaries = append(summaries, row)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSpent != summaries[j].TotalSpent {
			return summaries[i].TotalSpent > summaries[j].TotalSpent
		}
		return summaries[i].UserID.Hex() < summaries[j].UserID.Hex()
	})
	return summaries, nil
}

// GetStats returns the counters block.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Games, err = s.games.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Orders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if stats.KeysUnused, err = s.keys.CountByStatus(ctx, model.KeyStatusUnused); err != nil {
		return nil, err
	}
	if stats.KeysUsed, err = s.keys.CountByStatus(ctx, model.KeyStatusUsed); err != nil {
		return nil, err
	}

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		stats.Revenue += o.Total
	}
	return stats, nil
}
