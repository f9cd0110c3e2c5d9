package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gamevault-api/internal/cache"
	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

const (
	catalogListKey = "catalog:list"
	catalogGamePfx = "catalog:game:"
)

// GameInput carries the admin-supplied fields for creating or updating a
// catalog entry.
type GameInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Developer   string  `json:"developer"`
	SizeGB      float64 `json:"sizeGB"`
	Platform    string  `json:"platform"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`

	CoverMedia  string   `json:"coverMedia"`
	Screenshots []string `json:"screenshots"`
	TrailerURL  string   `json:"trailerUrl"`

	Modes             []string `json:"modes"`
	OnlineRequired    bool     `json:"onlineRequired"`
	Crossplay         bool     `json:"crossplay"`
	ControllerSupport bool     `json:"controllerSupport"`
	Languages         []string `json:"languages"`

	MinimumRequirements     model.Requirements `json:"minimumRequirements"`
	RecommendedRequirements model.Requirements `json:"recommendedRequirements"`
}

// CatalogService serves the public catalog and the admin catalog CRUD.
// Reads go through the cache; every write invalidates it.
type CatalogService struct {
	games repository.GameRepository
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewCatalogService creates a catalog service with the given cache TTL.
func NewCatalogService(games repository.GameRepository, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{games: games, cache: c, ttl: ttl, now: time.Now}
}

// List returns all catalog entries, newest first, served from cache when
// fresh.
func (s *CatalogService) List(ctx context.Context) ([]model.Game, error) {
	data, err := s.cache.GetOrSet(ctx, catalogListKey, s.ttl, func() ([]byte, error) {
		games, err := s.games.List(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(games)
	})
	if err != nil {
		return nil, err
	}

	var games []model.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Get returns one catalog entry.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*model.Game, error) {
	data, err := s.cache.GetOrSet(ctx, catalogGamePfx+id.Hex(), s.ttl, func() ([]byte, error) {
		game, err := s.games.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, apierror.NotFound("Game not found")
		}
		return json.Marshal(game)
	})
	if err != nil {
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// Create adds a catalog entry.
func (s *CatalogService) Create(ctx context.Context, in GameInput) (*model.Game, error) {
	if err := validateGameInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	game := &model.Game{
		Title:       strings.TrimSpace(in.Title),
		Price:       in.Price,
		Developer:   strings.TrimSpace(in.Developer),
		SizeGB:      in.SizeGB,
		Platform:    strings.TrimSpace(in.Platform),
		Genre:       strings.TrimSpace(in.Genre),
		Description: strings.TrimSpace(in.Description),

		CoverMedia:  strings.TrimSpace(in.CoverMedia),
		Screenshots: in.Screenshots,
		TrailerURL:  strings.TrimSpace(in.TrailerURL),

		Modes:             uniqueStrings(in.Modes),
		OnlineRequired:    in.OnlineRequired,
		Crossplay:         in.Crossplay,
		ControllerSupport: in.ControllerSupport,
		Languages:         uniqueStrings(in.Languages),

		MinimumRequirements:     in.MinimumRequirements,
		RecommendedRequirements: in.RecommendedRequirements,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.games.Create(ctx, game); err != nil {
		return nil, err
	}
	s.invalidate(ctx, game.ID)
	return game, nil
}

// Update replaces the mutable fields of a catalog entry. In-flight carts and
// past orders are unaffected: carts resolve prices at checkout, orders hold
// snapshots.
func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, in GameInput) (*model.Game, error) {
	if err := validateGameInput(&in); err != nil {
		return nil, err
	}

	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, apierror.NotFound("Game not found")
	}

	game.Title = strings.TrimSpace(in.Title)
	game.Price = in.Price
	game.Developer = strings.TrimSpace(in.Developer)
	game.SizeGB = in.SizeGB
	game.Platform = strings.TrimSpace(in.Platform)
	game.Genre = strings.TrimSpace(in.Genre)
	game.Description = strings.TrimSpace(in.Description)
	game.CoverMedia = strings.TrimSpace(in.CoverMedia)
	game.Screenshots = in.Screenshots
	game.TrailerURL = strings.TrimSpace(in.TrailerURL)
	game.Modes = uniqueStrings(in.Modes)
	game.OnlineRequired = in.OnlineRequired
	game.Crossplay = in.Crossplay
	game.ControllerSupport = in.ControllerSupport
	game.Languages = uniqueStrings(in.Languages)
	game.MinimumRequirements = in.MinimumRequirements
	game.RecommendedRequirements = in.RecommendedRequirements
	game.UpdatedAt = s.now()

	if err := s.games.Update(ctx, game); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return game, nil
}

// Delete removes a catalog entry. Already-issued keys, orders and library
// entries for the game survive; active carts drop the line at checkout.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return apierror.NotFound("Game not found")
	}

	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// invalidate drops the cached list and the cached single entry. Cache
// failures only cost freshness, so they are logged and swallowed.
func (s *CatalogService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, catalogListKey); err != nil {
		log.Printf("[CatalogService] Cache invalidation failed: %v", err)
	}
	if err := s.cache.Delete(ctx, catalogGamePfx+id.Hex()); err != nil {
		log.Printf("[CatalogService] Cache invalidation failed: %v", err)
	}
}

func validateGameInput(in *GameInput) *apierror.Error {
	if strings.TrimSpace(in.Title) == "" {
		return apierror.BadRequest("Title is required")
	}
	if in.Price < 0 {
		return apierror.BadRequest("Price cannot be negative")
	}
	if in.SizeGB < 0 {
		return apierror.BadRequest("Size cannot be negative")
	}

	if cm := strings.TrimSpace(in.CoverMedia); cm != "" && !isAllowedMediaURL(cm) {
		return apierror.BadRequest("Invalid cover media URL")
	}

	shots := uniqueStrings(in.Screenshots)
	for _, u := range shots {
		if !isAllowedMediaURL(u) {
			return apierror.BadRequest("Invalid screenshot URL")
		}
	}
	in.Screenshots = shots

	if tr := strings.TrimSpace(in.TrailerURL); tr != "" && !isYoutubeURL(tr) {
		return apierror.BadRequest("Trailer must be a YouTube link")
	}
	return nil
}
