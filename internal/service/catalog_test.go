package service

import (
	"context"
	"testing"
	"time"

	"gamevault-api/internal/cache"
)

func newTestCatalog() (*CatalogService, *fakeGameRepo) {
	games := newFakeGameRepo()
	return NewCatalogService(games, cache.NewMemoryCache(), time.Minute), games
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()

	game, err := svc.Create(ctx, GameInput{
		Title:      "Alpha",
		Price:      29.99,
		CoverMedia: "https://cdn.example.com/alpha.jpg",
		TrailerURL: "https://www.youtube.com/watch?v=abc123",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, game.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Alpha" || got.Price != 29.99 {
		t.Fatalf("got %+v", got)
	}
}

func TestCatalogValidation(t *testing.T) {
	svc, _ := newTestCatalog()
	ctx := context.Background()

	tests := []struct {
		name string
		in   GameInput
	}{
		{name: "missing title", in: GameInput{Price: 10}},
		{name: "negative price", in: GameInput{Title: "X", Price: -1}},
		{name: "bad cover scheme", in: GameInput{Title: "X", CoverMedia: "javascript:alert(1)"}},
		{name: "bad screenshot", in: GameInput{Title: "X", Screenshots: []string{"ftp://host/a.png"}}},
		{name: "non-youtube trailer", in: GameInput{Title: "X", TrailerURL: "https://vimeo.com/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			ae := apiErr(t, err)
			if ae.StatusCode != 400 {
				t.Fatalf("status = %d, want 400", ae.StatusCode)
			}
		})
	}
}

func TestCatalogUpdateInvalidatesCache(t *testing.T) {
	svc, games := newTestCatalog()
	ctx := context.Background()

	game, err := svc.Create(ctx, GameInput{Title: "Alpha", Price: 10})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Prime both cache entries.
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, err := svc.Get(ctx, game.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if _, err := svc.Update(ctx, game.ID, GameInput{Title: "Alpha Remastered", Price: 20}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := svc.Get(ctx, game.ID)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if got.Title != "Alpha Remastered" || got.Price != 20 {
		t.Fatalf("stale cache served: %+v", got)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() after update error = %v", err)
	}
	if len(list) != 1 || list[0].Title != "Alpha Remastered" {
		t.Fatalf("stale list served: %+v", list)
	}

	stored, _ := games.FindByID(ctx, game.ID)
	if stored.Title != "Alpha Remastered" {
		t.Fatal("update not persisted")
	}
}

func TestCatalogDeleteUnknown(t *testing.T) {
	svc, games := newTestCatalog()
	ctx := context.Background()

	game, _ := svc.Create(ctx, GameInput{Title: "Alpha", Price: 10})
	if err := svc.Delete(ctx, game.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err := svc.Delete(ctx, game.ID)
	ae := apiErr(t, err)
	if ae.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", ae.StatusCode)
	}
	if n, _ := games.Count(ctx); n != 0 {
		t.Fatalf("games left = %d, want 0", n)
	}
}

func TestMediaURLRules(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/a.png", true},
		{"http://cdn.example.com/a.png", true},
		{"/uploads/a.png", true},
		{"javascript:alert(1)", false},
		{"data:image/png;base64,AAAA", false},
		{"//cdn.example.com/a.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isAllowedMediaURL(tt.url); got != tt.want {
			t.Errorf("isAllowedMediaURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}

	ytTests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"https://www.youtube.com/embed/abc", true},
		{"https://notyoutube.com/watch?v=abc", false},
		{"https://youtu.be/", false},
	}
	for _, tt := range ytTests {
		if got := isYoutubeURL(tt.url); got != tt.want {
			t.Errorf("isYoutubeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
