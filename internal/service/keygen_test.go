package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var keyPattern = regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{5}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{5}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{5}$`)

func TestKeyGeneratorFormat(t *testing.T) {
	gen := NewKeyGenerator(newFakeKeyRepo())

	for i := 0; i < 50; i++ {
		key, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !keyPattern.MatchString(key) {
			t.Fatalf("Generate() = %q, want XXXXX-XXXXX-XXXXX from restricted alphabet", key)
		}
	}
}

func TestKeyGeneratorNoDuplicates(t *testing.T) {
	gen := NewKeyGenerator(newFakeKeyRepo())

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if seen[key] {
			t.Fatalf("Generate() returned duplicate key %q", key)
		}
		seen[key] = true
	}
}

// alwaysCollides reports every candidate as taken.
type alwaysCollides struct{}

func (alwaysCollides) KeyExists(context.Context, string) (bool, error) {
	return true, nil
}

func TestKeyGeneratorExhaustion(t *testing.T) {
	gen := NewKeyGenerator(alwaysCollides{})

	_, err := gen.Generate(context.Background())
	if !errors.Is(err, ErrKeySpaceExhausted) {
		t.Fatalf("Generate() error = %v, want ErrKeySpaceExhausted", err)
	}
}

// countingChecker collides a fixed number of times, then yields.
type countingChecker struct {
	collisions int
	calls      int
}

func (c *countingChecker) KeyExists(context.Context, string) (bool, error) {
	c.calls++
	return c.calls <= c.collisions, nil
}

func TestKeyGeneratorRetriesOnCollision(t *testing.T) {
	checker := &countingChecker{collisions: 3}
	gen := NewKeyGenerator(checker)

	key, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if key == "" {
		t.Fatal("Generate() returned empty key")
	}
	if checker.calls != 4 {
		t.Fatalf("KeyExists called %d times, want 4", checker.calls)
	}
}

func TestFormatKey(t *testing.T) {
	got := FormatKey("ABCDEFGHJKLMNPQ")
	want := "ABCDE-FGHJK-LMNPQ"
	if got != want {
		t.Fatalf("FormatKey() = %q, want %q", got, want)
	}
}
