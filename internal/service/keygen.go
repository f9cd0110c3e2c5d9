package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// keyAlphabet is a 32-symbol set with visually ambiguous characters removed
// (no 0/O, 1/I).
const keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	rawKeyLength   = 15
	keyGroupSize   = 5
	maxKeyAttempts = 10
)

// ErrKeySpaceExhausted means 10 consecutive candidates collided with issued
// keys. At 32^15 combinations this is effectively unreachable; the cap is a
// circuit breaker, and hitting it fails the whole issuance.
var ErrKeySpaceExhausted = errors.New("failed to generate unique key")

// keyChecker is the slice of the key store the generator needs.
type keyChecker interface {
	KeyExists(ctx context.Context, key string) (bool, error)
}

// KeyGenerator produces globally unique formatted license keys. The
// check-then-use sequence is not locked; the unique index on the key column
// is the real correctness backstop for concurrent issuance.
type KeyGenerator struct {
	keys keyChecker
}

// NewKeyGenerator creates a key generator backed by the given key store.
func NewKeyGenerator(keys keyChecker) *KeyGenerator {
	return &KeyGenerator{keys: keys}
}

// Generate returns a fresh key in XXXXX-XXXXX-XXXXX form that no issued key
// currently uses.
func (g *KeyGenerator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < maxKeyAttempts; i++ {
		raw, err := randomRawKey()
		if err != nil {
			return "", err
		}

		key := FormatKey(raw)
		exists, err := g.keys.KeyExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to check key uniqueness: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
	return "", ErrKeySpaceExhausted
}

// randomRawKey draws rawKeyLength symbols uniformly from keyAlphabet.
func randomRawKey() (string, error) {
	alphabetSize := big.NewInt(int64(len(keyAlphabet)))

	buf := make([]byte, rawKeyLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate key: %w", err)
		}
		buf[i] = keyAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// FormatKey groups a 15-character raw key as 5-5-5 with hyphens.
func FormatKey(raw string) string {
	return raw[:keyGroupSize] + "-" + raw[keyGroupSize:2*keyGroupSize] + "-" + raw[2*keyGroupSize:]
}
