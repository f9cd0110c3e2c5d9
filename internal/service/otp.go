package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"gamevault-api/internal/model"
)

// otpDigits is the length of the numeric one-time code.
const otpDigits = 6

// GenerateOTPCode returns a zero-padded numeric code. The plaintext only
// lives long enough to be mailed out; storage sees the hash.
func GenerateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// HashOTP returns the hex SHA-256 of a code. One-way: good enough for a
// short-lived 6-digit secret that is also attempt-limited.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// issueOTP overwrites state with a fresh code generation and returns the
// plaintext code. Resets the attempt counter.
func issueOTP(state *model.OTPState, ttl time.Duration, now time.Time) (string, error) {
	code, err := GenerateOTPCode()
	if err != nil {
		return "", err
	}

	expires := now.Add(ttl)
	state.CodeHash = HashOTP(code)
	state.ExpiresAt = &expires
	state.Attempts = 0
	state.LastSentAt = &now
	return code, nil
}

// otpOutcome classifies a verification attempt.
type otpOutcome int

const (
	otpOK otpOutcome = iota
	otpExpired
	otpLocked
	otpMismatch
)

// checkOTP evaluates a submitted code against the stored generation.
// Order matters: an expired code is rejected regardless of correctness or
// remaining attempts, and a locked generation rejects even the right code.
// On otpMismatch the caller must persist the incremented attempt counter;
// on otpOK the caller must persist the cleared state.
func checkOTP(state *model.OTPState, code string, maxAttempts int, now time.Time) otpOutcome {
	if !state.Issued() || now.After(*state.ExpiresAt) {
		return otpExpired
	}
	if state.Attempts >= maxAttempts {
		return otpLocked
	}
	if HashOTP(code) != state.CodeHash {
		state.Attempts++
		return otpMismatch
	}

	state.Clear()
	return otpOK
}

// cooldownRemaining returns how long until another code may be sent, zero if
// the cooldown has elapsed or no code was ever sent.
func cooldownRemaining(state *model.OTPState, cooldown time.Duration, now time.Time) time.Duration {
	if state.LastSentAt == nil {
		return 0
	}
	remaining := cooldown - now.Sub(*state.LastSentAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
