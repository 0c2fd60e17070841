package otp

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Code is a short-lived one-time passcode record bound to an email address.
// Only the hash of the passcode is ever stored; the plaintext exists just
// long enough to be handed to the notifier.
type Code struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"` // UTC
	CreatedAt time.Time `db:"created_at"` // UTC
}

// HashCode returns the hex sha256 digest of a plaintext passcode.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
