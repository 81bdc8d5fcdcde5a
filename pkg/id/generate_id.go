package id

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID32 returns a random v4 UUID as 32 lowercase hex characters, no separators.
// Used as the X-Request-ID of requests that arrive without one.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// NewRequestID returns a canonical v4 UUID, the form clients send in Ax-Request-Id.
func NewRequestID() string { return uuid.NewString() }
