package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

func digest(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// validReqID accepts a lowercase RFC 4122 UUID (versions 1-5) or 32 lowercase hex characters,
// the format pkg/id generates.
func validReqID(id string) bool {
	if reHex32.MatchString(id) {
		return true
	}
	if len(id) != 36 || id != strings.ToLower(id) {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil || u.Variant() != uuid.RFC4122 {
		return false
	}
	return u.Version() >= 1 && u.Version() <= 5
}

// epochMillisFloor separates epoch seconds from epoch milliseconds.
const epochMillisFloor = 1e12

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC 3339 with an explicit zone.
// Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > epochMillisFloor {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also parses values without fractional seconds
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}
