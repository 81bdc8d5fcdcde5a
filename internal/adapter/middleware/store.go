package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// claimTTL bounds how long a crashed request can keep its key locked.
const claimTTL = 60 * time.Second

// record is what a request id maps to: a claim while the handler runs, then the response.
type record struct {
	Pending     bool      `json:"pending"`
	Status      int       `json:"status,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	Digest      string    `json:"digest"`
	RequestAtMS int64     `json:"request_at_ms"`
	StoredAt    time.Time `json:"stored_at"`
}

type replayStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func replayKey(method, route, principal, requestID string) string {
	return "idemp:" + principal + ":" + strings.ToLower(method) + ":" + route + ":" + requestID
}

// claim reserves key for the current request. False means another request owns it.
func (s replayStore) claim(ctx context.Context, key string, r record) (bool, error) {
	r.Pending = true
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, claimTTL).Result()
}

// lookup returns nil when the key has expired since the failed claim.
func (s replayStore) lookup(ctx context.Context, key string) (*record, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s replayStore) complete(ctx context.Context, key string, r record) error {
	r.Pending = false
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// release drops a claim so the client can retry after a server-side failure.
func (s replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
