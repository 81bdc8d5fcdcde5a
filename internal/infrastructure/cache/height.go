package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrNoHeight = errors.New("chain height not published")

// HeightSource reads the current block height the surrounding platform publishes under key.
type HeightSource struct {
	rdb *redis.Client
	key string
}

func NewHeightSource(rdb *redis.Client, key string) *HeightSource {
	return &HeightSource{rdb: rdb, key: key}
}

func (h *HeightSource) Current(ctx context.Context) (uint64, error) {
	v, err := h.rdb.Get(ctx, h.key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoHeight
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", h.key, err)
	}
	return v, nil
}

// Seed publishes height only if nothing is published yet. It reports whether it wrote.
func (h *HeightSource) Seed(ctx context.Context, height uint64) (bool, error) {
	return h.rdb.SetNX(ctx, h.key, height, 0).Result()
}
