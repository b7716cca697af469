// Package cache keeps successful generation results in Redis so identical
// requests skip sampling.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/codewizard/api/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "codewizard:result:"

// ResultCache stores generation results by request fingerprint
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache; ttl <= 0 defaults to ten minutes
func New(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Key fingerprints a request
func Key(language string, samples int, prompt string) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(samples)))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result; ok is false on a miss
func (c *ResultCache) Get(ctx context.Context, key string) (*models.GenerationResult, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res models.GenerationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

// Put stores a result. Fallback results are not cached so a recovered
// backend is used on the next request.
func (c *ResultCache) Put(ctx context.Context, key string, res *models.GenerationResult) error {
	if res == nil || res.Status != models.StatusSuccess {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
