package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
)

type KeyValueStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResultCache stores analysis results as JSON documents with a fixed TTL.
type ResultCache struct {
	store KeyValueStore
	ttl   time.Duration
}

func NewResultCache(store KeyValueStore, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{store: store, ttl: ttl}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*models.AnalysisResult, error) {
	data, err := c.store.GetBytes(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &result, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return c.store.SetBytes(ctx, key, data, c.ttl)
}
