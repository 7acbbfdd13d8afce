package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) GetBytes(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data[key], nil
}

func (m *memoryStore) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func TestResultCacheRoundTrip(t *testing.T) {
	store := newMemoryStore()
	cache := NewResultCache(store, 10*time.Minute)
	ctx := context.Background()

	miss, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, miss)

	result := models.AnalysisResult{
		VideoID:      "dQw4w9WgXcQ",
		Mode:         models.ModeDistribution,
		Distribution: models.Distribution{"vader": {Negative: 1, Neutral: 2, Positive: 3}},
		CommentCount: 6,
		AnalyzedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, "k", result))
	assert.Equal(t, 10*time.Minute, store.ttls["k"])

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, result, *got)
}

func TestResultCacheTimeSeries(t *testing.T) {
	cache := NewResultCache(newMemoryStore(), 0)
	ctx := context.Background()

	result := models.AnalysisResult{
		VideoID:    "dQw4w9WgXcQ",
		Mode:       models.ModeTimeSeries,
		TimeSeries: &models.TimeSeries{Dates: []string{"2024-01-01", ""}, CompoundScores: []float64{0.4, -0.2}},
	}
	require.NoError(t, cache.Set(ctx, "ts", result))

	got, err := cache.Get(ctx, "ts")
	require.NoError(t, err)
	assert.Equal(t, result.TimeSeries, got.TimeSeries)
}

func TestResultCacheErrors(t *testing.T) {
	store := newMemoryStore()
	cache := NewResultCache(store, time.Minute)
	ctx := context.Background()

	store.data["bad"] = []byte("{not json")
	_, err := cache.Get(ctx, "bad")
	assert.Error(t, err)

	store.err = errors.New("connection refused")
	_, err = cache.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, cache.Set(ctx, "k", models.AnalysisResult{}))
}
