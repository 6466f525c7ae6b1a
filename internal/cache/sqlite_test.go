package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderben-code/honestgpt/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) *SQLiteCache {
	t.Helper()
	c, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	require.NoError(t, c.Migrate(context.Background()))
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleBatch() *model.RetrievalBatch {
	return &model.RetrievalBatch{
		SourceType: model.SourceTypeTrusted,
		Sources: []model.SourceHit{
			{Position: 1, Title: "Safety review", URL: "https://nrc.gov/review", Domain: "nrc.gov", TrustScore: 90, QualityTier: model.TierHigh},
		},
	}
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "Is nuclear energy safe?", sampleBatch()))

	got, err := c.Get(ctx, "Is nuclear energy safe?")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.SourceTypeTrusted, got.SourceType)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "nrc.gov", got.Sources[0].Domain)
}

func TestCache_MissReturnsNil(t *testing.T) {
	c := newTestCache(t, time.Hour)

	got, err := c.Get(context.Background(), "never asked")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_KeyIsNormalized(t *testing.T) {
	c := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "  Is   Nuclear Energy SAFE?  ", sampleBatch()))

	got, err := c.Get(ctx, "is nuclear energy safe?")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	c := newTestCache(t, -time.Hour) // already expired on insert
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "stale question", sampleBatch()))

	got, err := c.Get(ctx, "stale question")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := c.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
