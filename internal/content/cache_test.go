// internal/content/cache_test.go
package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func TestCache_MissLoadsAndStores(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	loads := 0
	load := func() ([]byte, error) {
		loads++
		return []byte(`{"pack": true}`), nil
	}

	data, err := cache.GetOrLoad(context.Background(), "traits.json", load)
	require.NoError(t, err)
	assert.Equal(t, `{"pack": true}`, string(data))
	assert.Equal(t, 1, loads)

	stored, err := mr.Get("matchsim:content:traits.json")
	require.NoError(t, err)
	assert.Equal(t, `{"pack": true}`, stored)
}

func TestCache_HitSkipsLoader(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	require.NoError(t, mr.Set("matchsim:content:traits.json", `cached-bytes`))

	data, err := cache.GetOrLoad(context.Background(), "traits.json", func() ([]byte, error) {
		t.Fatal("loader must not run on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "cached-bytes", string(data))
}

func TestCache_RoundTripBytesEqual(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	original := []byte(testCandidates)
	load := func() ([]byte, error) { return original, nil }

	first, err := cache.GetOrLoad(context.Background(), "candidates.json", load)
	require.NoError(t, err)
	second, err := cache.GetOrLoad(context.Background(), "candidates.json", func() ([]byte, error) {
		return nil, errors.New("must be served from cache")
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCache_ReadFailureDegradesToDirectLoad(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("matchsim:content:posts.json").SetErr(errors.New("connection refused"))
	mock.ExpectSet("matchsim:content:posts.json", []byte("direct"), time.Minute).SetErr(errors.New("connection refused"))

	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	data, err := cache.GetOrLoad(context.Background(), "posts.json", func() ([]byte, error) {
		return []byte("direct"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_LoaderErrorPropagates(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	wantErr := errors.New("disk gone")
	_, err := cache.GetOrLoad(context.Background(), "traits.json", func() ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCache_Invalidate(t *testing.T) {
	client, mr := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	require.NoError(t, mr.Set("matchsim:content:traits.json", "stale"))
	require.NoError(t, cache.Invalidate(context.Background(), "traits.json"))
	assert.False(t, mr.Exists("matchsim:content:traits.json"))
}

func TestFileLoader_ThroughCache(t *testing.T) {
	client, _ := setupRedis(t)
	cache := NewCache(client, time.Minute, logger.NewTestLogger(t))

	dir := writeTestPack(t, defaultPack())
	loader := NewFileLoader(config.ContentConfig{Dir: dir}, cache, logger.NewTestLogger(t))

	store, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.Candidates(), 2)

	// second load is served from the cache, same resolution result
	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(store.Candidates()), len(again.Candidates()))
}
