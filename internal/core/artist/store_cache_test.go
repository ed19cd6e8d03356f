// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/artistphere/internal/core/artist"
	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/constants"
)

func newCachedRepository(t *testing.T) (*artist.CachedRepository, *artist.MemoryRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	memory := artist.NewMemoryRepository()
	return artist.NewCachedRepository(memory, client, time.Minute, discardLogger()), memory, server
}

/*
TestCachedRepository_ReadThrough fills the cache on the first read.
*/
func TestCachedRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	repo, _, server := newCachedRepository(t)

	created, err := repo.Create(ctx, newRecord("Aria"))
	require.NoError(t, err)

	key := constants.RedisPrefixArtist + created.ID
	assert.False(t, server.Exists(key))

	first, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, server.Exists(key))
	assert.Equal(t, time.Minute, server.TTL(key))

	second, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.PlatformLinks, second.PlatformLinks)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

/*
TestCachedRepository_Invalidation drops the entry after every mutation.
*/
func TestCachedRepository_Invalidation(t *testing.T) {
	ctx := context.Background()
	repo, _, server := newCachedRepository(t)

	created, err := repo.Create(ctx, newRecord("Aria"))
	require.NoError(t, err)
	key := constants.RedisPrefixArtist + created.ID

	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, &artist.Patch{HitSong: ptr("Skyline")})
	require.NoError(t, err)
	assert.False(t, server.Exists(key))

	fresh, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skyline", fresh.HitSong)

	_, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, server.Exists(key))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

/*
TestCachedRepository_RedisDown falls through to the wrapped store.
*/
func TestCachedRepository_RedisDown(t *testing.T) {
	ctx := context.Background()

	// Nothing listens on this address.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	memory := artist.NewMemoryRepository()
	repo := artist.NewCachedRepository(memory, client, time.Minute, discardLogger())

	created, err := memory.Create(ctx, newRecord("Aria"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.Update(ctx, created.ID, &artist.Patch{HitSong: ptr("Skyline")})
	assert.NoError(t, err)
}

// blockingRepository parks the first GetByID after it has read the record,
// until release is closed. Like a database driver it honours cancellation.
type blockingRepository struct {
	artist.Repository

	loaded  chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingRepository(next artist.Repository) *blockingRepository {
	return &blockingRepository{Repository: next, loaded: make(chan struct{}), release: make(chan struct{})}
}

func (repo *blockingRepository) GetByID(ctx context.Context, id string) (*artist.Artist, error) {
	found, err := repo.Repository.GetByID(ctx, id)

	first := false
	repo.once.Do(func() { first = true })
	if first {
		close(repo.loaded)
		<-repo.release
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return found, err
}

func newBlockedCache(t *testing.T) (*artist.CachedRepository, *blockingRepository, *miniredis.Miniredis, *artist.Artist) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	memory := artist.NewMemoryRepository()
	created, err := memory.Create(context.Background(), newRecord("Aria"))
	require.NoError(t, err)

	blocking := newBlockingRepository(memory)
	return artist.NewCachedRepository(blocking, client, time.Minute, discardLogger()), blocking, server, created
}

/*
TestCachedRepository_UpdateDuringFill never caches the record read before
a concurrent update.
*/
func TestCachedRepository_UpdateDuringFill(t *testing.T) {
	ctx := context.Background()
	repo, blocking, server, created := newBlockedCache(t)
	key := constants.RedisPrefixArtist + created.ID

	done := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(ctx, created.ID)
		done <- err
	}()

	<-blocking.loaded
	_, err := repo.Update(ctx, created.ID, &artist.Patch{HitSong: ptr("New Hit")})
	require.NoError(t, err)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.False(t, server.Exists(key))

	fresh, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Hit", fresh.HitSong)
	assert.True(t, server.Exists(key))

	cached, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Hit", cached.HitSong)
}

/*
TestCachedRepository_DeleteDuringFill leaves nothing behind for a deleted id.
*/
func TestCachedRepository_DeleteDuringFill(t *testing.T) {
	ctx := context.Background()
	repo, blocking, server, created := newBlockedCache(t)

	done := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(ctx, created.ID)
		done <- err
	}()

	<-blocking.loaded
	_, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.False(t, server.Exists(constants.RedisPrefixArtist+created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

/*
TestCachedRepository_CancelledCaller does not cancel the shared load.
*/
func TestCachedRepository_CancelledCaller(t *testing.T) {
	repo, blocking, server, created := newBlockedCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(ctx, created.ID)
		done <- err
	}()

	<-blocking.loaded
	cancel()
	close(blocking.release)

	assert.NoError(t, <-done)
	assert.True(t, server.Exists(constants.RedisPrefixArtist+created.ID))
}
