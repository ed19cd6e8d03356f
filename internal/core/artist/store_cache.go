// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/artistphere/internal/platform/constants"
)

// CachedRepository puts a Redis read-through cache in front of another
// [Repository] for single-record reads by id.
//
// The cache is best effort: Redis failures are logged and the call falls
// through to the wrapped store. Every mutation bumps a per-id generation
// counter and deletes the affected key after the write succeeds.
type CachedRepository struct {
	Repository

	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewCachedRepository wraps next.
func NewCachedRepository(next Repository, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{Repository: next, client: client, ttl: ttl, logger: logger}
}

// errStaleFill aborts a cache fill that lost a race with a mutation.
var errStaleFill = errors.New("artist cache: generation changed during load")

func cacheKey(id string) string {
	return constants.RedisPrefixArtist + id
}

func generationKey(id string) string {
	return constants.RedisPrefixArtistGeneration + id
}

/*
GetByID serves from Redis when possible. Concurrent misses for the same id
share one load from the wrapped store.

The shared load does not inherit the caller's cancellation, so one caller
giving up does not fail the others waiting on it. The loaded record is only
written back if no mutation of that id happened while it was being read.

Returns:
  - *Artist: a copy owned by the caller
  - error: errors of the wrapped store
*/
func (repository *CachedRepository) GetByID(ctx context.Context, id string) (*Artist, error) {
	key := cacheKey(id)

	cached, err := repository.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var artist Artist
		if decodeErr := json.Unmarshal(cached, &artist); decodeErr == nil {
			return &artist, nil
		}
		repository.logger.WarnContext(ctx, "artist_cache_corrupt", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		repository.logger.WarnContext(ctx, "artist_cache_read_failed", slog.String("key", key), slog.Any("error", err))
	}

	loaded, err, _ := repository.group.Do(key, func() (any, error) {
		loadContext, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.StatementTimeout)
		defer cancel()

		// Read before the load so a concurrent mutation always changes it.
		generation, known := repository.generation(loadContext, id)

		artist, err := repository.Repository.GetByID(loadContext, id)
		if err != nil {
			return nil, err
		}
		if known {
			repository.fill(loadContext, artist, generation)
		}
		return artist, nil
	})
	if err != nil {
		return nil, err
	}
	return loaded.(*Artist).Clone(), nil
}

func (repository *CachedRepository) Update(context context.Context, id string, patch *Patch) (*Artist, error) {
	updated, err := repository.Repository.Update(context, id, patch)
	if err != nil {
		return nil, err
	}
	repository.invalidate(context, updated.ID)
	return updated, nil
}

func (repository *CachedRepository) UpdateByName(context context.Context, name string, patch *Patch) (*Artist, error) {
	updated, err := repository.Repository.UpdateByName(context, name, patch)
	if err != nil {
		return nil, err
	}
	repository.invalidate(context, updated.ID)
	return updated, nil
}

func (repository *CachedRepository) Upsert(context context.Context, artist *Artist, patch *Patch) (*Artist, bool, error) {
	stored, created, err := repository.Repository.Upsert(context, artist, patch)
	if err != nil {
		return nil, false, err
	}
	if !created {
		repository.invalidate(context, stored.ID)
	}
	return stored, created, nil
}

func (repository *CachedRepository) Delete(context context.Context, id string) (*Artist, error) {
	deleted, err := repository.Repository.Delete(context, id)
	if err != nil {
		return nil, err
	}
	repository.invalidate(context, id)
	return deleted, nil
}

// # Generations

// generation returns the current mutation counter of id. A missing counter
// reads as "". known is false when Redis could not be asked.
func (repository *CachedRepository) generation(ctx context.Context, id string) (value string, known bool) {
	value, err := repository.client.Get(ctx, generationKey(id)).Result()
	switch {
	case err == nil:
		return value, true
	case errors.Is(err, redis.Nil):
		return "", true
	default:
		repository.logger.WarnContext(ctx, "artist_cache_read_failed", slog.String("id", id), slog.Any("error", err))
		return "", false
	}
}

// fill writes artist back under WATCH on its generation key, and skips the
// write when the generation moved since it was read.
func (repository *CachedRepository) fill(ctx context.Context, artist *Artist, generation string) {
	encoded, err := json.Marshal(artist)
	if err != nil {
		return
	}

	watched := generationKey(artist.ID)
	err = repository.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, watched).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(artist.ID), encoded, repository.ttl)
			return nil
		})
		return err
	}, watched)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		repository.logger.DebugContext(ctx, "artist_cache_fill_skipped", slog.String("id", artist.ID))
	default:
		repository.logger.WarnContext(ctx, "artist_cache_write_failed", slog.String("id", artist.ID), slog.Any("error", err))
	}
}

// invalidate bumps the generation of id and drops its entry. It runs even if
// the caller's context is already cancelled, since the store write happened.
func (repository *CachedRepository) invalidate(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)

	_, err := repository.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), repository.ttl+constants.StatementTimeout)
		pipe.Del(ctx, cacheKey(id))
		return nil
	})
	if err != nil {
		repository.logger.WarnContext(ctx, "artist_cache_invalidate_failed", slog.String("id", id), slog.Any("error", err))
	}
}
