// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/pkg/uuid"
)

// MemoryRepository implements [Repository] in process memory. One mutex
// guards both the records and the name index, so uniqueness checks and
// writes are atomic.
type MemoryRepository struct {
	mutex  sync.RWMutex
	byID   map[string]*memoryRecord
	byName map[string]string
	seq    uint64
	now    func() time.Time
}

type memoryRecord struct {
	artist *Artist
	seq    uint64
}

// NewMemoryRepository creates an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*memoryRecord),
		byName: make(map[string]string),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (repository *MemoryRepository) List(context context.Context, limit, offset int) ([]*Artist, int, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	records := make([]*memoryRecord, 0, len(repository.byID))
	for _, record := range repository.byID {
		records = append(records, record)
	}

	// Newest first; the insertion sequence breaks timestamp ties.
	sort.Slice(records, func(i, j int) bool {
		left, right := records[i], records[j]
		if !left.artist.CreatedAt.Equal(right.artist.CreatedAt) {
			return left.artist.CreatedAt.After(right.artist.CreatedAt)
		}
		return left.seq > right.seq
	})

	total := len(records)
	if offset < 0 || offset >= total {
		return []*Artist{}, total, nil
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}

	page := make([]*Artist, 0, end-offset)
	for _, record := range records[offset:end] {
		page = append(page, record.artist.Clone())
	}
	return page, total, nil
}

func (repository *MemoryRepository) GetByID(context context.Context, id string) (*Artist, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	record, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}
	return record.artist.Clone(), nil
}

func (repository *MemoryRepository) GetByName(context context.Context, name string) (*Artist, error) {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()

	id, ok := repository.byName[name]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}
	return repository.byID[id].artist.Clone(), nil
}

func (repository *MemoryRepository) Create(context context.Context, artist *Artist) (*Artist, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if _, taken := repository.byName[artist.Name]; taken {
		return nil, apperr.DuplicateName(artist.Name)
	}
	return repository.insertLocked(artist), nil
}

func (repository *MemoryRepository) Update(context context.Context, id string, patch *Patch) (*Artist, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	return repository.updateLocked(id, patch)
}

func (repository *MemoryRepository) UpdateByName(context context.Context, name string, patch *Patch) (*Artist, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	id, ok := repository.byName[name]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}
	return repository.updateLocked(id, patch)
}

func (repository *MemoryRepository) Upsert(context context.Context, artist *Artist, patch *Patch) (*Artist, bool, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	if id, taken := repository.byName[artist.Name]; taken {
		updated, err := repository.updateLocked(id, patch)
		return updated, false, err
	}
	return repository.insertLocked(artist), true, nil
}

func (repository *MemoryRepository) Delete(context context.Context, id string) (*Artist, error) {
	repository.mutex.Lock()
	defer repository.mutex.Unlock()

	record, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}
	delete(repository.byID, id)
	delete(repository.byName, record.artist.Name)
	return record.artist.Clone(), nil
}

// Len returns the number of stored records.
func (repository *MemoryRepository) Len() int {
	repository.mutex.RLock()
	defer repository.mutex.RUnlock()
	return len(repository.byID)
}

func (repository *MemoryRepository) insertLocked(artist *Artist) *Artist {
	stored := artist.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New()
	}
	now := repository.now()
	stored.CreatedAt, stored.UpdatedAt = now, now

	repository.seq++
	repository.byID[stored.ID] = &memoryRecord{artist: stored, seq: repository.seq}
	repository.byName[stored.Name] = stored.ID
	return stored.Clone()
}

func (repository *MemoryRepository) updateLocked(id string, patch *Patch) (*Artist, error) {
	record, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Artist")
	}

	next := patch.Apply(record.artist)
	if next.Name != record.artist.Name {
		if _, taken := repository.byName[next.Name]; taken {
			return nil, apperr.DuplicateName(next.Name)
		}
		delete(repository.byName, record.artist.Name)
		repository.byName[next.Name] = id
	}
	next.UpdatedAt = repository.now()

	record.artist = next
	return next.Clone(), nil
}
