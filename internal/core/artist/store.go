// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import "context"

/*
Repository is the record store contract.

Every implementation enforces name uniqueness atomically: of two concurrent
writes that would produce the same name, exactly one succeeds and the other
returns DUPLICATE_NAME (or, for Upsert, becomes an update of the winner).

Errors are already classified: NOT_FOUND, DUPLICATE_NAME,
STORAGE_UNAVAILABLE or INTERNAL_ERROR.
*/
type Repository interface {
	// List returns one page ordered by createdAt descending and the total count.
	List(context context.Context, limit, offset int) ([]*Artist, int, error)
	GetByID(context context.Context, id string) (*Artist, error)
	GetByName(context context.Context, name string) (*Artist, error)

	// Create assigns the id and timestamps of artist and persists it.
	Create(context context.Context, artist *Artist) (*Artist, error)

	// Update merges patch into the record with the given id.
	Update(context context.Context, id string, patch *Patch) (*Artist, error)
	UpdateByName(context context.Context, name string, patch *Patch) (*Artist, error)

	// Upsert inserts artist, or applies patch to the record that already
	// holds artist.Name. The bool reports whether a record was inserted.
	Upsert(context context.Context, artist *Artist, patch *Patch) (*Artist, bool, error)

	// Delete hard-removes the record and returns it as it was.
	Delete(context context.Context, id string) (*Artist, error)
}
