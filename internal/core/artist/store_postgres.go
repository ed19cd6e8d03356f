// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/artistphere/internal/platform/apperr"
	"github.com/taibuivan/artistphere/internal/platform/database/schema"
	"github.com/taibuivan/artistphere/internal/platform/dberr"
	"github.com/taibuivan/artistphere/pkg/pointer"
	"github.com/taibuivan/artistphere/pkg/uuid"
)

// PostgresRepository implements [Repository] on the artists table. Name
// uniqueness is the artists_name_key constraint.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	artistColumns = strings.Join(schema.Artist.Columns(), ", ")

	// patchColumns are the columns a Patch can replace, in argument order.
	patchColumns = []string{
		schema.Artist.Name, schema.Artist.ImageRef, schema.Artist.Bio,
		schema.Artist.Paragraph1, schema.Artist.Paragraph2, schema.Artist.Paragraph3,
		schema.Artist.HitSong, schema.Artist.Charity, schema.Artist.AboutCharity,
	}
)

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Artist, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.Artist.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, classify(err, "count_artists", "")
	}
	if offset < 0 || offset >= total {
		return []*Artist{}, total, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2
	`, artistColumns, schema.Artist.Table, schema.Artist.CreatedAt, schema.Artist.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, classify(err, "list_artists", "")
	}
	defer rows.Close()

	artists := make([]*Artist, 0, limit)
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, 0, classify(err, "scan_artist", "")
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err, "list_artists", "")
	}

	return artists, total, nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, artistColumns, schema.Artist.Table, schema.Artist.ID)

	artist, err := scanArtist(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, classify(err, "get_artist", "")
	}
	return artist, nil
}

func (repository *PostgresRepository) GetByName(context context.Context, name string) (*Artist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, artistColumns, schema.Artist.Table, schema.Artist.Name)

	artist, err := scanArtist(repository.db.QueryRow(context, query, name))
	if err != nil {
		return nil, classify(err, "get_artist_by_name", name)
	}
	return artist, nil
}

func (repository *PostgresRepository) Create(context context.Context, artist *Artist) (*Artist, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, NOW(), NOW())
		RETURNING %s
	`, schema.Artist.Table, artistColumns, artistColumns)

	args, err := insertArgs(artist)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	created, err := scanArtist(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, classify(err, "create_artist", artist.Name)
	}
	return created, nil
}

func (repository *PostgresRepository) Update(context context.Context, id string, patch *Patch) (*Artist, error) {
	return repository.update(context, schema.Artist.ID, id, patch)
}

func (repository *PostgresRepository) UpdateByName(context context.Context, name string, patch *Patch) (*Artist, error) {
	return repository.update(context, schema.Artist.Name, name, patch)
}

func (repository *PostgresRepository) update(context context.Context, keyColumn, key string, patch *Patch) (*Artist, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`, schema.Artist.Table, patchAssignments(2), schema.Artist.UpdatedAt, keyColumn, artistColumns)

	args, err := patchArgs(patch)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	updated, err := scanArtist(repository.db.QueryRow(context, query, append([]any{key}, args...)...))
	if err != nil {
		return nil, classify(err, "update_artist", pointer.Val(patch.Name))
	}
	return updated, nil
}

/*
Upsert inserts artist or, when its name is already taken, merges patch into
the existing record. A single INSERT ... ON CONFLICT statement makes the
check-and-write atomic.

Returns:
  - *Artist: the stored record
  - bool: true when the row was inserted
  - error: classified storage errors
*/
func (repository *PostgresRepository) Upsert(context context.Context, artist *Artist, patch *Patch) (*Artist, bool, error) {
	insertArgCount := len(schema.Artist.Columns()) - 2
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT %s DO UPDATE
		SET %s, %s = NOW()
		RETURNING %s, (xmax = 0) AS inserted
	`,
		schema.Artist.Table, artistColumns,
		schema.Artist.NameConstraint,
		patchAssignments(insertArgCount+1), schema.Artist.UpdatedAt,
		artistColumns,
	)

	args, err := insertArgs(artist)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}
	updateArgs, err := patchArgs(patch)
	if err != nil {
		return nil, false, apperr.Internal(err)
	}

	var inserted bool
	stored, err := scanArtist(repository.db.QueryRow(context, query, append(args, updateArgs...)...), &inserted)
	if err != nil {
		return nil, false, classify(err, "upsert_artist", artist.Name)
	}
	return stored, inserted, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) (*Artist, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`, schema.Artist.Table, schema.Artist.ID, artistColumns)

	deleted, err := scanArtist(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, classify(err, "delete_artist", "")
	}
	return deleted, nil
}

// # Helpers

// scanArtist reads one row in [schema.ArtistTable.Columns] order, followed by
// any extra destinations.
func scanArtist(row pgx.Row, extra ...any) (*Artist, error) {
	artist := &Artist{}
	destinations := append([]any{
		&artist.ID, &artist.Name, &artist.ImageRef, &artist.Bio,
		&artist.Paragraph1, &artist.Paragraph2, &artist.Paragraph3,
		&artist.HitSong, &artist.Charity, &artist.AboutCharity,
		&artist.PlatformLinks, &artist.CreatedAt, &artist.UpdatedAt,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	artist.PlatformLinks = artist.PlatformLinks.Complete()
	return artist, nil
}

// insertArgs returns $1..$11 for an INSERT of every non-timestamp column.
func insertArgs(artist *Artist) ([]any, error) {
	id := artist.ID
	if id == "" {
		id = uuid.New()
	}
	links, err := json.Marshal(artist.PlatformLinks.Complete())
	if err != nil {
		return nil, fmt.Errorf("encode platform links: %w", err)
	}
	return []any{
		id, artist.Name, artist.ImageRef, artist.Bio,
		artist.Paragraph1, artist.Paragraph2, artist.Paragraph3,
		artist.HitSong, artist.Charity, artist.AboutCharity,
		string(links),
	}, nil
}

// patchAssignments renders "col = COALESCE($n, table.col)" for every patch
// column plus the JSONB merge of platform links, numbering from first.
func patchAssignments(first int) string {
	assignments := make([]string, 0, len(patchColumns)+1)
	for i, column := range patchColumns {
		assignments = append(assignments, fmt.Sprintf("%s = COALESCE($%d, %s.%s)", column, first+i, schema.Artist.Table, column))
	}
	assignments = append(assignments, fmt.Sprintf("%s = %s.%s || $%d::jsonb",
		schema.Artist.PlatformLinks, schema.Artist.Table, schema.Artist.PlatformLinks, first+len(patchColumns)))
	return strings.Join(assignments, ",\n\t\t\t")
}

// patchArgs matches [patchAssignments]. Nil pointers bind as NULL.
func patchArgs(patch *Patch) ([]any, error) {
	links := []byte("{}")
	if len(patch.PlatformLinks) > 0 {
		encoded, err := json.Marshal(patch.PlatformLinks)
		if err != nil {
			return nil, fmt.Errorf("encode platform links: %w", err)
		}
		links = encoded
	}
	return []any{
		patch.Name, patch.ImageRef, patch.Bio,
		patch.Paragraph1, patch.Paragraph2, patch.Paragraph3,
		patch.HitSong, patch.Charity, patch.AboutCharity,
		string(links),
	}, nil
}

// classify maps a pgx error to the artist error taxonomy.
func classify(err error, action, name string) error {
	err = dberr.Wrap(err, action)

	var violation *dberr.UniqueViolation
	if errors.As(err, &violation) {
		if violation.Constraint == schema.Artist.NameConstraint {
			return apperr.DuplicateName(name)
		}
		return apperr.Internal(violation)
	}

	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound("Artist")
	}
	return err
}
