// Package search provides the full-text index collaborator consumed by
// the search surface. The engine only sees an ordered candidate id set;
// how the text is indexed is this package's concern.
package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Index yields entity ids ranked by textual relevance for a query.
type Index interface {
	Lookup(ctx context.Context, query string) ([]string, error)
}

// PostgresIndex implements Index with Postgres full-text search over an
// entity's name, description, type name and tag names. The tsvector
// document is assembled at query time, so taxonomy edits need no
// reindex step; lookups scan the catalog, which stays small.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

// NewPostgresIndex constructs an Index backed by the given pool.
func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

// Lookup returns candidate entity ids ordered by ts_rank relevance,
// best match first. An empty result is not an error.
func (idx *PostgresIndex) Lookup(ctx context.Context, query string) ([]string, error) {
	const sql = `
        SELECT e.id
        FROM entities e
        JOIN entity_types t ON t.id = e.type_id
        LEFT JOIN entity_tag_links tl ON tl.entity_id = e.id
        LEFT JOIN entity_tags tag ON tag.id = tl.tag_id
        GROUP BY e.id, e.name, e.description, t.name
        HAVING to_tsvector('simple',
                   e.name || ' ' || e.description || ' ' || t.name || ' ' ||
                   COALESCE(string_agg(tag.name, ' '), ''))
               @@ plainto_tsquery('simple', $1)
        ORDER BY ts_rank(
            to_tsvector('simple',
                e.name || ' ' || e.description || ' ' || t.name || ' ' ||
                COALESCE(string_agg(tag.name, ' '), '')),
            plainto_tsquery('simple', $1)) DESC,
            e.id ASC
    `

	rows, err := idx.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("fulltext lookup: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
