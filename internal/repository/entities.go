package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/engine"
)

// EntitiesRepository provides persistence helpers for catalog entities.
type EntitiesRepository struct {
	pool *pgxpool.Pool
}

const entityColumns = `
    id,
    name,
    description,
    url,
    type_id,
    score1,
    score2,
    score3,
    score4,
    created_at,
    updated_at
`

// entityColumnsAliased is entityColumns qualified for joined queries.
const entityColumnsAliased = `
    e.id,
    e.name,
    e.description,
    e.url,
    e.type_id,
    e.score1,
    e.score2,
    e.score3,
    e.score4,
    e.created_at,
    e.updated_at
`

// EntityCreateParams bundles the fields required to create an entity.
type EntityCreateParams struct {
	Name        string
	Description string
	URL         string
	TypeID      string
}

// EntityUpdateParams carries optional field updates; nil fields are left
// unchanged. Stored aggregates are never writable through this path.
type EntityUpdateParams struct {
	Name        *string
	Description *string
	URL         *string
	TypeID      *string
}

// EntityListFilters encapsulates list filtering and ordering options.
type EntityListFilters struct {
	TypeID   *string
	Ordering string
}

// EntityWithStats pairs an entity with its derived like count and type name.
type EntityWithStats struct {
	domain.Entity
	TypeName  string
	LikeCount int64
}

// orderingClauses is the fixed allow-list of list orderings. Unrecognized
// values fall back to the default ordering rather than erroring.
var orderingClauses = map[string]string{
	"average_score":  "(e.score1+e.score2+e.score3+e.score4)/4 ASC, e.id ASC",
	"-average_score": "(e.score1+e.score2+e.score3+e.score4)/4 DESC, e.id ASC",
	"like_count":     "like_count ASC, e.id ASC",
	"-like_count":    "like_count DESC, e.id ASC",
	"name":           "e.name ASC, e.id ASC",
	"-name":          "e.name DESC, e.id ASC",
}

// Create inserts a new entity row and returns the stored entity.
func (r *EntitiesRepository) Create(ctx context.Context, params EntityCreateParams) (domain.Entity, error) {
	query := fmt.Sprintf(`
        INSERT INTO entities (name, description, url, type_id)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, entityColumns)

	row := r.pool.QueryRow(ctx, query, params.Name, params.Description, params.URL, params.TypeID)
	return scanEntity(row)
}

// GetByID fetches an entity by its identifier.
func (r *EntitiesRepository) GetByID(ctx context.Context, id string) (domain.Entity, error) {
	query := fmt.Sprintf(`SELECT %s FROM entities WHERE id = $1`, entityColumns)
	entity, err := scanEntity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Entity{}, ErrNotFound
		}
		return domain.Entity{}, err
	}
	return entity, nil
}

// Update applies the non-nil fields of params to an entity.
func (r *EntitiesRepository) Update(ctx context.Context, id string, params EntityUpdateParams) (domain.Entity, error) {
	query := fmt.Sprintf(`
        UPDATE entities e
        SET name = COALESCE($2, name),
            description = COALESCE($3, description),
            url = COALESCE($4, url),
            type_id = COALESCE($5, type_id),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, entityColumns)

	entity, err := scanEntity(r.pool.QueryRow(ctx, query, id, params.Name, params.Description, params.URL, params.TypeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Entity{}, ErrNotFound
		}
		return domain.Entity{}, err
	}
	return entity, nil
}

// Delete removes an entity; ratings and likes cascade with it.
func (r *EntitiesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns entities matching the filters, each with like count and
// type name. Ordering values outside the allow-list are ignored and the
// default newest-first ordering applies.
func (r *EntitiesRepository) List(ctx context.Context, filters EntityListFilters) ([]EntityWithStats, error) {
	where := make([]string, 0, 1)
	args := make([]interface{}, 0, 1)
	if filters.TypeID != nil && *filters.TypeID != "" {
		args = append(args, *filters.TypeID)
		where = append(where, fmt.Sprintf("e.type_id = $%d", len(args)))
	}

	orderBy, ok := orderingClauses[filters.Ordering]
	if !ok {
		orderBy = "e.created_at DESC, e.id DESC"
	}

	qb := strings.Builder{}
	qb.WriteString("SELECT ")
	qb.WriteString(entityColumnsAliased)
	qb.WriteString(", t.name AS type_name, COUNT(l.entity_id) AS like_count")
	qb.WriteString(" FROM entities e")
	qb.WriteString(" JOIN entity_types t ON t.id = e.type_id")
	qb.WriteString(" LEFT JOIN likes l ON l.entity_id = e.id")
	if len(where) > 0 {
		qb.WriteString(" WHERE ")
		qb.WriteString(strings.Join(where, " AND "))
	}
	qb.WriteString(" GROUP BY e.id, t.name")
	qb.WriteString(" ORDER BY ")
	qb.WriteString(orderBy)

	rows, err := r.pool.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]EntityWithStats, 0)
	for rows.Next() {
		item, err := scanEntityWithStats(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Snapshots loads the full entity collection as engine input, in stable
// id-ascending order. userID marks the per-user liked flag; an empty
// userID means anonymous and leaves every flag false.
func (r *EntitiesRepository) Snapshots(ctx context.Context, userID string) ([]engine.Snapshot, error) {
	const query = `
        SELECT e.id, e.name, e.description, e.type_id, t.name,
               e.score1, e.score2, e.score3, e.score4,
               COUNT(l.entity_id) AS like_count,
               BOOL_OR(l.user_id::text = $1) AS liked
        FROM entities e
        JOIN entity_types t ON t.id = e.type_id
        LEFT JOIN likes l ON l.entity_id = e.id
        GROUP BY e.id, t.name
        ORDER BY e.id ASC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make([]engine.Snapshot, 0)
	for rows.Next() {
		var s engine.Snapshot
		var liked *bool
		err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.TypeID, &s.TypeName,
			&s.Scores[0], &s.Scores[1], &s.Scores[2], &s.Scores[3],
			&s.LikeCount, &liked,
		)
		if err != nil {
			return nil, err
		}
		if liked != nil {
			s.LikedByUser = *liked
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// TypeCount is one row of the per-type statistics surface.
type TypeCount struct {
	TypeID   string
	TypeName string
	Count    int64
}

// StatsByType counts entities per type, largest first.
func (r *EntitiesRepository) StatsByType(ctx context.Context) ([]TypeCount, error) {
	const query = `
        SELECT t.id, t.name, COUNT(e.id)
        FROM entity_types t
        LEFT JOIN entities e ON e.type_id = t.id
        GROUP BY t.id, t.name
        ORDER BY COUNT(e.id) DESC, t.name ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]TypeCount, 0)
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.TypeID, &tc.TypeName, &tc.Count); err != nil {
			return nil, err
		}
		stats = append(stats, tc)
	}
	return stats, rows.Err()
}

func scanEntity(row pgx.Row) (domain.Entity, error) {
	var (
		entity    domain.Entity
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Description,
		&entity.URL,
		&entity.TypeID,
		&entity.Scores[0],
		&entity.Scores[1],
		&entity.Scores[2],
		&entity.Scores[3],
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Entity{}, err
	}

	entity.CreatedAt = createdAt
	entity.UpdatedAt = updatedAt
	return entity, nil
}

func scanEntityWithStats(row pgx.Row) (EntityWithStats, error) {
	var item EntityWithStats
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.URL,
		&item.TypeID,
		&item.Scores[0],
		&item.Scores[1],
		&item.Scores[2],
		&item.Scores[3],
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.TypeName,
		&item.LikeCount,
	)
	if err != nil {
		return EntityWithStats{}, err
	}
	return item, nil
}
