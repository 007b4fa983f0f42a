package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/store"
)

// RatingsRepository persists ratings and keeps the per-entity aggregate
// scores in step with them. Every mutation runs the triggering write and
// the aggregate recomputation inside one transaction; if either fails
// the whole mutation rolls back.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

const ratingColumns = `
    id,
    entity_id,
    author_id,
    content,
    kind,
    score1,
    score2,
    score3,
    score4,
    created_at
`

// RatingCreateParams captures the payload required to create a rating.
type RatingCreateParams struct {
	EntityID string
	AuthorID string
	Content  string
	Kind     int16
	Scores   [4]int
}

// RatingUpdateParams carries optional updates; nil fields stay unchanged.
type RatingUpdateParams struct {
	Content *string
	Kind    *int16
	Scores  *[4]int
}

// Create inserts a rating and refreshes the target entity's aggregates
// in the same transaction.
func (r *RatingsRepository) Create(ctx context.Context, params RatingCreateParams) (domain.Rating, error) {
	var rating domain.Rating
	err := store.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
            INSERT INTO ratings (entity_id, author_id, content, kind, score1, score2, score3, score4)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
            RETURNING %s
        `, ratingColumns)

		row := tx.QueryRow(ctx, query,
			params.EntityID, params.AuthorID, params.Content, params.Kind,
			params.Scores[0], params.Scores[1], params.Scores[2], params.Scores[3])
		var err error
		rating, err = scanRating(row)
		if err != nil {
			return fmt.Errorf("insert rating: %w", err)
		}
		return recomputeAggregates(ctx, tx, rating.EntityID)
	})
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// Update applies the non-nil fields of params to a rating and refreshes
// the target entity's aggregates in the same transaction.
func (r *RatingsRepository) Update(ctx context.Context, id string, params RatingUpdateParams) (domain.Rating, error) {
	var rating domain.Rating
	err := store.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var s1, s2, s3, s4 *int
		if params.Scores != nil {
			s1, s2, s3, s4 = &params.Scores[0], &params.Scores[1], &params.Scores[2], &params.Scores[3]
		}

		query := fmt.Sprintf(`
            UPDATE ratings
            SET content = COALESCE($2, content),
                kind = COALESCE($3, kind),
                score1 = COALESCE($4, score1),
                score2 = COALESCE($5, score2),
                score3 = COALESCE($6, score3),
                score4 = COALESCE($7, score4)
            WHERE id = $1
            RETURNING %s
        `, ratingColumns)

		row := tx.QueryRow(ctx, query, id, params.Content, params.Kind, s1, s2, s3, s4)
		var err error
		rating, err = scanRating(row)
		if err != nil {
			if err == pgx.ErrNoRows {
				return ErrNotFound
			}
			return fmt.Errorf("update rating: %w", err)
		}
		return recomputeAggregates(ctx, tx, rating.EntityID)
	})
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// Delete removes a rating and refreshes the target entity's aggregates
// in the same transaction. The entity reference is taken from the row
// before it disappears.
func (r *RatingsRepository) Delete(ctx context.Context, id string) error {
	return store.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		var entityID string
		err := tx.QueryRow(ctx, `DELETE FROM ratings WHERE id = $1 RETURNING entity_id`, id).Scan(&entityID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return ErrNotFound
			}
			return fmt.Errorf("delete rating: %w", err)
		}
		return recomputeAggregates(ctx, tx, entityID)
	})
}

// GetByID fetches a rating by its identifier.
func (r *RatingsRepository) GetByID(ctx context.Context, id string) (domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE id = $1`, ratingColumns)
	rating, err := scanRating(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// ListByEntity returns an entity's ratings, newest first. A non-nil
// kind narrows the result to that rating kind.
func (r *RatingsRepository) ListByEntity(ctx context.Context, entityID string, kind *int16) ([]domain.Rating, error) {
	where := []string{"entity_id = $1"}
	args := []interface{}{entityID}
	if kind != nil {
		args = append(args, *kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s FROM ratings
        WHERE %s
        ORDER BY created_at DESC, id DESC
    `, ratingColumns, strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// Recompute refreshes an entity's stored aggregates outside of a rating
// mutation, for callers that changed rating rows through another path.
func (r *RatingsRepository) Recompute(ctx context.Context, entityID string) error {
	return store.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		return recomputeAggregates(ctx, tx, entityID)
	})
}

// recomputeAggregates is the single authoritative aggregate derivation:
// each stored score column becomes the mean of the matching rating
// sub-score over all ratings targeting the entity, or 0 with no ratings.
func recomputeAggregates(ctx context.Context, tx pgx.Tx, entityID string) error {
	// Lock the entity row first so concurrent mutations on the same
	// entity serialize and the AVG below always sees the latest
	// committed ratings. NO KEY UPDATE matters: the rating INSERT's FK
	// check already holds KEY SHARE on this row, and FOR UPDATE would
	// conflict with it, letting two in-flight creates deadlock on the
	// lock upgrade.
	var one int
	if err := tx.QueryRow(ctx, `SELECT 1 FROM entities WHERE id = $1 FOR NO KEY UPDATE`, entityID).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("lock entity: %w", err)
	}

	const query = `
        UPDATE entities
        SET score1 = agg.s1,
            score2 = agg.s2,
            score3 = agg.s3,
            score4 = agg.s4,
            updated_at = now()
        FROM (
            SELECT COALESCE(AVG(score1), 0) AS s1,
                   COALESCE(AVG(score2), 0) AS s2,
                   COALESCE(AVG(score3), 0) AS s3,
                   COALESCE(AVG(score4), 0) AS s4
            FROM ratings
            WHERE entity_id = $1
        ) agg
        WHERE entities.id = $1
    `

	if _, err := tx.Exec(ctx, query, entityID); err != nil {
		return fmt.Errorf("recompute aggregates: %w", err)
	}
	return nil
}

func scanRating(row pgx.Row) (domain.Rating, error) {
	var rating domain.Rating
	err := row.Scan(
		&rating.ID,
		&rating.EntityID,
		&rating.AuthorID,
		&rating.Content,
		&rating.Kind,
		&rating.Scores[0],
		&rating.Scores[1],
		&rating.Scores[2],
		&rating.Scores[3],
		&rating.CreatedAt,
	)
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}
