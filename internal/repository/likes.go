package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
)

// LikesRepository manages the (user, entity) like pairs.
type LikesRepository struct {
	pool *pgxpool.Pool
}

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Create records a like. A second like for the same (user, entity) pair
// returns ErrConflict and leaves the existing row untouched.
func (r *LikesRepository) Create(ctx context.Context, userID, entityID string) (domain.Like, error) {
	const query = `
        INSERT INTO likes (user_id, entity_id)
        VALUES ($1,$2)
        RETURNING user_id, entity_id, created_at
    `

	var like domain.Like
	err := r.pool.QueryRow(ctx, query, userID, entityID).Scan(&like.UserID, &like.EntityID, &like.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Like{}, ErrConflict
		}
		return domain.Like{}, err
	}
	return like, nil
}

// Delete removes a like; removing one that does not exist is ErrNotFound.
func (r *LikesRepository) Delete(ctx context.Context, userID, entityID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND entity_id = $2`, userID, entityID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether the user currently likes the entity.
func (r *LikesRepository) Exists(ctx context.Context, userID, entityID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND entity_id = $2)`,
		userID, entityID).Scan(&exists)
	return exists, err
}

// CountForEntity returns the number of likes an entity has received.
func (r *LikesRepository) CountForEntity(ctx context.Context, entityID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE entity_id = $1`, entityID).Scan(&count)
	return count, err
}

// ListForUser returns the entity ids a user has liked, newest first.
func (r *LikesRepository) ListForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT entity_id FROM likes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
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
