package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
)

// TaxonomyRepository manages entity types and tags.
type TaxonomyRepository struct {
	pool *pgxpool.Pool
}

// CreateType inserts a new entity type; duplicate names are ErrConflict.
func (r *TaxonomyRepository) CreateType(ctx context.Context, name, description string) (domain.EntityType, error) {
	const query = `
        INSERT INTO entity_types (name, description)
        VALUES ($1,$2)
        RETURNING id, name, description, created_at
    `
	var t domain.EntityType
	err := r.pool.QueryRow(ctx, query, name, description).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.EntityType{}, ErrConflict
		}
		return domain.EntityType{}, err
	}
	return t, nil
}

// GetTypeByID fetches a type by its identifier.
func (r *TaxonomyRepository) GetTypeByID(ctx context.Context, id string) (domain.EntityType, error) {
	var t domain.EntityType
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM entity_types WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.EntityType{}, ErrNotFound
		}
		return domain.EntityType{}, err
	}
	return t, nil
}

// ListTypes returns all entity types ordered by name.
func (r *TaxonomyRepository) ListTypes(ctx context.Context) ([]domain.EntityType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM entity_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.EntityType, 0)
	for rows.Next() {
		var t domain.EntityType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// DeleteType removes a type; its entities cascade with it.
func (r *TaxonomyRepository) DeleteType(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entity_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTag inserts a new tag; duplicate names are ErrConflict.
func (r *TaxonomyRepository) CreateTag(ctx context.Context, name string) (domain.EntityTag, error) {
	const query = `
        INSERT INTO entity_tags (name)
        VALUES ($1)
        RETURNING id, name, created_at
    `
	var t domain.EntityTag
	err := r.pool.QueryRow(ctx, query, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.EntityTag{}, ErrConflict
		}
		return domain.EntityTag{}, err
	}
	return t, nil
}

// ListTags returns all tags, or only those attached to entityID when it
// is non-empty, ordered by name.
func (r *TaxonomyRepository) ListTags(ctx context.Context, entityID string) ([]domain.EntityTag, error) {
	query := `SELECT id, name, created_at FROM entity_tags ORDER BY name ASC`
	args := []interface{}{}
	if entityID != "" {
		query = `
            SELECT t.id, t.name, t.created_at
            FROM entity_tags t
            JOIN entity_tag_links tl ON tl.tag_id = t.id
            WHERE tl.entity_id = $1
            ORDER BY t.name ASC
        `
		args = append(args, entityID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]domain.EntityTag, 0)
	for rows.Next() {
		var t domain.EntityTag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SetEntityTags replaces the tag set attached to an entity.
func (r *TaxonomyRepository) SetEntityTags(ctx context.Context, entityID string, tagIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM entity_tag_links WHERE entity_id = $1`, entityID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO entity_tag_links (tag_id, entity_id) VALUES ($1,$2)`, tagID, entityID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
