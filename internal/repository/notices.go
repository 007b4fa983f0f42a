package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
)

// NoticesRepository persists site-wide announcements.
type NoticesRepository struct {
	pool *pgxpool.Pool
}

const noticeColumns = `id, author_id, title, content, created_at`

// Create inserts a new notice.
func (r *NoticesRepository) Create(ctx context.Context, authorID, title, content string) (domain.Notice, error) {
	query := fmt.Sprintf(`
        INSERT INTO notices (author_id, title, content)
        VALUES ($1,$2,$3)
        RETURNING %s
    `, noticeColumns)
	return scanNotice(r.pool.QueryRow(ctx, query, authorID, title, content))
}

// Update changes a notice's title and/or content.
func (r *NoticesRepository) Update(ctx context.Context, id string, title, content *string) (domain.Notice, error) {
	query := fmt.Sprintf(`
        UPDATE notices
        SET title = COALESCE($2, title),
            content = COALESCE($3, content)
        WHERE id = $1
        RETURNING %s
    `, noticeColumns)
	notice, err := scanNotice(r.pool.QueryRow(ctx, query, id, title, content))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Notice{}, ErrNotFound
		}
		return domain.Notice{}, err
	}
	return notice, nil
}

// Delete removes a notice.
func (r *NoticesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all notices, newest first.
func (r *NoticesRepository) List(ctx context.Context) ([]domain.Notice, error) {
	query := fmt.Sprintf(`SELECT %s FROM notices ORDER BY created_at DESC, id DESC`, noticeColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notices := make([]domain.Notice, 0)
	for rows.Next() {
		notice, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, notice)
	}
	return notices, rows.Err()
}

func scanNotice(row pgx.Row) (domain.Notice, error) {
	var n domain.Notice
	err := row.Scan(&n.ID, &n.AuthorID, &n.Title, &n.Content, &n.CreatedAt)
	if err != nil {
		return domain.Notice{}, err
	}
	return n, nil
}
