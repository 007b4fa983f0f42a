package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
)

// UsersRepository carries the minimal user surface this service needs:
// account rows are owned by the external auth layer, but likes, ratings
// and notices reference them and the staff flag gates notice mutation.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a user row; duplicate usernames or phones are ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, username string, phone *string, isStaff bool) (domain.User, error) {
	const query = `
        INSERT INTO users (username, phone, is_staff)
        VALUES ($1,$2,$3)
        RETURNING id, username, phone, is_staff, created_at
    `
	var u domain.User
	err := r.pool.QueryRow(ctx, query, username, phone, isStaff).
		Scan(&u.ID, &u.Username, &u.Phone, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, phone, is_staff, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Phone, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// GetByPhone fetches a user by phone number.
func (r *UsersRepository) GetByPhone(ctx context.Context, phone string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, phone, is_staff, created_at FROM users WHERE phone = $1`, phone).
		Scan(&u.ID, &u.Username, &u.Phone, &u.IsStaff, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
