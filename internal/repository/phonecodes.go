package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrCodeMismatch indicates the submitted verification code is wrong.
var ErrCodeMismatch = errors.New("repository: code mismatch")

// PhoneCodesRepository stores short-lived SMS verification codes, one
// active code per phone number.
type PhoneCodesRepository struct {
	pool *pgxpool.Pool
}

// Put stores a code for a phone, replacing any earlier one.
func (r *PhoneCodesRepository) Put(ctx context.Context, phone, code string, ttl time.Duration) error {
	const query = `
        INSERT INTO phone_codes (phone, code, expires_at)
        VALUES ($1,$2,$3)
        ON CONFLICT (phone)
        DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
    `
	_, err := r.pool.Exec(ctx, query, phone, code, time.Now().Add(ttl))
	return err
}

// Verify checks a submitted code. A missing or expired code is
// ErrNotFound; a wrong code is ErrCodeMismatch. A correct code is
// consumed so it cannot be replayed.
func (r *PhoneCodesRepository) Verify(ctx context.Context, phone, code string) error {
	var stored string
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT code, expires_at FROM phone_codes WHERE phone = $1`, phone).
		Scan(&stored, &expiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if time.Now().After(expiresAt) {
		_, _ = r.pool.Exec(ctx, `DELETE FROM phone_codes WHERE phone = $1`, phone)
		return ErrNotFound
	}
	if stored != code {
		return ErrCodeMismatch
	}

	_, err = r.pool.Exec(ctx, `DELETE FROM phone_codes WHERE phone = $1`, phone)
	return err
}
