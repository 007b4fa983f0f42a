package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yyybbbyyyb/aiverse-backend/internal/store"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness violation, e.g. a duplicate like.
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Entities   *EntitiesRepository
	Ratings    *RatingsRepository
	Likes      *LikesRepository
	Taxonomy   *TaxonomyRepository
	Notices    *NoticesRepository
	Users      *UsersRepository
	PhoneCodes *PhoneCodesRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Entities:   &EntitiesRepository{pool: pool},
		Ratings:    &RatingsRepository{pool: pool},
		Likes:      &LikesRepository{pool: pool},
		Taxonomy:   &TaxonomyRepository{pool: pool},
		Notices:    &NoticesRepository{pool: pool},
		Users:      &UsersRepository{pool: pool},
		PhoneCodes: &PhoneCodesRepository{pool: pool},
	}
}
