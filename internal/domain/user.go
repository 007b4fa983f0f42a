package domain

import "time"

// User is owned by the external auth layer; it is carried here only for
// referential integrity and the staff flag.
type User struct {
	ID        string
	Username  string
	Phone     *string
	IsStaff   bool
	CreatedAt time.Time
}

// Like records that a user liked an entity. At most one Like may exist
// per (user, entity) pair.
type Like struct {
	UserID    string
	EntityID  string
	CreatedAt time.Time
}
