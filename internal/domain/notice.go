package domain

import "time"

// Notice is a site-wide announcement; only staff may create or change one.
type Notice struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
}
