package domain

import "time"

// Rating kinds mirror the review form: a short remark or a full review.
const (
	RatingKindShort = 0
	RatingKindLong  = 1
)

// Rating is a user review of an entity carrying four bounded sub-scores,
// one per evaluation dimension (math, language, image, text).
type Rating struct {
	ID        string
	EntityID  string
	AuthorID  string
	Content   string
	Kind      int16
	Scores    [4]int
	CreatedAt time.Time
}
