package domain

import "time"

// EntityType categorizes entities; every entity belongs to exactly one type.
type EntityType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// EntityTag is a free-form label attached to any number of entities.
type EntityTag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Entity represents a catalogued AI tool. Scores hold the stored
// per-dimension rating aggregates; they are written only by the rating
// mutation path and trusted at read time.
type Entity struct {
	ID          string
	Name        string
	Description string
	URL         string
	TypeID      string
	Scores      [4]float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AverageScore is the mean of the four stored dimension aggregates.
func (e Entity) AverageScore() float64 {
	return (e.Scores[0] + e.Scores[1] + e.Scores[2] + e.Scores[3]) / 4
}
