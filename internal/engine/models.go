package engine

import "errors"

// ErrEntityNotFound is returned when a similarity target is not part of
// the snapshot collection.
var ErrEntityNotFound = errors.New("engine: entity not found")

// Snapshot is the engine's read-only view of one entity: identity, the
// indexed text, the stored rating aggregates and the behavioral signals
// for the requesting user. Callers supply snapshots in stable
// id-ascending order; the engine preserves that order for tie-breaks.
type Snapshot struct {
	ID          string
	Name        string
	Description string
	TypeID      string
	TypeName    string
	Scores      [4]float64
	LikeCount   int64
	LikedByUser bool
}

// AverageScore is the mean of the four stored dimension aggregates.
func (s Snapshot) AverageScore() float64 {
	return (s.Scores[0] + s.Scores[1] + s.Scores[2] + s.Scores[3]) / 4
}

// scoreSum feeds the numeric feature block.
func (s Snapshot) scoreSum() float64 {
	return s.Scores[0] + s.Scores[1] + s.Scores[2] + s.Scores[3]
}

// Dimension selects the ranking signal for the diversity ranker.
type Dimension string

const (
	// DimensionQuality ranks by average aggregate score.
	DimensionQuality Dimension = "quality"
	// DimensionPopularity ranks by like count.
	DimensionPopularity Dimension = "popularity"
)

// Recommendation pairs a ranked entity with a human-readable reason.
type Recommendation struct {
	Snapshot Snapshot
	Reason   string
}

// SimilarResult pairs an entity with its cosine similarity to the target.
type SimilarResult struct {
	Snapshot   Snapshot
	Similarity float64
}
