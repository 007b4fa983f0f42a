package engine

import "sort"

// SimilarTo ranks entities by cosine similarity to the target within a
// freshly built feature space and returns the top k, excluding the
// target itself. Ties keep the input (id-ascending) snapshot order. An
// unknown target is ErrEntityNotFound; a degenerate collection (fewer
// than two entities, or an all-zero target vector) yields an empty
// result, not an error.
func SimilarTo(snaps []Snapshot, targetID string, k int) ([]SimilarResult, error) {
	fs := BuildFeatureSpace(snaps)

	target, ok := fs.Vector(targetID)
	if !ok {
		return nil, ErrEntityNotFound
	}
	if fs.Size() < 2 {
		return []SimilarResult{}, nil
	}
	if isZero(target) {
		return []SimilarResult{}, nil
	}

	results := make([]SimilarResult, 0, len(snaps)-1)
	for i, s := range snaps {
		if s.ID == targetID {
			continue
		}
		results = append(results, SimilarResult{
			Snapshot:   s,
			Similarity: cosineSimilarity(target, fs.vectors[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
