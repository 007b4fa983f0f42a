package engine

import "sort"

// TopByDimension greedily selects up to k entities ranked by the given
// dimension, accepting at most one entity per type. Equal scores keep a
// deterministic order: the stable sort preserves the id-ascending input
// order, so the lowest id wins the tie.
func TopByDimension(snaps []Snapshot, dim Dimension, k int) []Recommendation {
	if k <= 0 || len(snaps) == 0 {
		return []Recommendation{}
	}

	ranked := make([]Snapshot, len(snaps))
	copy(ranked, snaps)

	switch dim {
	case DimensionPopularity:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].LikeCount > ranked[j].LikeCount
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].AverageScore() > ranked[j].AverageScore()
		})
	}

	seenTypes := make(map[string]struct{}, k)
	picks := make([]Recommendation, 0, k)
	for _, s := range ranked {
		if _, seen := seenTypes[s.TypeID]; seen {
			continue
		}
		seenTypes[s.TypeID] = struct{}{}
		picks = append(picks, Recommendation{
			Snapshot: s,
			Reason:   reasonFor(s.TypeName, dim),
		})
		if len(picks) == k {
			break
		}
	}
	return picks
}

// Recommend produces the combined recommendation surface: the top k per
// dimension for quality, then popularity, concatenated.
func Recommend(snaps []Snapshot, k int) []Recommendation {
	out := TopByDimension(snaps, DimensionQuality, k)
	return append(out, TopByDimension(snaps, DimensionPopularity, k)...)
}

func reasonFor(typeName string, dim Dimension) string {
	if dim == DimensionPopularity {
		return typeName + " high likes"
	}
	return typeName + " high score"
}
