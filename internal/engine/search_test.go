package engine

import "testing"

func searchFixture() []Snapshot {
	return []Snapshot{
		snap("a", "Writer", "", "t1", [4]float64{4, 4, 4, 4}, 2, false),
		snap("b", "Artist", "", "t2", [4]float64{2, 2, 2, 2}, 9, false),
		snap("c", "Coder", "", "t1", [4]float64{3, 3, 3, 3}, 5, false),
		snap("d", "Helper", "", "t3", [4]float64{5, 5, 5, 5}, 0, false),
	}
}

func ids(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.ID
	}
	return out
}

func assertOrder(t *testing.T, got []Snapshot, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("got %v, want %v", ids(got), want)
		}
	}
}

func TestSearch_KeepsCandidateOrderByDefault(t *testing.T) {
	// Candidate order is the index's relevance order.
	results := Search(searchFixture(), []string{"c", "a", "d"}, SearchOptions{})
	assertOrder(t, results, "c", "a", "d")
}

func TestSearch_SkipsUnknownCandidates(t *testing.T) {
	results := Search(searchFixture(), []string{"zz", "b"}, SearchOptions{})
	assertOrder(t, results, "b")
}

func TestSearch_TypeFilter(t *testing.T) {
	results := Search(searchFixture(), []string{"a", "b", "c", "d"}, SearchOptions{TypeID: "t1"})
	assertOrder(t, results, "a", "c")
}

func TestSearch_Orderings(t *testing.T) {
	all := []string{"a", "b", "c", "d"}
	tests := []struct {
		ordering string
		want     []string
	}{
		{"average_score", []string{"b", "c", "a", "d"}},
		{"-average_score", []string{"d", "a", "c", "b"}},
		{"like_count", []string{"d", "a", "c", "b"}},
		{"-like_count", []string{"b", "c", "a", "d"}},
		{"name", []string{"b", "c", "d", "a"}},
		{"-name", []string{"a", "d", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.ordering, func(t *testing.T) {
			results := Search(searchFixture(), all, SearchOptions{Ordering: tt.ordering})
			assertOrder(t, results, tt.want...)
		})
	}
}

func TestSearch_UnknownOrderingIgnored(t *testing.T) {
	results := Search(searchFixture(), []string{"d", "b", "a"}, SearchOptions{Ordering: "random_nonsense"})
	assertOrder(t, results, "d", "b", "a")
}

func TestSearch_OrderingTiesStable(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "Same", "", "t1", [4]float64{3, 3, 3, 3}, 1, false),
		snap("b", "Same", "", "t2", [4]float64{3, 3, 3, 3}, 1, false),
	}
	results := Search(snaps, []string{"a", "b"}, SearchOptions{Ordering: "-average_score"})
	assertOrder(t, results, "a", "b")
}

func TestSearch_EmptyCandidates(t *testing.T) {
	results := Search(searchFixture(), nil, SearchOptions{})
	if len(results) != 0 {
		t.Fatalf("got %v, want empty", ids(results))
	}
}
