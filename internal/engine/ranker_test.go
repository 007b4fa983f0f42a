package engine

import "testing"

func TestTopByDimension_QualityOrder(t *testing.T) {
	// Scenario: A, B, C of distinct types, average scores 5, 3, 1.
	snaps := []Snapshot{
		snap("a", "A", "", "t1", [4]float64{5, 5, 5, 5}, 0, false),
		snap("b", "B", "", "t2", [4]float64{3, 3, 3, 3}, 0, false),
		snap("c", "C", "", "t3", [4]float64{1, 1, 1, 1}, 0, false),
	}

	picks := TopByDimension(snaps, DimensionQuality, 2)
	if len(picks) != 2 {
		t.Fatalf("got %d picks, want 2", len(picks))
	}
	if picks[0].Snapshot.ID != "a" || picks[1].Snapshot.ID != "b" {
		t.Fatalf("picks = [%s, %s], want [a, b]", picks[0].Snapshot.ID, picks[1].Snapshot.ID)
	}
	if picks[0].Reason != "type-t1 high score" {
		t.Fatalf("reason = %q", picks[0].Reason)
	}
}

func TestTopByDimension_PopularityOrder(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "A", "", "t1", [4]float64{}, 2, false),
		snap("b", "B", "", "t2", [4]float64{}, 9, false),
		snap("c", "C", "", "t3", [4]float64{}, 4, false),
	}

	picks := TopByDimension(snaps, DimensionPopularity, 3)
	want := []string{"b", "c", "a"}
	if len(picks) != 3 {
		t.Fatalf("got %d picks, want 3", len(picks))
	}
	for i, id := range want {
		if picks[i].Snapshot.ID != id {
			t.Fatalf("pick %d = %s, want %s", i, picks[i].Snapshot.ID, id)
		}
	}
	if picks[0].Reason != "type-t2 high likes" {
		t.Fatalf("reason = %q", picks[0].Reason)
	}
}

func TestTopByDimension_OnePerType(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "A", "", "t1", [4]float64{5, 5, 5, 5}, 0, false),
		snap("b", "B", "", "t1", [4]float64{4, 4, 4, 4}, 0, false),
		snap("c", "C", "", "t2", [4]float64{3, 3, 3, 3}, 0, false),
		snap("d", "D", "", "t2", [4]float64{2, 2, 2, 2}, 0, false),
		snap("e", "E", "", "t3", [4]float64{1, 1, 1, 1}, 0, false),
	}

	picks := TopByDimension(snaps, DimensionQuality, 5)
	seen := make(map[string]bool)
	for _, p := range picks {
		if seen[p.Snapshot.TypeID] {
			t.Fatalf("type %s accepted twice", p.Snapshot.TypeID)
		}
		seen[p.Snapshot.TypeID] = true
	}
	if len(picks) != 3 {
		t.Fatalf("got %d picks, want 3 (one per type)", len(picks))
	}
	want := []string{"a", "c", "e"}
	for i, id := range want {
		if picks[i].Snapshot.ID != id {
			t.Fatalf("pick %d = %s, want %s", i, picks[i].Snapshot.ID, id)
		}
	}
}

func TestTopByDimension_TieBreakKeepsInputOrder(t *testing.T) {
	// Equal scores: the id-ascending input order decides.
	snaps := []Snapshot{
		snap("a", "A", "", "t1", [4]float64{3, 3, 3, 3}, 0, false),
		snap("b", "B", "", "t2", [4]float64{3, 3, 3, 3}, 0, false),
	}

	picks := TopByDimension(snaps, DimensionQuality, 2)
	if picks[0].Snapshot.ID != "a" || picks[1].Snapshot.ID != "b" {
		t.Fatalf("tie-break broken: [%s, %s]", picks[0].Snapshot.ID, picks[1].Snapshot.ID)
	}
}

func TestTopByDimension_Degenerate(t *testing.T) {
	if picks := TopByDimension(nil, DimensionQuality, 3); len(picks) != 0 {
		t.Fatalf("nil snaps should yield empty picks")
	}
	snaps := []Snapshot{snap("a", "A", "", "t1", [4]float64{}, 0, false)}
	if picks := TopByDimension(snaps, DimensionQuality, 0); len(picks) != 0 {
		t.Fatalf("k=0 should yield empty picks")
	}
}

func TestRecommend_ConcatenatesDimensions(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "A", "", "t1", [4]float64{5, 5, 5, 5}, 0, false),
		snap("b", "B", "", "t2", [4]float64{1, 1, 1, 1}, 9, false),
	}

	recs := Recommend(snaps, 1)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Snapshot.ID != "a" || recs[0].Reason != "type-t1 high score" {
		t.Fatalf("quality slot wrong: %+v", recs[0])
	}
	if recs[1].Snapshot.ID != "b" || recs[1].Reason != "type-t2 high likes" {
		t.Fatalf("popularity slot wrong: %+v", recs[1])
	}
}
