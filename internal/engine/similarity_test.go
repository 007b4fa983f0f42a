package engine

import (
	"errors"
	"testing"
)

func TestSimilarTo_ExcludesTarget(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "chat assistant", "talks a lot", "t1", [4]float64{4, 4, 0, 0}, 5, false),
		snap("b", "chat assistant", "talks a lot", "t1", [4]float64{4, 4, 0, 0}, 5, false),
		snap("c", "image maker", "paints", "t2", [4]float64{0, 0, 5, 0}, 1, false),
	}

	for _, target := range []string{"a", "b", "c"} {
		results, err := SimilarTo(snaps, target, 3)
		if err != nil {
			t.Fatalf("SimilarTo(%q): %v", target, err)
		}
		for _, r := range results {
			if r.Snapshot.ID == target {
				t.Fatalf("SimilarTo(%q) contains the target", target)
			}
		}
	}
}

func TestSimilarTo_RanksTextualTwins(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "chat assistant", "conversational helper", "t1", [4]float64{}, 0, false),
		snap("b", "chat assistant", "conversational helper", "t1", [4]float64{}, 0, false),
		snap("c", "spreadsheet wizard", "crunches numbers", "t2", [4]float64{}, 0, false),
	}

	results, err := SimilarTo(snaps, "a", 2)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Snapshot.ID != "b" {
		t.Fatalf("most similar = %q, want b", results[0].Snapshot.ID)
	}
	if results[0].Similarity <= results[1].Similarity {
		t.Fatalf("similarities not descending: %v then %v", results[0].Similarity, results[1].Similarity)
	}
}

func TestSimilarTo_TiesKeepInputOrder(t *testing.T) {
	// b and c are identical, so both tie against target a; b must come
	// first because snapshots arrive id-ascending.
	snaps := []Snapshot{
		snap("a", "alpha tool", "shared words here", "t1", [4]float64{}, 0, false),
		snap("b", "beta tool", "shared words here", "t1", [4]float64{}, 0, false),
		snap("c", "beta tool", "shared words here", "t1", [4]float64{}, 0, false),
	}

	results, err := SimilarTo(snaps, "a", 2)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}
	if len(results) != 2 || results[0].Snapshot.ID != "b" || results[1].Snapshot.ID != "c" {
		t.Fatalf("tie order broken: %+v", results)
	}
}

func TestSimilarTo_UnknownTarget(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "alpha", "", "t1", [4]float64{}, 0, false),
	}
	if _, err := SimilarTo(snaps, "missing", 3); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestSimilarTo_DegenerateCollections(t *testing.T) {
	single := []Snapshot{snap("a", "alpha", "", "t1", [4]float64{}, 0, false)}
	results, err := SimilarTo(single, "a", 3)
	if err != nil {
		t.Fatalf("single entity: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("single entity should yield empty result, got %d", len(results))
	}

	// All-empty text and flat numerics leave the target vector at zero.
	zero := []Snapshot{
		snap("a", "", "", "t1", [4]float64{}, 0, false),
		snap("b", "", "", "t1", [4]float64{}, 0, false),
	}
	results, err = SimilarTo(zero, "a", 3)
	if err != nil {
		t.Fatalf("zero vectors: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("zero-vector target should yield empty result, got %d", len(results))
	}
}

func TestSimilarTo_TruncatesToK(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "common words", "", "t1", [4]float64{}, 0, false),
		snap("b", "common words", "", "t1", [4]float64{}, 0, false),
		snap("c", "common words", "", "t1", [4]float64{}, 0, false),
		snap("d", "common words", "", "t1", [4]float64{}, 0, false),
		snap("e", "common words", "", "t1", [4]float64{}, 0, false),
	}

	results, err := SimilarTo(snaps, "a", 3)
	if err != nil {
		t.Fatalf("SimilarTo: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
}
