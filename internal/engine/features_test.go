package engine

import (
	"math"
	"testing"
)

func snap(id, name, desc, typeID string, scores [4]float64, likes int64, liked bool) Snapshot {
	return Snapshot{
		ID:          id,
		Name:        name,
		Description: desc,
		TypeID:      typeID,
		TypeName:    "type-" + typeID,
		Scores:      scores,
		LikeCount:   likes,
		LikedByUser: liked,
	}
}

func TestBuildFeatureSpace_RowOrderAndLookup(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "Chat helper", "answers questions", "t1", [4]float64{4, 4, 0, 0}, 3, true),
		snap("b", "Image painter", "draws pictures", "t2", [4]float64{0, 0, 5, 1}, 1, false),
		snap("c", "Chat painter", "answers pictures", "t1", [4]float64{2, 2, 2, 2}, 0, false),
	}

	fs := BuildFeatureSpace(snaps)
	if fs.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", fs.Size())
	}
	for i, s := range snaps {
		vec, ok := fs.Vector(s.ID)
		if !ok {
			t.Fatalf("Vector(%q) missing", s.ID)
		}
		if &vec[0] != &fs.vectors[i][0] {
			t.Fatalf("row order broken for %q", s.ID)
		}
	}
	if _, ok := fs.Vector("nope"); ok {
		t.Fatalf("Vector on unknown id should miss")
	}
}

func TestBuildFeatureSpace_NumericNormalization(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "one", "", "t1", [4]float64{5, 5, 5, 5}, 10, true),
		snap("b", "two", "", "t1", [4]float64{0, 0, 0, 0}, 0, false),
		snap("c", "three", "", "t1", [4]float64{2, 2, 2, 2}, 5, false),
	}

	fs := BuildFeatureSpace(snaps)
	dims := len(fs.vectors[0])
	base := dims - numericFeatures

	for i, vec := range fs.vectors {
		for col := base; col < dims; col++ {
			if vec[col] < 0 || vec[col] > 1 {
				t.Fatalf("row %d col %d = %v, want within [0,1]", i, col, vec[col])
			}
		}
	}

	// Extremes of each column map to 1 and 0.
	va, _ := fs.Vector("a")
	vb, _ := fs.Vector("b")
	if va[base] != 1 || vb[base] != 0 {
		t.Fatalf("score sum column not min-max normalized: a=%v b=%v", va[base], vb[base])
	}
	if va[base+1] != 1 || vb[base+1] != 0 {
		t.Fatalf("like count column not min-max normalized: a=%v b=%v", va[base+1], vb[base+1])
	}
	if va[base+2] != 1 || vb[base+2] != 0 {
		t.Fatalf("liked flag column not min-max normalized: a=%v b=%v", va[base+2], vb[base+2])
	}
}

func TestBuildFeatureSpace_ZeroVarianceColumnIsZero(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "one", "", "t1", [4]float64{3, 3, 3, 3}, 7, false),
		snap("b", "two", "", "t1", [4]float64{3, 3, 3, 3}, 7, false),
	}

	fs := BuildFeatureSpace(snaps)
	dims := len(fs.vectors[0])
	base := dims - numericFeatures
	for _, vec := range fs.vectors {
		for col := base; col < dims; col++ {
			if vec[col] != 0 {
				t.Fatalf("zero-variance col %d = %v, want 0", col, vec[col])
			}
		}
	}
}

func TestBuildFeatureSpace_TextBlockUnitNorm(t *testing.T) {
	snaps := []Snapshot{
		snap("a", "alpha beta", "gamma", "t1", [4]float64{}, 0, false),
		snap("b", "delta", "epsilon zeta", "t1", [4]float64{}, 0, false),
	}

	fs := BuildFeatureSpace(snaps)
	dims := len(fs.vectors[0])
	base := dims - numericFeatures
	for i, vec := range fs.vectors {
		var sum float64
		for _, x := range vec[:base] {
			sum += x * x
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-9 {
			t.Fatalf("row %d text block norm = %v, want 1", i, math.Sqrt(sum))
		}
	}
}

func TestBuildFeatureSpace_EmptyCollection(t *testing.T) {
	fs := BuildFeatureSpace(nil)
	if fs.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", fs.Size())
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("GPT-4, the Best! tool 2024")
	want := []string{"gpt", "4", "the", "best", "tool", "2024"}
	if len(got) != len(want) {
		t.Fatalf("tokenize returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
