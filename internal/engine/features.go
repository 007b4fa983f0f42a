package engine

import (
	"math"
	"strings"
	"unicode"
)

// numericFeatures is the width of the behavioral block appended to each
// text vector: aggregate score sum, like count, liked-by-user flag.
const numericFeatures = 3

// FeatureSpace holds one combined feature vector per entity, row order
// matching the snapshot order it was built from. The text block is a
// TF-IDF embedding of name+description; the numeric block is min-max
// normalized to [0,1] per column. Nothing is cached: every build fits a
// fresh vocabulary so the space always reflects the latest collection.
type FeatureSpace struct {
	ids     []string
	rows    map[string]int
	vectors [][]float64
}

// BuildFeatureSpace computes the combined text+numeric feature matrix
// over the snapshot collection. O(n) in collection size per call.
func BuildFeatureSpace(snaps []Snapshot) *FeatureSpace {
	fs := &FeatureSpace{
		ids:     make([]string, len(snaps)),
		rows:    make(map[string]int, len(snaps)),
		vectors: make([][]float64, len(snaps)),
	}

	// Term frequencies per document and document frequencies for the
	// fresh vocabulary.
	vocab := make(map[string]int)
	docFreq := make(map[string]int)
	termCounts := make([]map[string]int, len(snaps))
	for i, s := range snaps {
		tf := make(map[string]int)
		for _, term := range tokenize(s.Name + " " + s.Description) {
			tf[term]++
		}
		for term := range tf {
			if _, ok := vocab[term]; !ok {
				vocab[term] = len(vocab)
			}
			docFreq[term]++
		}
		termCounts[i] = tf
	}

	textDims := len(vocab)
	n := float64(len(snaps))

	// Smoothed IDF, sklearn-style: ln((1+n)/(1+df)) + 1.
	idf := make([]float64, textDims)
	for term, dim := range vocab {
		idf[dim] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for i, s := range snaps {
		vec := make([]float64, textDims+numericFeatures)
		for term, count := range termCounts[i] {
			dim := vocab[term]
			vec[dim] = float64(count) * idf[dim]
		}
		l2Normalize(vec[:textDims])

		vec[textDims] = s.scoreSum()
		vec[textDims+1] = float64(s.LikeCount)
		if s.LikedByUser {
			vec[textDims+2] = 1
		}

		fs.ids[i] = s.ID
		fs.rows[s.ID] = i
		fs.vectors[i] = vec
	}

	for col := 0; col < numericFeatures; col++ {
		minMaxNormalizeColumn(fs.vectors, textDims+col)
	}

	return fs
}

// Vector returns the combined feature vector for an entity id.
func (fs *FeatureSpace) Vector(id string) ([]float64, bool) {
	row, ok := fs.rows[id]
	if !ok {
		return nil, false
	}
	return fs.vectors[row], true
}

// Size returns the number of entities in the space.
func (fs *FeatureSpace) Size() int {
	return len(fs.vectors)
}

// tokenize splits text into lowercase alphanumeric terms.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// l2Normalize scales a vector slice to unit length in place.
func l2Normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// minMaxNormalizeColumn rescales one matrix column to [0,1]. A column
// with zero variance normalizes to the constant 0.
func minMaxNormalizeColumn(vectors [][]float64, col int) {
	if len(vectors) == 0 {
		return
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vec := range vectors {
		if vec[col] < lo {
			lo = vec[col]
		}
		if vec[col] > hi {
			hi = vec[col]
		}
	}
	span := hi - lo
	for _, vec := range vectors {
		if span == 0 {
			vec[col] = 0
			continue
		}
		vec[col] = (vec[col] - lo) / span
	}
}

// cosineSimilarity computes the cosine of the angle between two equal
// length vectors; zero vectors have similarity 0.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
