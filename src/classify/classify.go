// Package classify contains a nearest-centroid classifier for k-mer feature vectors.
package classify

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vectorise"
	"github.com/will-rowe/kmervec/src/version"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// Model is a trained nearest-centroid classifier, along with the vocabulary its centroids are aligned to
type Model struct {
	Version    string                 `msgpack:"version"`
	Vocabulary *vocabulary.Vocabulary `msgpack:"vocabulary"`
	Normalised bool                   `msgpack:"normalised"`
	Classes    []string               `msgpack:"classes"`   // sorted
	Centroids  [][]float64            `msgpack:"centroids"` // one per class
	Counts     []int                  `msgpack:"counts"`    // training rows per class
}

// Train computes the mean feature vector of each class in the dataset
func Train(ds *dataset.Dataset) (*Model, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("can't train on an empty dataset")
	}
	classes := ds.Classes()
	lookup := make(map[string]int, len(classes))
	for i, class := range classes {
		lookup[class] = i
	}
	width := ds.Vocabulary.Len()
	centroids := make([][]float64, len(classes))
	for i := range centroids {
		centroids[i] = make([]float64, width)
	}
	counts := make([]int, len(classes))
	for row, vec := range ds.Matrix {
		if len(vec) != width {
			return nil, fmt.Errorf("row %d has %d columns, vocabulary has %d", row, len(vec), width)
		}
		c := lookup[ds.Labels[row]]
		counts[c]++
		for j, v := range vec {
			centroids[c][j] += v
		}
	}
	for c, centroid := range centroids {
		for j := range centroid {
			centroid[j] /= float64(counts[c])
		}
	}
	return &Model{
		Version:    version.GetVersion(),
		Vocabulary: ds.Vocabulary,
		Normalised: ds.Normalised,
		Classes:    classes,
		Centroids:  centroids,
		Counts:     counts,
	}, nil
}

// Predict returns the class whose centroid has the highest cosine similarity to the vector, and that similarity
//
// Ties go to the first class in sorted order.
func (m *Model) Predict(vec []float64) (string, float64, error) {
	if len(vec) != m.Vocabulary.Len() {
		return "", 0, fmt.Errorf("vector has %d columns, model vocabulary has %d", len(vec), m.Vocabulary.Len())
	}
	best, bestScore := 0, math.Inf(-1)
	for c, centroid := range m.Centroids {
		score := cosine(vec, centroid)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return m.Classes[best], bestScore, nil
}

// Classify cleans a raw sequence, vectorises it with the model vocabulary and predicts its class
func (m *Model) Classify(raw string, policy seqio.Policy) (string, float64, error) {
	seq, err := seqio.Normalise(raw, policy)
	if err != nil {
		return "", 0, err
	}
	vec, err := vectorise.New(m.Vocabulary, m.Normalised).Vectorise(seq)
	if err != nil {
		return "", 0, err
	}
	return m.Predict(vec)
}

// cosine returns the cosine similarity of two vectors, 0 if either has no magnitude
func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Dump writes the model (and its vocabulary) to file
func (m *Model) Dump(path string) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a model from file
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("model file appears empty: %v", path)
	}
	m := &Model{Vocabulary: &vocabulary.Vocabulary{}}
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if m.Vocabulary.Len() == 0 || len(m.Classes) == 0 || len(m.Classes) != len(m.Centroids) {
		return nil, fmt.Errorf("model file is corrupted: %v", path)
	}
	for _, centroid := range m.Centroids {
		if len(centroid) != m.Vocabulary.Len() {
			return nil, fmt.Errorf("model centroids do not match the vocabulary: %v", path)
		}
	}
	return m, nil
}
