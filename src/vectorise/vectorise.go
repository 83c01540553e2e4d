// Package vectorise converts sequences to k-mer count (or frequency) vectors aligned to a vocabulary.
package vectorise

import (
	"fmt"

	"github.com/will-rowe/kmervec/src/kmer"
	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// SchemaMismatchError is returned when a sequence can't be vectorised against a vocabulary
type SchemaMismatchError struct {
	K      int
	Length int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sequence length (%d) is shorter than the vocabulary k-mer length (%d)", e.Length, e.K)
}

// Vectoriser counts the k-mers of sequences against a fixed vocabulary
//
// A Vectoriser holds no mutable state, so it can be shared between goroutines.
type Vectoriser struct {
	vocab     *vocabulary.Vocabulary
	normalise bool
}

// New is the Vectoriser constructor
func New(vocab *vocabulary.Vocabulary, normalise bool) *Vectoriser {
	return &Vectoriser{vocab: vocab, normalise: normalise}
}

// Vocabulary returns the vocabulary the vectors are aligned to
func (v *Vectoriser) Vocabulary() *vocabulary.Vocabulary {
	return v.vocab
}

// Normalise reports whether counts are converted to frequencies
func (v *Vectoriser) Normalise() bool {
	return v.normalise
}

// Check returns a SchemaMismatchError if the sequence is too short to vectorise
func (v *Vectoriser) Check(seq seqio.Sequence) error {
	if len(seq) < v.vocab.K() {
		return &SchemaMismatchError{K: v.vocab.K(), Length: len(seq)}
	}
	return nil
}

// Vectorise returns the feature vector for a sequence
//
// Entry i is the number of overlapping occurrences of column i. K-mers that have
// no column are not counted. When normalising, every count is divided by the total
// number of k-mers in the sequence (L-k+1), whether they had a column or not.
func (v *Vectoriser) Vectorise(seq seqio.Sequence) ([]float64, error) {
	vec := make([]float64, v.vocab.Len())
	if err := v.VectoriseInto(seq, vec); err != nil {
		return nil, err
	}
	return vec, nil
}

// VectoriseInto writes the feature vector for a sequence into vec, which must be zeroed and of vocabulary length
func (v *Vectoriser) VectoriseInto(seq seqio.Sequence, vec []float64) error {
	if err := v.Check(seq); err != nil {
		return err
	}
	if len(vec) != v.vocab.Len() {
		return fmt.Errorf("vector length (%d) does not match the vocabulary (%d columns)", len(vec), v.vocab.Len())
	}
	e, err := kmer.New(seq, v.vocab.K())
	if err != nil {
		return err
	}
	for it := e.Iterator(); it.Next(); {
		if i, ok := v.vocab.Locate(it); ok {
			vec[i]++
		}
	}
	if v.normalise {
		total := float64(e.Count())
		for i := range vec {
			vec[i] /= total
		}
	}
	return nil
}
