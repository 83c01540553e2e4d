// Package kmer decomposes normalised sequences into overlapping k-mers.
package kmer

import (
	"fmt"

	"github.com/will-rowe/kmervec/src/seqio"
)

// MaxEncodableK is the largest k that fits the 2-bit encoding in a uint64
const MaxEncodableK = 31

// InvalidKError is returned when k is out of bounds for a sequence
type InvalidKError struct {
	K      int
	Length int
}

func (e *InvalidKError) Error() string {
	if e.K < 1 {
		return fmt.Sprintf("invalid k-mer size: %d (must be at least 1)", e.K)
	}
	return fmt.Sprintf("invalid k-mer size: %d is greater than the sequence length (%d)", e.K, e.Length)
}

// Extractor yields the k-mers of a single sequence
type Extractor struct {
	seq seqio.Sequence
	k   int
}

// New is the Extractor constructor, it checks that 1 <= k <= len(seq)
func New(seq seqio.Sequence, k int) (*Extractor, error) {
	if k < 1 || k > len(seq) {
		return nil, &InvalidKError{K: k, Length: len(seq)}
	}
	return &Extractor{seq: seq, k: k}, nil
}

// K returns the k-mer size
func (e *Extractor) K() int {
	return e.k
}

// Count returns the number of k-mers the extractor will yield (L-k+1)
func (e *Extractor) Count() int {
	return len(e.seq) - e.k + 1
}

// Iterator returns a new iterator, positioned before the first k-mer
func (e *Extractor) Iterator() *Iterator {
	it := &Iterator{
		seq: string(e.seq),
		k:   e.k,
	}
	if e.k <= MaxEncodableK {
		it.bitmask = (uint64(1) << uint64(2*e.k)) - uint64(1)
	}
	it.Reset()
	return it
}

// Kmers returns all of the k-mers in left to right order
func (e *Extractor) Kmers() []string {
	kmers := make([]string, 0, e.Count())
	for it := e.Iterator(); it.Next(); {
		kmers = append(kmers, it.Kmer())
	}
	return kmers
}

// Iterator slides a window of length k along a sequence, one base at a time
//
// An Iterator is not safe for concurrent use, but any number of iterators can
// be taken from the same Extractor.
type Iterator struct {
	seq     string
	k       int
	pos     int
	code    uint64
	bitmask uint64
}

// Reset moves the iterator back to before the first k-mer
func (it *Iterator) Reset() {
	it.pos = -1
	it.code = 0
}

// Next advances the window, returning false once the final k-mer has been passed
func (it *Iterator) Next() bool {
	if it.pos+it.k >= len(it.seq) {
		it.pos = len(it.seq) - it.k + 1
		return false
	}
	it.pos++
	if it.bitmask == 0 {
		return true
	}

	// the first window is encoded in full, after that the code is rolled on by a base
	if it.pos == 0 {
		for i := 0; i < it.k; i++ {
			it.code = (it.code<<2 | uint64(seqNT4table[it.seq[i]])) & it.bitmask
		}
	} else {
		it.code = (it.code<<2 | uint64(seqNT4table[it.seq[it.pos+it.k-1]])) & it.bitmask
	}
	return true
}

// Kmer returns the k-mer under the current window
func (it *Iterator) Kmer() string {
	return it.seq[it.pos : it.pos+it.k]
}

// Pos returns the start position of the current window
func (it *Iterator) Pos() int {
	return it.pos
}

// Code returns the 2-bit encoding of the current k-mer, this is always 0 when k > MaxEncodableK
func (it *Iterator) Code() uint64 {
	return it.code
}
