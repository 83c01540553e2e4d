// Package vocabulary builds the ordered, frozen set of columns that feature vectors are aligned to.
//
// A vocabulary is either observed (the distinct features of a training corpus, in first-seen or
// lexical order) or exhaustive (every possible feature for k, in lexical order). Once built it
// can't be changed, so it can be shared by any number of goroutines.
package vocabulary

import (
	"fmt"
	"math"
	"sort"

	"github.com/will-rowe/kmervec/src/kmer"
	"github.com/will-rowe/kmervec/src/seqio"
)

// Vocabulary is the column schema for a set of feature vectors
type Vocabulary struct {
	k       int
	mode    Mode
	order   Order
	feature Feature
	size    int

	// columns and index are nil for an exhaustive k-mer vocabulary, which is
	// addressed by the 2-bit k-mer code instead
	columns []string
	index   map[string]int
}

// K returns the k-mer size the vocabulary was built for
func (v *Vocabulary) K() int { return v.k }

// Mode returns how the vocabulary was built
func (v *Vocabulary) Mode() Mode { return v.mode }

// Order returns the column order of the vocabulary
func (v *Vocabulary) Order() Order { return v.order }

// Feature returns what the columns count
func (v *Vocabulary) Feature() Feature { return v.feature }

// Len returns the number of columns
func (v *Vocabulary) Len() int { return v.size }

// Column returns the name of column i
func (v *Vocabulary) Column(i int) string {
	if v.columns == nil {
		return kmer.Decode(uint64(i), v.k)
	}
	return v.columns[i]
}

// Columns returns a copy of the column names, in order
func (v *Vocabulary) Columns() []string {
	if v.columns == nil {
		columns := make([]string, v.size)
		for i := range columns {
			columns[i] = kmer.Decode(uint64(i), v.k)
		}
		return columns
	}
	return append([]string(nil), v.columns...)
}

// Key returns the column name a k-mer is counted under
func (v *Vocabulary) Key(kmerSeq string) string {
	if v.feature == Composition {
		return kmer.Composition(kmerSeq)
	}
	return kmerSeq
}

// Index returns the position of a column name
func (v *Vocabulary) Index(key string) (int, bool) {
	if v.columns == nil {
		if len(key) != v.k {
			return 0, false
		}
		code, err := kmer.Encode(key)
		if err != nil {
			return 0, false
		}
		return int(code), true
	}
	i, ok := v.index[key]
	return i, ok
}

// Locate returns the column of the k-mer currently under an iterator
func (v *Vocabulary) Locate(it *kmer.Iterator) (int, bool) {
	if v.columns == nil {
		return int(it.Code()), true
	}
	i, ok := v.index[v.Key(it.Kmer())]
	return i, ok
}

// Equal reports whether two vocabularies define the same columns in the same order
func (v *Vocabulary) Equal(other *Vocabulary) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.k != other.k || v.feature != other.feature || v.size != other.size {
		return false
	}
	if v.columns == nil && other.columns == nil {
		return true
	}
	for i := 0; i < v.size; i++ {
		if v.Column(i) != other.Column(i) {
			return false
		}
	}
	return true
}

// Subset returns a new vocabulary holding only the given columns, keep must be strictly ascending
func (v *Vocabulary) Subset(keep []int) (*Vocabulary, error) {
	columns := make([]string, len(keep))
	for i, col := range keep {
		if col < 0 || col >= v.size {
			return nil, fmt.Errorf("column %d is out of range for a vocabulary of %d columns", col, v.size)
		}
		if i > 0 && col <= keep[i-1] {
			return nil, fmt.Errorf("columns to keep must be in ascending order (%d follows %d)", col, keep[i-1])
		}
		columns[i] = v.Column(col)
	}
	return newVocabulary(v.k, v.mode, v.order, v.feature, columns), nil
}

// newVocabulary creates a vocabulary with explicit columns, the caller hands over the slice
func newVocabulary(k int, mode Mode, order Order, feature Feature, columns []string) *Vocabulary {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	return &Vocabulary{
		k:       k,
		mode:    mode,
		order:   order,
		feature: feature,
		size:    len(columns),
		columns: columns,
		index:   index,
	}
}

// Builder collects the distinct features of a corpus for an observed vocabulary
type Builder struct {
	opts    Options
	seen    map[string]struct{}
	columns []string
	kmers   int
}

// NewBuilder is the Builder constructor
func NewBuilder(opts Options) (*Builder, error) {
	if opts.K < 1 {
		return nil, &kmer.InvalidKError{K: opts.K}
	}
	if opts.Mode != Observed {
		return nil, fmt.Errorf("a vocabulary builder can only be used in observed mode")
	}
	return &Builder{
		opts: opts,
		seen: make(map[string]struct{}),
	}, nil
}

// Add streams the k-mers of a sequence into the builder
func (b *Builder) Add(seq seqio.Sequence) error {
	e, err := kmer.New(seq, b.opts.K)
	if err != nil {
		return err
	}
	for it := e.Iterator(); it.Next(); {
		b.add(it.Kmer())
	}
	return nil
}

// AddKmer adds a single k-mer, which must be k upper case A/C/G/T bases
func (b *Builder) AddKmer(kmerSeq string) error {
	if len(kmerSeq) != b.opts.K {
		return fmt.Errorf("k-mer %v has length %d, vocabulary k is %d", kmerSeq, len(kmerSeq), b.opts.K)
	}
	if seq, err := seqio.Normalise(kmerSeq, seqio.PolicyReject); err != nil || string(seq) != kmerSeq {
		return fmt.Errorf("k-mer %v is not made of upper case A\\C\\T\\G bases", kmerSeq)
	}
	b.add(kmerSeq)
	return nil
}

func (b *Builder) add(kmerSeq string) {
	b.kmers++
	key := kmerSeq
	if b.opts.Feature == Composition {
		key = kmer.Composition(kmerSeq)
	}
	if _, ok := b.seen[key]; ok {
		return
	}
	// copy the key so the vocabulary doesn't pin the source sequence in memory
	key = string(append([]byte(nil), key...))
	b.seen[key] = struct{}{}
	b.columns = append(b.columns, key)
}

// Build freezes the features added so far into a vocabulary
func (b *Builder) Build() (*Vocabulary, error) {
	if b.kmers == 0 {
		return nil, &EmptyCorpusError{K: b.opts.K}
	}
	columns := append([]string(nil), b.columns...)
	if b.opts.Order == Lexical {
		sort.Strings(columns)
	}
	return newVocabulary(b.opts.K, Observed, b.opts.Order, b.opts.Feature, columns), nil
}

// BuildObserved builds an observed vocabulary from a corpus, sequences are read in the order given
func BuildObserved(seqs []seqio.Sequence, opts Options) (*Vocabulary, error) {
	opts.Mode = Observed
	b, err := NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	for i, seq := range seqs {
		if err := b.Add(seq); err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
	}
	return b.Build()
}

// BuildExhaustive builds the vocabulary of every possible feature for k, in lexical order
//
// The column count is checked against the ceiling before anything is allocated.
func BuildExhaustive(opts Options) (*Vocabulary, error) {
	if opts.K < 1 {
		return nil, &kmer.InvalidKError{K: opts.K}
	}
	size := ExhaustiveSize(opts.K, opts.Feature)
	if ceiling := opts.maxColumns(); size > ceiling {
		return nil, &VocabularySizeError{K: opts.K, Columns: size, Max: ceiling}
	}
	if opts.Feature == Composition {
		return newVocabulary(opts.K, Exhaustive, Lexical, Composition, kmer.CompositionKeys(opts.K)), nil
	}
	return &Vocabulary{
		k:       opts.K,
		mode:    Exhaustive,
		order:   Lexical,
		feature: Kmer,
		size:    int(size),
	}, nil
}

// Build builds a vocabulary from a corpus according to the options mode
func Build(seqs []seqio.Sequence, opts Options) (*Vocabulary, error) {
	if opts.Mode == Exhaustive {
		return BuildExhaustive(opts)
	}
	return BuildObserved(seqs, opts)
}

// ExhaustiveSize returns the number of columns in an exhaustive vocabulary, math.MaxUint64 if it overflows
func ExhaustiveSize(k int, feature Feature) uint64 {
	if feature == Composition {
		if k > 1<<20 {
			return math.MaxUint64
		}
		return kmer.NumCompositions(k)
	}
	if k > kmer.MaxEncodableK {
		return math.MaxUint64
	}
	return uint64(1) << uint64(2*k)
}
