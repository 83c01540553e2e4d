package vocabulary

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/kmervec/src/kmer"
	"github.com/will-rowe/kmervec/src/seqio"
)

var corpus = []seqio.Sequence{"ACGT", "ACGA"}

func TestObservedExample(t *testing.T) {
	// corpus [ACGT, ACGA] gives AC, CG, GT then GA (CG and AC already seen)
	v, err := BuildObserved(corpus, Options{K: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"AC", "CG", "GT", "GA"}, v.Columns())
	assert.Equal(t, Observed, v.Mode())
	assert.Equal(t, FirstSeen, v.Order())
	assert.Equal(t, 2, v.K())
	i, ok := v.Index("GA")
	assert.True(t, ok)
	assert.Equal(t, 3, i)
	_, ok = v.Index("TT")
	assert.False(t, ok)
}

func TestObservedLexical(t *testing.T) {
	v, err := BuildObserved([]seqio.Sequence{"TTGCA"}, Options{K: 2, Order: Lexical})
	require.NoError(t, err)
	assert.Equal(t, []string{"CA", "GC", "TG", "TT"}, v.Columns())
	assert.Equal(t, Lexical, v.Order())
}

func TestObservedMatchesCorpus(t *testing.T) {
	seqs := []seqio.Sequence{"ACTGCGTGCGTGAAACGTGCACGTGACGTG", "GGGGCCCCAAAATTTT", "ACGTTGCA"}
	for k := 1; k <= 6; k++ {
		v, err := BuildObserved(seqs, Options{K: k})
		require.NoError(t, err)

		distinct := map[string]bool{}
		for _, s := range seqs {
			e, err := kmer.New(s, k)
			require.NoError(t, err)
			for _, km := range e.Kmers() {
				distinct[km] = true
			}
		}
		assert.Equal(t, len(distinct), v.Len(), "k=%d", k)
		for _, col := range v.Columns() {
			assert.True(t, distinct[col], "k=%d: column %v is not in the corpus", k, col)
		}
	}
}

func TestEmptyCorpus(t *testing.T) {
	_, err := BuildObserved(nil, Options{K: 3})
	var empty *EmptyCorpusError
	require.True(t, errors.As(err, &empty), "expected EmptyCorpusError, got %v", err)
	assert.Equal(t, 3, empty.K)
}

func TestObservedShortSequence(t *testing.T) {
	_, err := BuildObserved([]seqio.Sequence{"ACGT", "AC"}, Options{K: 3})
	var invalid *kmer.InvalidKError
	require.True(t, errors.As(err, &invalid), "expected InvalidKError, got %v", err)
}

func TestBuilderStream(t *testing.T) {
	b, err := NewBuilder(Options{K: 2})
	require.NoError(t, err)
	require.NoError(t, b.AddKmer("GT"))
	require.NoError(t, b.AddKmer("AC"))
	require.NoError(t, b.AddKmer("GT"))
	assert.Error(t, b.AddKmer("ACG"))
	assert.Error(t, b.AddKmer("NN"))
	assert.Error(t, b.AddKmer("ac"))
	v, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"GT", "AC"}, v.Columns())

	_, err = NewBuilder(Options{K: 0})
	assert.Error(t, err)
	_, err = NewBuilder(Options{K: 2, Mode: Exhaustive})
	assert.Error(t, err)
}

func TestExhaustive(t *testing.T) {
	for k := 1; k <= 6; k++ {
		v, err := BuildExhaustive(Options{K: k})
		require.NoError(t, err)
		assert.Equal(t, 1<<(2*k), v.Len(), "k=%d", k)
		columns := v.Columns()
		assert.True(t, sort.StringsAreSorted(columns), "k=%d: exhaustive columns are not lexical", k)
		for i, col := range columns {
			idx, ok := v.Index(col)
			require.True(t, ok)
			require.Equal(t, i, idx)
		}
	}
	v, err := BuildExhaustive(Options{K: 2})
	require.NoError(t, err)
	assert.Equal(t, "AA", v.Column(0))
	assert.Equal(t, "TT", v.Column(15))
	_, ok := v.Index("ACG")
	assert.False(t, ok)
}

func TestExhaustiveCeiling(t *testing.T) {
	_, err := BuildExhaustive(Options{K: 15})
	var size *VocabularySizeError
	require.True(t, errors.As(err, &size), "expected VocabularySizeError, got %v", err)
	assert.Equal(t, uint64(1)<<30, size.Columns)
	assert.Equal(t, uint64(DefaultMaxColumns), size.Max)

	_, err = BuildExhaustive(Options{K: 40})
	require.True(t, errors.As(err, &size))

	_, err = BuildExhaustive(Options{K: 4, MaxColumns: 100})
	require.True(t, errors.As(err, &size))
	assert.Equal(t, uint64(256), size.Columns)

	v, err := BuildExhaustive(Options{K: 10})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxColumns, v.Len())
}

func TestComposition(t *testing.T) {
	v, err := BuildExhaustive(Options{K: 3, Feature: Composition})
	require.NoError(t, err)
	assert.Equal(t, 20, v.Len())
	assert.Equal(t, "A0C0G0T3", v.Column(0))
	assert.Equal(t, "A1C0G1T1", v.Key("GAT"))

	obs, err := BuildObserved([]seqio.Sequence{"AAGAAG"}, Options{K: 3, Feature: Composition})
	require.NoError(t, err)
	// AAG, AGA, GAA, AAG all share a composition
	assert.Equal(t, []string{"A2C0G1T0"}, obs.Columns())
}

func TestSubsetAndEqual(t *testing.T) {
	v, err := BuildExhaustive(Options{K: 2})
	require.NoError(t, err)
	sub, err := v.Subset([]int{1, 4, 15})
	require.NoError(t, err)
	assert.Equal(t, []string{"AC", "CA", "TT"}, sub.Columns())
	assert.Equal(t, Exhaustive, sub.Mode())
	_, err = v.Subset([]int{4, 1})
	assert.Error(t, err)
	_, err = v.Subset([]int{16})
	assert.Error(t, err)

	other, err := BuildExhaustive(Options{K: 2})
	require.NoError(t, err)
	assert.True(t, v.Equal(other))
	assert.False(t, v.Equal(sub))
	explicit, err := v.Subset([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	require.NoError(t, err)
	assert.True(t, v.Equal(explicit))
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	observed, err := BuildObserved(corpus, Options{K: 2, Order: Lexical})
	require.NoError(t, err)
	exhaustive, err := BuildExhaustive(Options{K: 5})
	require.NoError(t, err)
	composition, err := BuildExhaustive(Options{K: 4, Feature: Composition})
	require.NoError(t, err)

	for i, v := range []*Vocabulary{observed, exhaustive, composition} {
		path := filepath.Join(dir, "vocab.msgpack")
		require.NoError(t, v.Dump(path))
		loaded, err := Load(path)
		require.NoError(t, err, "vocabulary %d", i)
		assert.True(t, v.Equal(loaded), "vocabulary %d changed after a round trip", i)
		assert.Equal(t, v.Mode(), loaded.Mode())
		assert.Equal(t, v.Order(), loaded.Order())
		assert.Equal(t, v.Feature(), loaded.Feature())
	}

	_, err = Unmarshal(nil)
	assert.Error(t, err)
	_, err = Unmarshal([]byte("not a vocabulary"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	m, err := ParseMode("Exhaustive")
	require.NoError(t, err)
	assert.Equal(t, Exhaustive, m)
	o, err := ParseOrder("lexical")
	require.NoError(t, err)
	assert.Equal(t, Lexical, o)
	f, err := ParseFeature("composition")
	require.NoError(t, err)
	assert.Equal(t, Composition, f)
	_, err = ParseMode("all")
	assert.Error(t, err)
	_, err = ParseOrder("random")
	assert.Error(t, err)
	_, err = ParseFeature("protein")
	assert.Error(t, err)
}
