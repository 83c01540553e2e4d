package vectorise

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

var (
	testSeqs = []seqio.Sequence{
		"ACTGCGTGCGTGAAACGTGCACGTGACGTG",
		"GGGGCCCCAAAATTTTACGTACGTAACCGGTT",
		"TTGACA",
	}
)

func sum(vec []float64) float64 {
	total := 0.0
	for _, v := range vec {
		total += v
	}
	return total
}

func TestObservedExample(t *testing.T) {
	vocab, err := vocabulary.BuildObserved([]seqio.Sequence{"ACGT", "ACGA"}, vocabulary.Options{K: 2})
	require.NoError(t, err)
	v := New(vocab, false)

	vec, err := v.Vectorise("ACGT")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 0}, vec)

	vec, err = v.Vectorise("ACGA")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 1}, vec)
}

func TestCountSum(t *testing.T) {
	for k := 1; k <= 6; k++ {
		exhaustive, err := vocabulary.BuildExhaustive(vocabulary.Options{K: k})
		require.NoError(t, err)
		observed, err := vocabulary.BuildObserved(testSeqs, vocabulary.Options{K: k})
		require.NoError(t, err)
		composition, err := vocabulary.BuildExhaustive(vocabulary.Options{K: k, Feature: vocabulary.Composition})
		require.NoError(t, err)
		for _, vocab := range []*vocabulary.Vocabulary{exhaustive, observed, composition} {
			v := New(vocab, false)
			for _, seq := range testSeqs {
				vec, err := v.Vectorise(seq)
				require.NoError(t, err)
				require.Len(t, vec, vocab.Len())
				assert.Equal(t, float64(len(seq)-k+1), sum(vec), "k=%d, %v vocabulary, seq %v", k, vocab.Mode(), seq)
				for _, c := range vec {
					assert.GreaterOrEqual(t, c, 0.0)
				}
			}
		}
	}
}

func TestAgainstBruteForce(t *testing.T) {
	for k := 1; k <= 6; k++ {
		vocab, err := vocabulary.BuildExhaustive(vocabulary.Options{K: k})
		require.NoError(t, err)
		v := New(vocab, false)
		for _, seq := range testSeqs {
			counts := map[string]float64{}
			for i := 0; i+k <= len(seq); i++ {
				counts[string(seq[i:i+k])]++
			}
			vec, err := v.Vectorise(seq)
			require.NoError(t, err)
			for i, c := range vec {
				assert.Equal(t, counts[vocab.Column(i)], c, "k=%d, column %v", k, vocab.Column(i))
			}
		}
	}
}

func TestIdempotence(t *testing.T) {
	vocab, err := vocabulary.BuildObserved(testSeqs, vocabulary.Options{K: 3})
	require.NoError(t, err)
	v := New(vocab, true)
	for _, seq := range testSeqs {
		first, err := v.Vectorise(seq)
		require.NoError(t, err)
		second, err := v.Vectorise(seq)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestNormalise(t *testing.T) {
	vocab, err := vocabulary.BuildExhaustive(vocabulary.Options{K: 2})
	require.NoError(t, err)
	v := New(vocab, true)
	assert.True(t, v.Normalise())
	vec, err := v.Vectorise("GTATCA")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sum(vec), 1e-9)
	i, _ := vocab.Index("GT")
	assert.InDelta(t, 0.2, vec[i], 1e-9)

	// k-mers missing from a vocabulary still count towards the total
	observed, err := vocabulary.BuildObserved([]seqio.Sequence{"AAAA"}, vocabulary.Options{K: 2})
	require.NoError(t, err)
	vec, err = New(observed, true).Vectorise("AAAC")
	require.NoError(t, err)
	assert.Equal(t, 1, len(vec))
	assert.True(t, math.Abs(vec[0]-2.0/3.0) < 1e-9)
}

func TestSchemaMismatch(t *testing.T) {
	vocab, err := vocabulary.BuildExhaustive(vocabulary.Options{K: 3})
	require.NoError(t, err)
	v := New(vocab, false)
	_, err = v.Vectorise("AC")
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "expected SchemaMismatchError, got %v", err)
	assert.Equal(t, 3, mismatch.K)
	assert.Equal(t, 2, mismatch.Length)

	assert.Error(t, v.VectoriseInto("ACGT", make([]float64, 3)))
}

func BenchmarkVectorise(b *testing.B) {
	vocab, err := vocabulary.BuildExhaustive(vocabulary.Options{K: 6})
	if err != nil {
		b.Fatal(err)
	}
	v := New(vocab, true)
	for n := 0; n < b.N; n++ {
		if _, err := v.Vectorise(testSeqs[0]); err != nil {
			b.Fatal(err)
		}
	}
}
