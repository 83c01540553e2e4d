package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/will-rowe/kmervec/src/vocabulary"
)

// Prune returns a copy of the dataset without the columns that are zero in every row
//
// The reduced vocabulary keeps the original column order. Other data (e.g. a held-out split)
// is brought onto the pruned columns with Project.
func (d *Dataset) Prune() (*Dataset, error) {
	keep := []int{}
	for col := 0; col < d.Vocabulary.Len(); col++ {
		for _, row := range d.Matrix {
			if row[col] > 0 {
				keep = append(keep, col)
				break
			}
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("every column in the dataset is empty")
	}
	vocab, err := d.Vocabulary.Subset(keep)
	if err != nil {
		return nil, err
	}
	return d.Project(vocab)
}

// Project returns a copy of the dataset holding only the columns of vocab, in vocab order
//
// Every column of vocab must be in the dataset vocabulary. Values are copied as they are, so
// normalised rows keep their original denominator.
func (d *Dataset) Project(vocab *vocabulary.Vocabulary) (*Dataset, error) {
	if vocab == nil {
		return nil, fmt.Errorf("no vocabulary supplied")
	}
	if vocab.K() != d.Vocabulary.K() || vocab.Feature() != d.Vocabulary.Feature() {
		return nil, fmt.Errorf("vocabulary (k=%d, %v) does not match the dataset (k=%d, %v)", vocab.K(), vocab.Feature(), d.Vocabulary.K(), d.Vocabulary.Feature())
	}
	cols := make([]int, vocab.Len())
	for i := range cols {
		col, ok := d.Vocabulary.Index(vocab.Column(i))
		if !ok {
			return nil, fmt.Errorf("column %v is not in the dataset vocabulary", vocab.Column(i))
		}
		cols[i] = col
	}
	projected := d.copyRows(allRows(d.Len()))
	projected.Vocabulary = vocab
	for i, row := range d.Matrix {
		newRow := make([]float64, len(cols))
		for j, col := range cols {
			newRow[j] = row[col]
		}
		projected.Matrix[i] = newRow
	}
	return projected, nil
}

// Split shuffles the rows with the given seed and splits off a test set
//
// Rows keep their relative order within each split. Both splits share the vocabulary.
func (d *Dataset) Split(testFraction float64, seed int64) (*Dataset, *Dataset, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be between 0 and 1 (exclusive), got %v", testFraction)
	}
	numTest := int(math.Round(testFraction * float64(d.Len())))
	if numTest == 0 || numTest == d.Len() {
		return nil, nil, fmt.Errorf("can't split %d rows with a test fraction of %v", d.Len(), testFraction)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(d.Len())
	testRows := append([]int(nil), perm[:numTest]...)
	trainRows := append([]int(nil), perm[numTest:]...)
	sort.Ints(testRows)
	sort.Ints(trainRows)
	train, test := d.copyRows(trainRows), d.copyRows(testRows)
	for i, row := range trainRows {
		train.Matrix[i] = d.Matrix[row]
	}
	for i, row := range testRows {
		test.Matrix[i] = d.Matrix[row]
	}
	return train, test, nil
}

// copyRows creates a dataset holding the labels and provenance of the given rows, the matrix rows are left for the caller
func (d *Dataset) copyRows(rows []int) *Dataset {
	ds := &Dataset{
		Vocabulary: d.Vocabulary,
		Normalised: d.Normalised,
		Matrix:     make([][]float64, len(rows)),
		Labels:     make([]string, len(rows)),
		IDs:        make([]string, len(rows)),
		Indices:    make([]int, len(rows)),
		Skipped:    d.Skipped,
	}
	for i, row := range rows {
		ds.Labels[i] = d.Labels[row]
		ds.IDs[i] = d.IDs[row]
		ds.Indices[i] = d.Indices[row]
	}
	return ds
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
