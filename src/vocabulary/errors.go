package vocabulary

import (
	"fmt"
	"math"
)

// EmptyCorpusError is returned when an observed vocabulary is built without any k-mers
type EmptyCorpusError struct {
	K int
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("no k-mers (k=%d) were supplied to build an observed vocabulary", e.K)
}

// VocabularySizeError is returned when an exhaustive vocabulary would exceed the column ceiling
type VocabularySizeError struct {
	K       int
	Columns uint64 // math.MaxUint64 if the count overflows
	Max     uint64
}

func (e *VocabularySizeError) Error() string {
	if e.Columns == math.MaxUint64 {
		return fmt.Sprintf("exhaustive vocabulary for k=%d is too large to enumerate (maximum permitted columns: %d)", e.K, e.Max)
	}
	return fmt.Sprintf("exhaustive vocabulary for k=%d needs %d columns (maximum permitted columns: %d)", e.K, e.Columns, e.Max)
}
