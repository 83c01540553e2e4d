// Package dataset assembles labelled sequence records into a feature matrix.
//
// Assembly happens in three steps: every record is normalised and checked, the
// vocabulary is built once from the valid sequences, then the sequences are
// vectorised against that frozen vocabulary. The first and last steps are spread
// over a pool of goroutines; the vocabulary is never built while vectorising.
package dataset

import (
	"fmt"
	"log"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vectorise"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// Dataset is a feature matrix with its labels and the vocabulary that gives the columns their meaning
type Dataset struct {
	Vocabulary *vocabulary.Vocabulary
	Normalised bool
	Matrix     [][]float64 // one row per kept record, in input order
	Labels     []string
	IDs        []string
	Indices    []int // input index of each row
	Skipped    []SkippedRecord
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Matrix)
}

// Classes returns the distinct labels, sorted
func (d *Dataset) Classes() []string {
	seen := make(map[string]struct{})
	classes := []string{}
	for _, label := range d.Labels {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	return classes
}

// Assemble builds a vocabulary from the records and vectorises them against it
func Assemble(records []seqio.Record, cfg Config) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &DatasetMismatchError{Index: -1, Reason: "no records supplied"}
	}
	seqs, kept, skipped, err := validate(records, cfg, func(seq seqio.Sequence) error {
		if len(seq) < cfg.K {
			return &vectorise.SchemaMismatchError{K: cfg.K, Length: len(seq)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the single synchronisation point: the vocabulary is frozen before any vectorising starts
	vocab, err := vocabulary.Build(seqs, cfg.VocabularyOptions())
	if err != nil {
		return nil, err
	}
	return vectoriseAll(records, seqs, kept, skipped, vectorise.New(vocab, cfg.Normalise), cfg)
}

// AssembleWith vectorises the records against an existing vocabulary, such as one from a training set
func AssembleWith(records []seqio.Record, vocab *vocabulary.Vocabulary, cfg Config) (*Dataset, error) {
	if vocab == nil {
		return nil, fmt.Errorf("no vocabulary supplied")
	}
	cfg.K = vocab.K()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &DatasetMismatchError{Index: -1, Reason: "no records supplied"}
	}
	vectoriser := vectorise.New(vocab, cfg.Normalise)
	seqs, kept, skipped, err := validate(records, cfg, vectoriser.Check)
	if err != nil {
		return nil, err
	}
	return vectoriseAll(records, seqs, kept, skipped, vectoriser, cfg)
}

// validate normalises every record and runs the length check, returning the valid sequences in input order
func validate(records []seqio.Record, cfg Config, check func(seqio.Sequence) error) ([]seqio.Sequence, []int, []SkippedRecord, error) {
	normalised := make([]seqio.Sequence, len(records))
	errs := make([]error, len(records))
	g := new(errgroup.Group)
	g.SetLimit(workers(cfg))
	for i := range records {
		i := i
		g.Go(func() error {
			seq, err := seqio.Normalise(records[i].Sequence, cfg.Policy)
			if err == nil {
				err = check(seq)
			}
			normalised[i], errs[i] = seq, err
			return nil
		})
	}
	_ = g.Wait()

	// errors are handled in input order so the reported record doesn't depend on scheduling
	seqs := make([]seqio.Sequence, 0, len(records))
	kept := make([]int, 0, len(records))
	skipped := []SkippedRecord{}
	for i, err := range errs {
		if err == nil {
			seqs = append(seqs, normalised[i])
			kept = append(kept, i)
			continue
		}
		if cfg.OnInvalid == Reject {
			return nil, nil, nil, &DatasetMismatchError{
				Index:  i,
				ID:     records[i].ID,
				Label:  records[i].Label,
				Reason: "record failed validation",
				Err:    err,
			}
		}
		log.Printf("\tskipping record %d (id: %v, label: %v): %v", i, records[i].ID, records[i].Label, err)
		skipped = append(skipped, SkippedRecord{Index: i, ID: records[i].ID, Label: records[i].Label, Err: err})
	}
	if len(seqs) == 0 {
		return nil, nil, nil, &DatasetMismatchError{
			Index:  -1,
			Reason: fmt.Sprintf("none of the %d records passed validation", len(records)),
			Err:    skipped[0].Err,
		}
	}
	return seqs, kept, skipped, nil
}

// vectoriseAll fans the valid sequences out to the workers, each writing its own row
func vectoriseAll(records []seqio.Record, seqs []seqio.Sequence, kept []int, skipped []SkippedRecord, vectoriser *vectorise.Vectoriser, cfg Config) (*Dataset, error) {
	ds := &Dataset{
		Vocabulary: vectoriser.Vocabulary(),
		Normalised: vectoriser.Normalise(),
		Matrix:     make([][]float64, len(seqs)),
		Labels:     make([]string, len(seqs)),
		IDs:        make([]string, len(seqs)),
		Indices:    kept,
		Skipped:    skipped,
	}
	g := new(errgroup.Group)
	g.SetLimit(workers(cfg))
	for row := range seqs {
		row := row
		g.Go(func() error {
			vec, err := vectoriser.Vectorise(seqs[row])
			if err != nil {
				rec := records[kept[row]]
				return &DatasetMismatchError{Index: kept[row], ID: rec.ID, Label: rec.Label, Reason: "could not vectorise record", Err: err}
			}
			ds.Matrix[row] = vec
			return nil
		})
		ds.Labels[row] = records[kept[row]].Label
		ds.IDs[row] = records[kept[row]].ID
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

// workers returns the size of the worker pool
func workers(cfg Config) int {
	if cfg.Workers <= 0 {
		return runtime.NumCPU()
	}
	return cfg.Workers
}
