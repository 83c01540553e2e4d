package dataset

import (
	"fmt"
	"strings"

	"github.com/will-rowe/kmervec/src/kmer"
	"github.com/will-rowe/kmervec/src/seqio"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// InvalidPolicy decides what happens to a record that fails validation
type InvalidPolicy int

const (
	// Reject aborts the whole corpus on the first invalid record
	Reject InvalidPolicy = iota

	// Skip drops invalid records, logging and recording each one
	Skip
)

func (p InvalidPolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("InvalidPolicy(%d)", int(p))
}

// ParseInvalidPolicy converts a policy name to an InvalidPolicy
func ParseInvalidPolicy(name string) (InvalidPolicy, error) {
	switch strings.ToLower(name) {
	case "", "reject":
		return Reject, nil
	case "skip":
		return Skip, nil
	}
	return Reject, fmt.Errorf("unknown invalid record policy: %q (use reject or skip)", name)
}

// Config holds the settings for assembling a dataset
type Config struct {
	K          int
	Mode       vocabulary.Mode
	Order      vocabulary.Order
	Feature    vocabulary.Feature
	Normalise  bool          // convert counts to frequencies
	OnInvalid  InvalidPolicy // what to do with records that fail validation
	Policy     seqio.Policy  // what the normaliser does with ambiguous bases
	MaxColumns int           // ceiling for exhaustive vocabularies
	Workers    int           // number of goroutines used, 0 uses one per CPU
}

// DefaultConfig returns the settings used when nothing else is specified
func DefaultConfig() Config {
	return Config{
		K:          6,
		Mode:       vocabulary.Observed,
		Order:      vocabulary.FirstSeen,
		Feature:    vocabulary.Kmer,
		OnInvalid:  Reject,
		Policy:     seqio.PolicyReject,
		MaxColumns: vocabulary.DefaultMaxColumns,
	}
}

// Validate checks the settings
func (c Config) Validate() error {
	if c.K < 1 {
		return &kmer.InvalidKError{K: c.K}
	}
	if c.Workers < 0 {
		return fmt.Errorf("number of workers can't be negative: %d", c.Workers)
	}
	return nil
}

// VocabularyOptions returns the options used to build the dataset vocabulary
func (c Config) VocabularyOptions() vocabulary.Options {
	return vocabulary.Options{
		K:          c.K,
		Mode:       c.Mode,
		Order:      c.Order,
		Feature:    c.Feature,
		MaxColumns: c.MaxColumns,
	}
}
