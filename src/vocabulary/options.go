package vocabulary

import (
	"fmt"
	"strings"
)

// DefaultMaxColumns is the default ceiling on exhaustive vocabularies (4^10 k-mers)
const DefaultMaxColumns = 1 << 20

// Mode is how the vocabulary columns are decided
type Mode int

const (
	// Observed vocabularies hold the distinct features seen in a corpus
	Observed Mode = iota

	// Exhaustive vocabularies hold every possible feature for k
	Exhaustive
)

// Order is the column order used by observed vocabularies
type Order int

const (
	// FirstSeen orders columns by when they were first seen in the corpus
	FirstSeen Order = iota

	// Lexical orders columns lexicographically
	Lexical
)

// Feature is what a column counts
type Feature int

const (
	// Kmer columns count each literal k-mer
	Kmer Feature = iota

	// Composition columns count k-mers by their base composition (e.g. A2C0G1T1)
	Composition
)

func (m Mode) String() string {
	switch m {
	case Observed:
		return "observed"
	case Exhaustive:
		return "exhaustive"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (o Order) String() string {
	switch o {
	case FirstSeen:
		return "first-seen"
	case Lexical:
		return "lexical"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

func (f Feature) String() string {
	switch f {
	case Kmer:
		return "kmer"
	case Composition:
		return "composition"
	}
	return fmt.Sprintf("Feature(%d)", int(f))
}

// ParseMode converts a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "observed":
		return Observed, nil
	case "exhaustive":
		return Exhaustive, nil
	}
	return Observed, fmt.Errorf("unknown vocabulary mode: %q (use observed or exhaustive)", name)
}

// ParseOrder converts an order name to an Order
func ParseOrder(name string) (Order, error) {
	switch strings.ToLower(name) {
	case "", "first-seen", "firstseen":
		return FirstSeen, nil
	case "lexical":
		return Lexical, nil
	}
	return FirstSeen, fmt.Errorf("unknown column order: %q (use first-seen or lexical)", name)
}

// ParseFeature converts a feature name to a Feature
func ParseFeature(name string) (Feature, error) {
	switch strings.ToLower(name) {
	case "", "kmer":
		return Kmer, nil
	case "composition":
		return Composition, nil
	}
	return Kmer, fmt.Errorf("unknown feature type: %q (use kmer or composition)", name)
}

// Options configure how a vocabulary is built
type Options struct {
	K          int
	Mode       Mode
	Order      Order   // only used in observed mode, exhaustive vocabularies are always lexical
	Feature    Feature
	MaxColumns int // ceiling for exhaustive vocabularies, DefaultMaxColumns if <= 0
}

// maxColumns returns the ceiling to use for exhaustive vocabularies
func (o Options) maxColumns() uint64 {
	if o.MaxColumns <= 0 {
		return DefaultMaxColumns
	}
	return uint64(o.MaxColumns)
}
