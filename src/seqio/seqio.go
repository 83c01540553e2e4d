/*
	the seqio package contains the sequence type, the normaliser that produces it and the readers for labelled sequence records
*/
package seqio

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Policy decides what the normaliser does with symbols outside of the ACGT alphabet
type Policy int

const (
	// PolicyReject fails normalisation on the first non-ACGT symbol (N, IUPAC codes, gaps, whitespace)
	PolicyReject Policy = iota

	// PolicyStrip removes every non-ACGT symbol before checking the remainder is non-empty
	PolicyStrip
)

// String returns the name used for the policy in settings files and flags
func (p Policy) String() string {
	switch p {
	case PolicyReject:
		return "reject"
	case PolicyStrip:
		return "strip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name to a Policy
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "reject":
		return PolicyReject, nil
	case "strip":
		return PolicyStrip, nil
	}
	return PolicyReject, fmt.Errorf("unknown ambiguous base policy: %q (use reject or strip)", name)
}

// Sequence is a normalised DNA sequence, upper case and restricted to A, C, G and T
//
// A Sequence should only be made by Normalise (or a conversion of a string already known to be valid).
type Sequence string

// Len returns the number of bases in the sequence
func (s Sequence) Len() int {
	return len(s)
}

// Record is a raw labelled sequence, as read from a corpus file
type Record struct {
	ID       string
	Sequence string
	Label    string
}

// InvalidSequenceError is returned when a raw sequence can't be normalised
type InvalidSequenceError struct {
	Position int  // byte offset of the offending symbol, -1 if the sequence is empty
	Symbol   rune // the offending symbol, utf8.RuneError if the input is not valid UTF-8
	Reason   string
}

func (e *InvalidSequenceError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("invalid sequence: %v", e.Reason)
	}
	return fmt.Sprintf("invalid sequence: %v (%q at position %d)", e.Reason, e.Symbol, e.Position)
}

// baseTable converts any case of A/C/G/T to upper case, everything else maps to 0
var baseTable = [256]byte{
	'A': 'A', 'C': 'C', 'G': 'G', 'T': 'T',
	'a': 'A', 'c': 'C', 'g': 'G', 't': 'T',
}

// Normalise checks a raw sequence against the ACGT alphabet and returns it in upper case
func Normalise(raw string, policy Policy) (Sequence, error) {
	if len(raw) == 0 {
		return "", &InvalidSequenceError{Position: -1, Reason: "sequence is empty"}
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		base := baseTable[raw[i]]
		if base != 0 {
			b.WriteByte(base)
			i++
			continue
		}
		symbol, width := rune(raw[i]), 1
		if raw[i] >= utf8.RuneSelf {
			symbol, width = utf8.DecodeRuneInString(raw[i:])
		}
		if policy != PolicyStrip {
			return "", &InvalidSequenceError{Position: i, Symbol: symbol, Reason: "non \"A\\C\\T\\G\" base"}
		}
		i += width
	}
	if b.Len() == 0 {
		return "", &InvalidSequenceError{Position: -1, Reason: "no A\\C\\T\\G bases remain after stripping"}
	}
	return Sequence(b.String()), nil
}
