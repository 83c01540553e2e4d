package kmer

import "fmt"

// seqNT4table converts a base to its 2-bit code, anything that isn't A/C/G/T is 4
var seqNT4table = func() [256]uint8 {
	var table [256]uint8
	for i := range table {
		table[i] = 4
	}
	table['A'], table['C'], table['G'], table['T'] = 0, 1, 2, 3
	table['a'], table['c'], table['g'], table['t'] = 0, 1, 2, 3
	return table
}()

// bases is the reverse of seqNT4table
var bases = [4]byte{'A', 'C', 'G', 'T'}

// Encode packs a k-mer into 2 bits per base (A=0, C=1, G=2, T=3)
//
// The code of a k-mer is also its rank amongst all 4^k k-mers in lexicographic order.
func Encode(kmer string) (uint64, error) {
	if len(kmer) == 0 || len(kmer) > MaxEncodableK {
		return 0, fmt.Errorf("can't encode k-mer of length %d (must be 1-%d)", len(kmer), MaxEncodableK)
	}
	var code uint64
	for i := 0; i < len(kmer); i++ {
		c := seqNT4table[kmer[i]]
		if c > 3 {
			return 0, fmt.Errorf("can't encode non \"A\\C\\T\\G\" base (%q) in k-mer %v", kmer[i], kmer)
		}
		code = code<<2 | uint64(c)
	}
	return code, nil
}

// Decode unpacks a 2-bit code into a k-mer of length k
func Decode(code uint64, k int) string {
	kmer := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		kmer[i] = bases[code&3]
		code >>= 2
	}
	return string(kmer)
}

// Composition returns the base composition key of a k-mer (e.g. "GATA" -> "A2C0G1T1")
func Composition(kmer string) string {
	var counts [5]int
	for i := 0; i < len(kmer); i++ {
		counts[seqNT4table[kmer[i]]]++
	}
	return compositionKey(counts[0], counts[1], counts[2], counts[3])
}

// CompositionKeys enumerates every composition key for k, with the A count ascending, then C, then G
func CompositionKeys(k int) []string {
	keys := make([]string, 0, NumCompositions(k))
	for a := 0; a <= k; a++ {
		for c := 0; c <= k-a; c++ {
			for g := 0; g <= k-a-c; g++ {
				keys = append(keys, compositionKey(a, c, g, k-a-c-g))
			}
		}
	}
	return keys
}

// NumCompositions is the number of ways to split k bases into A/C/G/T counts, C(k+3,3)
func NumCompositions(k int) uint64 {
	if k < 0 {
		return 0
	}
	n := uint64(k)
	return (n + 3) * (n + 2) * (n + 1) / 6
}

func compositionKey(a, c, g, t int) string {
	return fmt.Sprintf("A%dC%dG%dT%d", a, c, g, t)
}
