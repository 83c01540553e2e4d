package vocabulary

import (
	"fmt"
	"os"

	"gopkg.in/vmihailenco/msgpack.v2"
)

// formatVersion is bumped whenever the serialised layout changes
const formatVersion = 1

// vocabFile is the serialised form of a Vocabulary
type vocabFile struct {
	Format  int      `msgpack:"format"`
	K       int      `msgpack:"k"`
	Mode    string   `msgpack:"mode"`
	Order   string   `msgpack:"order"`
	Feature string   `msgpack:"feature"`
	Size    int      `msgpack:"size"`
	Columns []string `msgpack:"columns"` // omitted for exhaustive k-mer vocabularies
}

// EncodeMsgpack lets a Vocabulary be embedded in other msgpack encoded types
func (v *Vocabulary) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(&vocabFile{
		Format:  formatVersion,
		K:       v.k,
		Mode:    v.mode.String(),
		Order:   v.order.String(),
		Feature: v.feature.String(),
		Size:    v.size,
		Columns: v.columns,
	})
}

// DecodeMsgpack lets a Vocabulary be embedded in other msgpack encoded types
func (v *Vocabulary) DecodeMsgpack(dec *msgpack.Decoder) error {
	vf := &vocabFile{}
	if err := dec.Decode(vf); err != nil {
		return err
	}
	decoded, err := fromFile(vf)
	if err != nil {
		return err
	}
	*v = *decoded
	return nil
}

// fromFile checks a serialised vocabulary and rebuilds the column index
func fromFile(vf *vocabFile) (*Vocabulary, error) {
	if vf.Format != formatVersion {
		return nil, fmt.Errorf("unsupported vocabulary format: %d (expected %d)", vf.Format, formatVersion)
	}
	if vf.K < 1 {
		return nil, fmt.Errorf("vocabulary has an invalid k-mer size: %d", vf.K)
	}
	mode, err := ParseMode(vf.Mode)
	if err != nil {
		return nil, err
	}
	order, err := ParseOrder(vf.Order)
	if err != nil {
		return nil, err
	}
	feature, err := ParseFeature(vf.Feature)
	if err != nil {
		return nil, err
	}

	// exhaustive k-mer vocabularies are rebuilt from k
	if len(vf.Columns) == 0 {
		if mode != Exhaustive || feature != Kmer {
			return nil, fmt.Errorf("vocabulary has no columns")
		}
		if ExhaustiveSize(vf.K, feature) != uint64(vf.Size) {
			return nil, fmt.Errorf("exhaustive vocabulary size (%d) does not match k=%d", vf.Size, vf.K)
		}
		return &Vocabulary{k: vf.K, mode: mode, order: order, feature: feature, size: vf.Size}, nil
	}
	if len(vf.Columns) != vf.Size {
		return nil, fmt.Errorf("vocabulary is corrupted: header says %d columns, found %d", vf.Size, len(vf.Columns))
	}
	v := newVocabulary(vf.K, mode, order, feature, vf.Columns)
	if len(v.index) != v.size {
		return nil, fmt.Errorf("vocabulary is corrupted: duplicate column names")
	}
	return v, nil
}

// Marshal encodes the vocabulary with msgpack
func (v *Vocabulary) Marshal() ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes a msgpack encoded vocabulary
func Unmarshal(data []byte) (*Vocabulary, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no data received to load the vocabulary from")
	}
	v := &Vocabulary{}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Dump is a method to write the vocabulary to file
func (v *Vocabulary) Dump(path string) error {
	data, err := v.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a vocabulary from file
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
