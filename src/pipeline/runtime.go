package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/config"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// the files written to the output directory
const (
	VocabularyFile = "vocabulary.msgpack"
	MatrixFile     = "matrix.tsv.gz"
	InfoFile       = "kmervec.info"
	ModelFile      = "model.msgpack"
	ColumnsPlot    = "columns.png"
	AccuracyPlot   = "accuracy.png"
)

// Info stores the runtime information
type Info struct {
	Version   string
	NumProc   int
	Profiling bool
	Settings  *config.Config
	OutDir    string

	// filled in by the pipeline
	Records  int
	Skipped  int
	Columns  int
	Accuracy float64

	// the following fields are not written to disk
	vocab *vocabulary.Vocabulary
	model *classify.Model
}

// AttachVocabulary is a method to fix the vocabulary used by the assembler (instead of building one from the records)
func (Info *Info) AttachVocabulary(vocab *vocabulary.Vocabulary) {
	Info.vocab = vocab
}

// AttachModel is a method to attach a trained model to the runtime, which also fixes the vocabulary
func (Info *Info) AttachModel(model *classify.Model) {
	Info.model = model
	Info.vocab = model.Vocabulary
}

// Model returns the model attached to the runtime, if any
func (Info *Info) Model() *classify.Model {
	return Info.model
}

// Dump is a method to dump the pipeline info to file
func (Info *Info) Dump(path string) error {
	data, err := msgpack.Marshal(Info)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load is a method to load Info from file
func (Info *Info) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Info.LoadFromBytes(data)
}

// LoadFromBytes is a method to load Info from bytes
func (Info *Info) LoadFromBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("kmervec info appears empty")
	}
	return msgpack.Unmarshal(data, Info)
}
