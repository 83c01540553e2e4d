package pipeline

/*
 this part of the pipeline reads the input records and turns them into a dataset
*/

import (
	"log"
	"path/filepath"

	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/misc"
	"github.com/will-rowe/kmervec/src/reporting"
	"github.com/will-rowe/kmervec/src/seqio"
)

// RecordReader is a pipeline process that loads labelled sequences from FASTA, TSV and archive files
type RecordReader struct {
	info   *Info
	input  []string
	output chan seqio.Record
}

// NewRecordReader is the constructor
func NewRecordReader(info *Info) *RecordReader {
	return &RecordReader{info: info, output: make(chan seqio.Record, BUFFERSIZE)}
}

// Connect is the method to connect the RecordReader to some data source
func (proc *RecordReader) Connect(input []string) {
	proc.input = input
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *RecordReader) Run() {
	defer close(proc.output)
	records, err := seqio.LoadRecords(proc.input)
	misc.ErrorCheck(err)
	log.Printf("\tnumber of records loaded: %d", len(records))
	for _, record := range records {
		proc.output <- record
	}
}

// DatasetAssembler is a pipeline process that collects records and vectorises them into a dataset
//
// If the runtime has a vocabulary attached, the records are vectorised against it, otherwise a vocabulary is built from the records.
type DatasetAssembler struct {
	info   *Info
	input  chan seqio.Record
	output chan *dataset.Dataset
}

// NewDatasetAssembler is the constructor
func NewDatasetAssembler(info *Info) *DatasetAssembler {
	return &DatasetAssembler{info: info, output: make(chan *dataset.Dataset, 1)}
}

// Connect is the method to connect the DatasetAssembler to the output of a RecordReader
func (proc *DatasetAssembler) Connect(previous *RecordReader) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *DatasetAssembler) Run() {
	defer close(proc.output)
	records := []seqio.Record{}
	for record := range proc.input {
		records = append(records, record)
	}
	cfg, err := proc.info.Settings.Dataset()
	misc.ErrorCheck(err)

	if proc.info.model != nil {
		cfg.Normalise = proc.info.model.Normalised
	}
	var ds *dataset.Dataset
	if proc.info.vocab != nil {
		log.Printf("\tvectorising against the supplied vocabulary (k=%d, %d columns)", proc.info.vocab.K(), proc.info.vocab.Len())
		ds, err = dataset.AssembleWith(records, proc.info.vocab, cfg)
	} else {
		log.Printf("\tbuilding a %v %v vocabulary (k=%d)", cfg.Mode, cfg.Feature, cfg.K)
		ds, err = dataset.Assemble(records, cfg)
	}
	misc.ErrorCheck(err)
	proc.info.Records = ds.Len()
	proc.info.Skipped = len(ds.Skipped)
	proc.info.Columns = ds.Vocabulary.Len()
	log.Printf("\tnumber of records vectorised: %d", ds.Len())
	log.Printf("\tnumber of records skipped: %d", len(ds.Skipped))
	log.Printf("\tnumber of columns: %d", ds.Vocabulary.Len())
	proc.output <- ds
}

// DatasetWriter is a pipeline process that saves a dataset, its vocabulary and the runtime info
type DatasetWriter struct {
	info  *Info
	input chan *dataset.Dataset
}

// NewDatasetWriter is the constructor
func NewDatasetWriter(info *Info) *DatasetWriter {
	return &DatasetWriter{info: info}
}

// Connect is the method to connect the DatasetWriter to the output of a DatasetAssembler
func (proc *DatasetWriter) Connect(previous *DatasetAssembler) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *DatasetWriter) Run() {
	for ds := range proc.input {
		misc.ErrorCheck(ds.Vocabulary.Dump(filepath.Join(proc.info.OutDir, VocabularyFile)))
		misc.ErrorCheck(ds.Dump(filepath.Join(proc.info.OutDir, MatrixFile)))
		if proc.info.Settings.Plot {
			misc.ErrorCheck(reporting.PlotColumns(ds, reporting.DefaultTopColumns, filepath.Join(proc.info.OutDir, ColumnsPlot)))
		}
		log.Printf("\tsaved the vocabulary and matrix to: %v", proc.info.OutDir)
	}
	misc.ErrorCheck(proc.info.Dump(filepath.Join(proc.info.OutDir, InfoFile)))
}
