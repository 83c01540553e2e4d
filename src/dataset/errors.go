package dataset

import "fmt"

// DatasetMismatchError is returned when a corpus can't be assembled into a dataset
type DatasetMismatchError struct {
	Index  int // input index of the offending record, -1 for corpus level problems
	ID     string
	Label  string
	Reason string
	Err    error
}

func (e *DatasetMismatchError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", e.Reason, e.Err)
	}
	if e.Index < 0 {
		return fmt.Sprintf("could not assemble dataset: %v", msg)
	}
	return fmt.Sprintf("could not assemble dataset: record %d (id: %v, label: %v): %v", e.Index, e.ID, e.Label, msg)
}

func (e *DatasetMismatchError) Unwrap() error { return e.Err }

// SkippedRecord describes a record that was dropped from a dataset
type SkippedRecord struct {
	Index int
	ID    string
	Label string
	Err   error
}
