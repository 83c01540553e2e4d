package pipeline

/*
 this part of the pipeline trains and applies the classifier
*/

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/misc"
	"github.com/will-rowe/kmervec/src/reporting"
)

// ModelTrainer is a pipeline process that splits a dataset, trains a model and evaluates it on the held-out rows
type ModelTrainer struct {
	info   *Info
	input  chan *dataset.Dataset
	report io.Writer
}

// NewModelTrainer is the constructor, the evaluation report is written to w
func NewModelTrainer(info *Info, w io.Writer) *ModelTrainer {
	return &ModelTrainer{info: info, report: w}
}

// Connect is the method to connect the ModelTrainer to the output of a DatasetAssembler
func (proc *ModelTrainer) Connect(previous *DatasetAssembler) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *ModelTrainer) Run() {
	for ds := range proc.input {
		train, test, err := ds.Split(proc.info.Settings.Train.TestFraction, proc.info.Settings.Train.Seed)
		misc.ErrorCheck(err)
		log.Printf("\ttraining on %d records, holding back %d", train.Len(), test.Len())
		if proc.info.Settings.Train.Prune {
			before := train.Vocabulary.Len()
			train, err = train.Prune()
			misc.ErrorCheck(err)
			test, err = test.Project(train.Vocabulary)
			misc.ErrorCheck(err)
			proc.info.Columns = train.Vocabulary.Len()
			log.Printf("\tpruned columns that are empty in the training records: %d -> %d", before, train.Vocabulary.Len())
		}
		model, err := classify.Train(train)
		misc.ErrorCheck(err)
		eval, err := model.Evaluate(test)
		misc.ErrorCheck(err)
		proc.info.AttachModel(model)
		proc.info.Accuracy = eval.Accuracy()
		log.Printf("\taccuracy on held-out records: %.4f", eval.Accuracy())
		misc.ErrorCheck(reporting.PrintEvaluation(proc.report, eval))

		misc.ErrorCheck(model.Dump(filepath.Join(proc.info.OutDir, ModelFile)))
		if proc.info.Settings.Plot {
			misc.ErrorCheck(reporting.PlotAccuracy(eval, filepath.Join(proc.info.OutDir, AccuracyPlot)))
		}
		log.Printf("\tsaved the model to: %v", proc.info.OutDir)
	}
	misc.ErrorCheck(proc.info.Dump(filepath.Join(proc.info.OutDir, InfoFile)))
}

// Classifier is a pipeline process that predicts the label of every row in a dataset using the attached model
type Classifier struct {
	info   *Info
	input  chan *dataset.Dataset
	output io.Writer
}

// NewClassifier is the constructor, predictions are written to w
func NewClassifier(info *Info, w io.Writer) *Classifier {
	return &Classifier{info: info, output: w}
}

// Connect is the method to connect the Classifier to the output of a DatasetAssembler
func (proc *Classifier) Connect(previous *DatasetAssembler) {
	proc.input = previous.output
}

// Run is the method to run this process, which satisfies the pipeline interface
func (proc *Classifier) Run() {
	model := proc.info.Model()
	if model == nil {
		misc.ErrorCheck(fmt.Errorf("no model attached to the classifier"))
	}
	for ds := range proc.input {
		for i, vec := range ds.Matrix {
			label, score, err := model.Predict(vec)
			misc.ErrorCheck(err)
			_, err = fmt.Fprintf(proc.output, "%v\t%v\t%.4f\n", ds.IDs[i], label, score)
			misc.ErrorCheck(err)
		}
	}
}
