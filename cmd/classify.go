// Copyright © 2017 Will Rowe <will.rowe@stfc.ac.uk>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/misc"
	"github.com/will-rowe/kmervec/src/pipeline"
	"github.com/will-rowe/kmervec/src/version"
)

// the command line arguments
var (
	modelFile      *string   // the saved model
	classifyInputs *[]string // the sequences to classify
)

// the classify command (used by cobra)
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label sequences using a trained model",
	Long: `Label sequences using a trained model.

 Predictions are written to STDOUT as tab separated lines: id, predicted label and cosine similarity to the class centroid.`,
	Run: func(cmd *cobra.Command, args []string) {
		runClassify()
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := misc.CheckRequiredFlags(cmd.Flags()); err != nil {
			return err
		}
		return bindSettings(cmd)
	},
}

// a function to initialise the command line arguments
func init() {
	modelFile = classifyCmd.Flags().StringP("model", "m", "", "model file made by the train subcommand - required")
	classifyInputs = classifyCmd.Flags().StringSliceP("input", "i", []string{}, "FASTA, TSV or archive files containing the sequences to classify - required")
	addRecordFlags(classifyCmd)
	classifyCmd.MarkFlagRequired("model")
	classifyCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(classifyCmd)
}

// classifyParamCheck checks the user supplied parameters
func classifyParamCheck() error {
	if err := misc.CheckFile(*modelFile); err != nil {
		return err
	}
	if err := checkInputs(*classifyInputs); err != nil {
		return err
	}
	*proc = misc.SetProcessors(*proc)
	return nil
}

// runClassify is the main function for the classify sub-command
func runClassify() {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	defer startLogging(os.Stderr)()

	// start sub command
	start := time.Now()
	log.Printf("kmervec (version %s)", version.GetVersion())
	log.Printf("starting the classify subcommand")
	log.Printf("checking parameters...")
	misc.ErrorCheck(classifyParamCheck())
	settings := loadSettings()
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tinvalid records: %v (bases: %v)", settings.Records.OnInvalid, settings.Records.Policy)
	log.Print("loading the model...")
	model, err := classify.Load(*modelFile)
	misc.ErrorCheck(err)
	if !strings.HasPrefix(model.Version, version.GetBaseVersion()) {
		misc.ErrorCheck(fmt.Errorf("the model was created with a different version of kmervec (%v, you are currently using version %v)", model.Version, version.GetVersion()))
	}
	log.Printf("\tk-mer size: %d", model.Vocabulary.K())
	log.Printf("\tnumber of columns: %d", model.Vocabulary.Len())
	log.Printf("\tclasses: %v", strings.Join(model.Classes, ", "))

	// set up the runtime info
	info := &pipeline.Info{
		Version:   version.GetVersion(),
		NumProc:   *proc,
		Profiling: *profiling,
		Settings:  settings,
	}
	info.AttachModel(model)

	// create the pipeline
	log.Printf("initialising classify pipeline...")
	classifyPipeline := pipeline.NewPipeline()
	reader := pipeline.NewRecordReader(info)
	assembler := pipeline.NewDatasetAssembler(info)
	classifier := pipeline.NewClassifier(info, os.Stdout)
	reader.Connect(*classifyInputs)
	assembler.Connect(reader)
	classifier.Connect(assembler)
	classifyPipeline.AddProcesses(reader, assembler, classifier)
	log.Print("classifying...")
	classifyPipeline.Run()
	log.Printf("memory usage: %v", misc.PrintMemUsage())
	log.Println("finished in ", time.Since(start))
}
