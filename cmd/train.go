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
	"log"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/will-rowe/kmervec/src/misc"
	"github.com/will-rowe/kmervec/src/pipeline"
	"github.com/will-rowe/kmervec/src/version"
)

// the command line arguments
var (
	trainInputs        *[]string                                                          // the input sequence files
	trainOutDir        *string                                                            // directory to save the model and info to
	defaultTrainOutDir = "./kmervec-model-" + string(time.Now().Format("20060102150405")) // a default dir to store the model
)

// the train command (used by cobra)
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a nearest-centroid classifier on labelled sequences and evaluate it on a held-out split",
	Long:  `Train a nearest-centroid classifier on labelled sequences and evaluate it on a held-out split`,
	Run: func(cmd *cobra.Command, args []string) {
		runTrain()
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
	trainInputs = trainCmd.Flags().StringSliceP("input", "i", []string{}, "FASTA, TSV or archive files containing labelled sequences - required")
	trainOutDir = trainCmd.Flags().StringP("outDir", "o", defaultTrainOutDir, "directory to save the model to")
	addDatasetFlags(trainCmd)
	trainCmd.Flags().Float64("testFraction", 0.2, "proportion of records held back to evaluate the model")
	trainCmd.Flags().Int64("seed", 1, "seed for the train/test split")
	trainCmd.Flags().Bool("prune", false, "drop columns that are zero in every record before training")
	trainCmd.Flags().Bool("plot", false, "plot the per-class recall")
	trainCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(trainCmd)
}

// trainParamCheck checks the user supplied parameters
func trainParamCheck() error {
	if err := checkInputs(*trainInputs); err != nil {
		return err
	}
	if err := misc.MakeDir(*trainOutDir); err != nil {
		return err
	}
	*proc = misc.SetProcessors(*proc)
	return nil
}

// runTrain is the main function for the train sub-command
func runTrain() {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	defer startLogging(os.Stderr)()

	// start sub command
	start := time.Now()
	log.Printf("kmervec (version %s)", version.GetVersion())
	log.Printf("starting the train subcommand")
	log.Printf("checking parameters...")
	misc.ErrorCheck(trainParamCheck())
	settings := loadSettings()
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tk-mer size: %d", settings.Vocabulary.K)
	log.Printf("\tvocabulary: %v %v (%v order)", settings.Vocabulary.Mode, settings.Vocabulary.Feature, settings.Vocabulary.Order)
	log.Printf("\tnormalise: %v", settings.Normalise)
	log.Printf("\tprune: %v", settings.Train.Prune)
	log.Printf("\ttest fraction: %0.2f (seed %d)", settings.Train.TestFraction, settings.Train.Seed)
	log.Printf("\tnumber of input files: %d", len(*trainInputs))

	// set up the runtime info
	info := &pipeline.Info{
		Version:   version.GetVersion(),
		NumProc:   *proc,
		Profiling: *profiling,
		Settings:  settings,
		OutDir:    *trainOutDir,
	}

	// create the pipeline
	log.Printf("initialising training pipeline...")
	trainingPipeline := pipeline.NewPipeline()
	reader := pipeline.NewRecordReader(info)
	assembler := pipeline.NewDatasetAssembler(info)
	trainer := pipeline.NewModelTrainer(info, os.Stdout)
	reader.Connect(*trainInputs)
	assembler.Connect(reader)
	trainer.Connect(assembler)
	trainingPipeline.AddProcesses(reader, assembler, trainer)
	log.Printf("\tnumber of processes added to the training pipeline: %d\n", trainingPipeline.GetNumProcesses())
	log.Print("training...")
	trainingPipeline.Run()
	log.Printf("memory usage: %v", misc.PrintMemUsage())
	log.Println("finished in ", time.Since(start))
}
