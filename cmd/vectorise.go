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
	vecInputs        *[]string                                                            // the input sequence files
	vecOutDir        *string                                                              // directory to save the vocabulary, matrix and info to
	defaultVecOutDir = "./kmervec-vectors-" + string(time.Now().Format("20060102150405")) // a default dir to store the output files
)

// the vectorise command (used by cobra)
var vectoriseCmd = &cobra.Command{
	Use:   "vectorise",
	Short: "Build a k-mer vocabulary from labelled sequences and save their feature matrix",
	Long:  `Build a k-mer vocabulary from labelled sequences and save their feature matrix`,
	Run: func(cmd *cobra.Command, args []string) {
		runVectorise()
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
	vecInputs = vectoriseCmd.Flags().StringSliceP("input", "i", []string{}, "FASTA, TSV or archive files containing labelled sequences - required")
	vecOutDir = vectoriseCmd.Flags().StringP("outDir", "o", defaultVecOutDir, "directory to save the output files to")
	addDatasetFlags(vectoriseCmd)
	vectoriseCmd.Flags().Bool("plot", false, "plot the totals of the most abundant columns")
	vectoriseCmd.MarkFlagRequired("input")
	RootCmd.AddCommand(vectoriseCmd)
}

// vectoriseParamCheck checks the user supplied parameters
func vectoriseParamCheck() error {
	if err := checkInputs(*vecInputs); err != nil {
		return err
	}
	if err := misc.MakeDir(*vecOutDir); err != nil {
		return err
	}
	*proc = misc.SetProcessors(*proc)
	return nil
}

// runVectorise is the main function for the vectorise sub-command
func runVectorise() {
	// set up profiling
	if *profiling {
		defer profile.Start(profile.ProfilePath("./")).Stop()
	}
	defer startLogging(os.Stdout)()

	// start sub command
	start := time.Now()
	log.Printf("kmervec (version %s)", version.GetVersion())
	log.Printf("starting the vectorise subcommand")
	log.Printf("checking parameters...")
	misc.ErrorCheck(vectoriseParamCheck())
	settings := loadSettings()
	log.Printf("\tprocessors: %d", *proc)
	log.Printf("\tk-mer size: %d", settings.Vocabulary.K)
	log.Printf("\tvocabulary: %v %v (%v order)", settings.Vocabulary.Mode, settings.Vocabulary.Feature, settings.Vocabulary.Order)
	log.Printf("\tnormalise: %v", settings.Normalise)
	log.Printf("\tinvalid records: %v (bases: %v)", settings.Records.OnInvalid, settings.Records.Policy)
	log.Printf("\tnumber of input files: %d", len(*vecInputs))

	// set up the runtime info
	info := &pipeline.Info{
		Version:   version.GetVersion(),
		NumProc:   *proc,
		Profiling: *profiling,
		Settings:  settings,
		OutDir:    *vecOutDir,
	}

	// create the pipeline
	log.Printf("initialising vectorise pipeline...")
	vectorisePipeline := pipeline.NewPipeline()

	// initialise processes
	log.Printf("\tinitialising the processes")
	reader := pipeline.NewRecordReader(info)
	assembler := pipeline.NewDatasetAssembler(info)
	writer := pipeline.NewDatasetWriter(info)

	// connect the pipeline processes
	log.Printf("\tconnecting data streams")
	reader.Connect(*vecInputs)
	assembler.Connect(reader)
	writer.Connect(assembler)

	// submit each process to the pipeline and run it
	vectorisePipeline.AddProcesses(reader, assembler, writer)
	log.Printf("\tnumber of processes added to the vectorise pipeline: %d\n", vectorisePipeline.GetNumProcesses())
	log.Print("vectorising...")
	vectorisePipeline.Run()
	log.Printf("memory usage: %v", misc.PrintMemUsage())
	log.Println("finished in ", time.Since(start))
}
