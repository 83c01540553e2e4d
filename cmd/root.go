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
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/will-rowe/kmervec/src/config"
	"github.com/will-rowe/kmervec/src/misc"
)

// the command line arguments
var (
	proc         *int    // number of processors to use
	profiling    *bool   // create profile for go pprof
	logFile      *string // file to write the log to
	settingsFile *string // settings file read by viper
)

// flagKeys maps the subcommand flags to their settings keys
var flagKeys = map[string]string{
	"kmerSize":     "vocabulary.k",
	"mode":         "vocabulary.mode",
	"order":        "vocabulary.order",
	"feature":      "vocabulary.feature",
	"maxColumns":   "vocabulary.max-columns",
	"policy":       "records.policy",
	"onInvalid":    "records.on-invalid",
	"testFraction": "train.test-fraction",
	"seed":         "train.seed",
	"prune":        "train.prune",
	"normalise":    "normalise",
	"workers":      "workers",
	"plot":         "plot",
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "kmervec",
	Short: "turn labelled DNA sequences into k-mer feature matrices for sequence classification",
	Long: `
#####################################################################################
		kmervec: k-mer vectorisation of DNA sequences
#####################################################################################

 kmervec converts labelled DNA sequences into fixed-width numeric feature vectors.

 Each sequence is split into overlapping k-mers, which are counted against a column
 vocabulary (either the k-mers observed in the corpus or every possible k-mer). The
 resulting matrix can be saved, or used to train and evaluate a simple nearest-centroid
 classifier which can then label new sequences.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// init the command line arguments
func init() {
	cobra.OnInitialize(initSettings)
	proc = RootCmd.PersistentFlags().IntP("processors", "p", 1, "number of processors to use")
	profiling = RootCmd.PersistentFlags().Bool("profiling", false, "create the files needed to profile kmervec using the go tool pprof")
	logFile = RootCmd.PersistentFlags().String("log", "", "filename for log file, default = STDOUT (STDERR for train, classify and vocab)")
	settingsFile = RootCmd.PersistentFlags().String("settings", "", "settings file (yaml, json or toml) - flags override the file")
	config.SetDefaults(viper.GetViper())
}

// initSettings reads in the settings file if one was given
func initSettings() {
	if *settingsFile == "" {
		return
	}
	viper.SetConfigFile(*settingsFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("can't read settings file: %v\n", err)
		os.Exit(1)
	}
}

// bindSettings binds the flags of a subcommand to the viper settings, so that set flags take precedence over the settings file
func bindSettings(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDatasetFlags adds the flags that control how records are vectorised
func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("kmerSize", "k", 6, "size of k-mer")
	cmd.Flags().String("mode", "observed", "vocabulary mode (observed or exhaustive)")
	cmd.Flags().String("order", "first-seen", "column order for observed vocabularies (first-seen or lexical)")
	cmd.Flags().String("feature", "kmer", "what each column counts (kmer or composition)")
	cmd.Flags().Int("maxColumns", 1<<20, "maximum number of columns for exhaustive vocabularies")
	cmd.Flags().Bool("normalise", false, "convert k-mer counts to frequencies")
	addRecordFlags(cmd)
}

// addRecordFlags adds the flags that control how invalid records are handled
func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("policy", "reject", "what to do with non-ACGT bases (reject or strip)")
	cmd.Flags().String("onInvalid", "reject", "what to do with records that can't be vectorised (reject or skip)")
	cmd.Flags().Int("workers", 0, "number of goroutines used for vectorising (0 = one per CPU)")
}

// startLogging sends the log to the log file if given, otherwise to the supplied writer
func startLogging(fallback io.Writer) func() {
	if *logFile == "" {
		log.SetOutput(fallback)
		return func() {}
	}
	logFH, err := misc.StartLogging(*logFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log.SetOutput(logFH)
	return func() { logFH.Close() }
}

// loadSettings unmarshals the settings after the flags have been bound
func loadSettings() *config.Config {
	settings, err := config.NewConfig(viper.GetViper())
	misc.ErrorCheck(err)
	return settings
}

// checkInputs checks the input files exist and have a recognised extension
func checkInputs(inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files specified")
	}
	for _, input := range inputs {
		if err := misc.CheckFile(input); err != nil {
			return err
		}
		if err := misc.CheckExt(input, inputExts); err != nil {
			return err
		}
	}
	return nil
}

// the file extensions accepted as input (a trailing .gz is ignored when checking)
var inputExts = []string{"fasta", "fa", "fna", "fas", "tsv", "txt", "tar", "tgz", "zip"}
