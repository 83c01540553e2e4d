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
	"os"

	"github.com/spf13/cobra"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/misc"
	"github.com/will-rowe/kmervec/src/vocabulary"
)

// the command line arguments
var (
	vocabFile *string // a saved vocabulary or model
)

// the vocab command (used by cobra)
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the columns of a saved vocabulary (or the vocabulary of a saved model)",
	Long:  `Print the columns of a saved vocabulary (or the vocabulary of a saved model)`,
	Run: func(cmd *cobra.Command, args []string) {
		runVocab(cmd.OutOrStdout())
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return misc.CheckRequiredFlags(cmd.Flags())
	},
}

// a function to initialise the command line arguments
func init() {
	vocabFile = vocabCmd.Flags().StringP("vocabulary", "v", "", "vocabulary (or model) file - required")
	vocabCmd.MarkFlagRequired("vocabulary")
	RootCmd.AddCommand(vocabCmd)
}

// runVocab is the main function for the vocab sub-command, the columns are written to w
func runVocab(w io.Writer) {
	defer startLogging(os.Stderr)()
	misc.ErrorCheck(misc.CheckFile(*vocabFile))
	vocab, err := vocabulary.Load(*vocabFile)
	if err != nil {
		// try it as a model instead
		model, modelErr := classify.Load(*vocabFile)
		if modelErr != nil {
			misc.ErrorCheck(err)
		}
		vocab = model.Vocabulary
	}
	_, err = fmt.Fprintf(w, "# k=%d\tmode=%v\torder=%v\tfeature=%v\tcolumns=%d\n", vocab.K(), vocab.Mode(), vocab.Order(), vocab.Feature(), vocab.Len())
	misc.ErrorCheck(err)
	for i := 0; i < vocab.Len(); i++ {
		_, err = fmt.Fprintf(w, "%d\t%v\n", i, vocab.Column(i))
		misc.ErrorCheck(err)
	}
}
