// Package reporting summarises vectorised datasets and classifier evaluations, as text and as plots.
package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/dataset"
)

// DefaultTopColumns is the number of columns shown in column reports and plots
const DefaultTopColumns = 40

// ColumnTotal is the summed value of one vocabulary column across a dataset
type ColumnTotal struct {
	Column string
	Index  int
	Total  float64
}

// ColumnTotals sums every column of the dataset matrix
func ColumnTotals(ds *dataset.Dataset) []ColumnTotal {
	totals := make([]ColumnTotal, ds.Vocabulary.Len())
	for i := range totals {
		totals[i].Column = ds.Vocabulary.Column(i)
		totals[i].Index = i
	}
	for _, row := range ds.Matrix {
		for i, v := range row {
			totals[i].Total += v
		}
	}
	return totals
}

// TopColumns returns the n columns with the largest totals, ties broken by column order
func TopColumns(ds *dataset.Dataset, n int) []ColumnTotal {
	totals := ColumnTotals(ds)
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	if n > 0 && n < len(totals) {
		totals = totals[:n]
	}
	return totals
}

// PrintColumns writes the top columns of a dataset as tab separated lines
func PrintColumns(w io.Writer, ds *dataset.Dataset, n int) error {
	for _, ct := range TopColumns(ds, n) {
		if _, err := fmt.Fprintf(w, "%v\t%d\t%g\n", ct.Column, ct.Index, ct.Total); err != nil {
			return err
		}
	}
	return nil
}

// PrintEvaluation writes the accuracy, per-class recall and confusion matrix of an evaluation
func PrintEvaluation(w io.Writer, eval *classify.Evaluation) error {
	var b strings.Builder
	fmt.Fprintf(&b, "accuracy\t%.4f\t(%d/%d)\n", eval.Accuracy(), eval.Correct, eval.Total)
	if eval.Unknown > 0 {
		fmt.Fprintf(&b, "unknown labels\t%d\n", eval.Unknown)
	}
	recall := eval.Recall()
	for i, class := range eval.Classes {
		fmt.Fprintf(&b, "recall\t%v\t%.4f\n", class, recall[i])
	}
	b.WriteString("truth\\predicted")
	for _, class := range eval.Classes {
		fmt.Fprintf(&b, "\t%v", class)
	}
	b.WriteString("\n")
	for i, class := range eval.Classes {
		b.WriteString(class)
		for _, n := range eval.Confusion[i] {
			fmt.Fprintf(&b, "\t%d", n)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotColumns saves a bar chart of the top columns of a dataset
func PlotColumns(ds *dataset.Dataset, n int, fileName string) error {
	top := TopColumns(ds, n)
	if len(top) == 0 {
		return fmt.Errorf("no columns to plot")
	}
	values := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, ct := range top {
		values[i] = ct.Total
		names[i] = ct.Column
	}
	yLabel := "count"
	if ds.Normalised {
		yLabel = "summed frequency"
	}
	return barPlot("column totals", "column", yLabel, values, names, fileName)
}

// PlotAccuracy saves a bar chart of the per-class recall of an evaluation
func PlotAccuracy(eval *classify.Evaluation, fileName string) error {
	if len(eval.Classes) == 0 {
		return fmt.Errorf("no classes to plot")
	}
	title := fmt.Sprintf("per-class recall (accuracy %.2f)", eval.Accuracy())
	return barPlot(title, "class", "recall", plotter.Values(eval.Recall()), eval.Classes, fileName)
}

// barPlot draws one set of bars with nominal x labels
func barPlot(title, xLabel, yLabel string, values plotter.Values, names []string, fileName string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	width := vg.Length(len(values))*3*vg.Millimeter + 4*vg.Inch
	return p.Save(width, 6*vg.Inch, fileName)
}
