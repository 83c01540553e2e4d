package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/seqio"
)

func testDataset(t *testing.T) *dataset.Dataset {
	cfg := dataset.DefaultConfig()
	cfg.K = 2
	cfg.Workers = 2
	ds, err := dataset.Assemble([]seqio.Record{
		{ID: "r1", Sequence: "ACGT", Label: "sp1"},
		{ID: "r2", Sequence: "ACGA", Label: "sp2"},
	}, cfg)
	require.NoError(t, err)
	return ds
}

func TestColumnTotals(t *testing.T) {
	ds := testDataset(t)
	totals := ColumnTotals(ds)
	require.Len(t, totals, 4)
	assert.Equal(t, ColumnTotal{Column: "AC", Index: 0, Total: 2}, totals[0])
	assert.Equal(t, ColumnTotal{Column: "GA", Index: 3, Total: 1}, totals[3])

	top := TopColumns(ds, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "AC", top[0].Column)
	assert.Equal(t, "CG", top[1].Column)
	assert.Equal(t, "GT", top[2].Column)
	assert.Len(t, TopColumns(ds, 0), 4)
}

func TestPrintColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintColumns(&buf, testDataset(t), 2))
	assert.Equal(t, "AC\t0\t2\nCG\t1\t2\n", buf.String())
}

func TestPrintEvaluation(t *testing.T) {
	eval := &classify.Evaluation{
		Classes:   []string{"a", "b"},
		Confusion: [][]int{{3, 1}, {0, 4}},
		Correct:   7,
		Total:     8,
	}
	var buf bytes.Buffer
	require.NoError(t, PrintEvaluation(&buf, eval))
	assert.Equal(t, "accuracy\t0.8750\t(7/8)\nrecall\ta\t0.7500\nrecall\tb\t1.0000\ntruth\\predicted\ta\tb\na\t3\t1\nb\t0\t4\n", buf.String())
}

func TestPlots(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset(t)

	columns := filepath.Join(dir, "columns.png")
	require.NoError(t, PlotColumns(ds, DefaultTopColumns, columns))
	info, err := os.Stat(columns)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	model, err := classify.Train(ds)
	require.NoError(t, err)
	eval, err := model.Evaluate(ds)
	require.NoError(t, err)
	accuracy := filepath.Join(dir, "accuracy.png")
	require.NoError(t, PlotAccuracy(eval, accuracy))
	_, err = os.Stat(accuracy)
	require.NoError(t, err)

	assert.Error(t, PlotAccuracy(&classify.Evaluation{}, accuracy))
}
