package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/dataset"
	"github.com/will-rowe/kmervec/src/seqio"
)

// runCommand executes the root command with the given arguments and returns what it printed
func runCommand(t *testing.T, args ...string) string {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("kmervec %v failed: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestVectoriseThenVocab(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "records.tsv")
	if err := os.WriteFile(input, []byte("sequence\tlabel\tid\nACGT\tsp1\tr1\nacga\tsp2\tr2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "vectors")
	runCommand(t, "vectorise", "-i", input, "-o", outDir, "-k", "2")
	for _, file := range []string{"vocabulary.msgpack", "matrix.tsv.gz", "kmervec.info"} {
		if _, err := os.Stat(filepath.Join(outDir, file)); err != nil {
			t.Fatalf("vectorise did not write %v: %v", file, err)
		}
	}

	out := runCommand(t, "vocab", "-v", filepath.Join(outDir, "vocabulary.msgpack"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected a header and 4 columns, got: %q", out)
	}
	if !strings.HasPrefix(lines[0], "# k=2\tmode=observed") {
		t.Fatalf("unexpected header: %v", lines[0])
	}
	for i, expected := range []string{"0\tAC", "1\tCG", "2\tGT", "3\tGA"} {
		if lines[i+1] != expected {
			t.Fatalf("line %d: got %q, expected %q", i+1, lines[i+1], expected)
		}
	}
}

func TestVocabFromModel(t *testing.T) {
	cfg := dataset.DefaultConfig()
	cfg.K = 1
	ds, err := dataset.Assemble([]seqio.Record{
		{ID: "a", Sequence: "AATT", Label: "at"},
		{ID: "g", Sequence: "GGCC", Label: "gc"},
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	model, err := classify.Train(ds)
	if err != nil {
		t.Fatal(err)
	}
	modelFile := filepath.Join(t.TempDir(), "model.msgpack")
	if err := model.Dump(modelFile); err != nil {
		t.Fatal(err)
	}

	// a model file falls back to printing the model vocabulary
	out := runCommand(t, "vocab", "-v", modelFile)
	if out != "# k=1\tmode=observed\torder=first-seen\tfeature=kmer\tcolumns=4\n0\tA\n1\tT\n2\tG\n3\tC\n" {
		t.Fatalf("unexpected vocab output: %q", out)
	}
}
