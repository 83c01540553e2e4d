package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/will-rowe/kmervec/src/classify"
	"github.com/will-rowe/kmervec/src/config"
	"github.com/will-rowe/kmervec/src/version"
)

///////////////////////////////////////////////////////////////////////////////////////////////

/*
TEST DATA
*/
// two easily separated classes: AT rich and GC rich sequences
func writeTestRecords(t *testing.T, dir string) string {
	var b strings.Builder
	b.WriteString("sequence\tlabel\tid\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "%v\tat\tat-%d\n", strings.Repeat("AATTA", 4+i), i)
		fmt.Fprintf(&b, "%v\tgc\tgc-%d\n", strings.Repeat("GGCCG", 4+i), i)
	}
	path := filepath.Join(dir, "records.tsv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

///////////////////////////////////////////////////////////////////////////////////////////////

/*
TEST PARAMETERS
*/
func testParameters(t *testing.T) *Info {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("vocabulary.k", 3)
	v.Set("workers", 2)
	v.Set("train.test-fraction", 0.3)
	v.Set("train.prune", true)
	v.Set("plot", true)
	settings, err := config.NewConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	return &Info{
		NumProc:  1,
		Version:  version.GetVersion(),
		Settings: settings,
		OutDir:   t.TempDir(),
	}
}

///////////////////////////////////////////////////////////////////////////////////////////////

/*
DUMMY PIPELINE
*/

type ComponentA struct {
	input  []int
	output chan int
}

func NewComponentA(i []int) *ComponentA {
	return &ComponentA{input: i, output: make(chan int)}
}

func (ComponentA *ComponentA) Run() {
	defer close(ComponentA.output)
	for _, input := range ComponentA.input {
		ComponentA.output <- input
	}
}

type ComponentB struct {
	input    chan int
	addition int
	results  []int
}

func NewComponentB(i int) *ComponentB {
	return &ComponentB{addition: i}
}

func (ComponentB *ComponentB) Connect(previous *ComponentA) {
	ComponentB.input = previous.output
}

func (ComponentB *ComponentB) Run() {
	results := []int{}
	for input := range ComponentB.input {
		results = append(results, (input + ComponentB.addition))
	}
	ComponentB.results = results

}

///////////////////////////////////////////////////////////////////////////////////////////////

/*
DUMMY PIPELINE TEST
*/

func TestPipeline(t *testing.T) {
	inputValues := []int{1, 2, 3, 4}
	expectedOutput := []int{11, 12, 13, 14}

	// create the processes
	a := NewComponentA(inputValues)
	b := NewComponentB(10)

	// an empty pipeline has nothing to run
	NewPipeline().Run()

	// create the pipeline
	newPipeline := NewPipeline()

	// add the processes and connect them
	newPipeline.AddProcesses(a, b)
	b.Connect(a)
	if len(newPipeline.processes) != 2 {
		t.Fatal("did not add correct number of processes to pipeline")
	}

	// run the pipeline
	newPipeline.Run()

	// once the pipeline is done, there should be results in the final component
	if len(expectedOutput) != len(b.results) {
		t.Fatal("pipeline did not produce expected output")
	}
	for i, val := range b.results {
		if val != expectedOutput[i] {
			t.Fatal("pipeline did not produce expected output")
		}
	}
}

///////////////////////////////////////////////////////////////////////////////////////////////

/*
KMERVEC PIPELINES
*/

func TestVectorisePipeline(t *testing.T) {
	info := testParameters(t)
	input := writeTestRecords(t, t.TempDir())

	reader := NewRecordReader(info)
	assembler := NewDatasetAssembler(info)
	writer := NewDatasetWriter(info)
	reader.Connect([]string{input})
	assembler.Connect(reader)
	writer.Connect(assembler)
	vectorisePipeline := NewPipeline()
	vectorisePipeline.AddProcesses(reader, assembler, writer)
	if vectorisePipeline.GetNumProcesses() != 3 {
		t.Fatal("wrong number of processes in pipeline")
	}
	vectorisePipeline.Run()

	for _, file := range []string{VocabularyFile, MatrixFile, InfoFile, ColumnsPlot} {
		if _, err := os.Stat(filepath.Join(info.OutDir, file)); err != nil {
			t.Fatalf("pipeline did not write %v: %v", file, err)
		}
	}
	if info.Records != 20 || info.Skipped != 0 {
		t.Fatalf("pipeline vectorised %d records and skipped %d, expected 20 and 0", info.Records, info.Skipped)
	}

	// the saved info should match the runtime
	loaded := &Info{}
	if err := loaded.Load(filepath.Join(info.OutDir, InfoFile)); err != nil {
		t.Fatal(err)
	}
	if loaded.Version != info.Version || loaded.Columns != info.Columns || loaded.Settings.Vocabulary.K != 3 {
		t.Fatal("runtime info was not saved correctly")
	}
	if err := loaded.LoadFromBytes(nil); err == nil {
		t.Fatal("loading empty info should fail")
	}
}

func TestTrainAndClassifyPipelines(t *testing.T) {
	info := testParameters(t)
	input := writeTestRecords(t, t.TempDir())

	// train
	var report bytes.Buffer
	reader := NewRecordReader(info)
	assembler := NewDatasetAssembler(info)
	trainer := NewModelTrainer(info, &report)
	reader.Connect([]string{input})
	assembler.Connect(reader)
	trainer.Connect(assembler)
	trainingPipeline := NewPipeline()
	trainingPipeline.AddProcesses(reader, assembler, trainer)
	trainingPipeline.Run()

	if info.Model() == nil {
		t.Fatal("no model attached after training")
	}
	if info.Columns != info.Model().Vocabulary.Len() {
		t.Fatalf("model has %d columns but the runtime info reports %d", info.Model().Vocabulary.Len(), info.Columns)
	}
	if info.Accuracy != 1.0 {
		t.Fatalf("expected the held-out records to be classified perfectly, got %v", info.Accuracy)
	}
	if !strings.HasPrefix(report.String(), "accuracy\t1.0000\t(6/6)") {
		t.Fatalf("unexpected evaluation report: %v", report.String())
	}
	for _, file := range []string{ModelFile, InfoFile, AccuracyPlot} {
		if _, err := os.Stat(filepath.Join(info.OutDir, file)); err != nil {
			t.Fatalf("pipeline did not write %v: %v", file, err)
		}
	}

	// classify new records with the saved model
	queries := filepath.Join(t.TempDir(), "queries.fasta")
	if err := os.WriteFile(queries, []byte(">q1\nTTAATTAATTAATTAA\n>q2\nCCGGCCGGCCGG\n"), 0644); err != nil {
		t.Fatal(err)
	}
	classifyInfo := testParameters(t)
	model, err := classify.Load(filepath.Join(info.OutDir, ModelFile))
	if err != nil {
		t.Fatal(err)
	}
	classifyInfo.AttachModel(model)
	var predictions bytes.Buffer
	reader = NewRecordReader(classifyInfo)
	assembler = NewDatasetAssembler(classifyInfo)
	classifier := NewClassifier(classifyInfo, &predictions)
	reader.Connect([]string{queries})
	assembler.Connect(reader)
	classifier.Connect(assembler)
	classifyPipeline := NewPipeline()
	classifyPipeline.AddProcesses(reader, assembler, classifier)
	classifyPipeline.Run()

	lines := strings.Split(strings.TrimSpace(predictions.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "q1\tat\t") || !strings.HasPrefix(lines[1], "q2\tgc\t") {
		t.Fatalf("unexpected predictions: %v", lines)
	}
}
