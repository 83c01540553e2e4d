package classify

import (
	"fmt"

	"github.com/will-rowe/kmervec/src/dataset"
)

// Evaluation holds the performance of a model on a labelled dataset
type Evaluation struct {
	Classes   []string
	Confusion [][]int // [true class][predicted class]
	Correct   int
	Total     int
	Unknown   int // rows whose label the model wasn't trained on
}

// Accuracy is the proportion of rows predicted correctly
func (e *Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Correct) / float64(e.Total)
}

// Recall returns the proportion of each class predicted correctly, in class order
func (e *Evaluation) Recall() []float64 {
	recall := make([]float64, len(e.Classes))
	for i, row := range e.Confusion {
		total := 0
		for _, n := range row {
			total += n
		}
		if total > 0 {
			recall[i] = float64(row[i]) / float64(total)
		}
	}
	return recall
}

// Evaluate predicts every row of a dataset and compares the predictions to the labels
//
// The dataset must have been vectorised against the model vocabulary.
func (m *Model) Evaluate(ds *dataset.Dataset) (*Evaluation, error) {
	if !m.Vocabulary.Equal(ds.Vocabulary) {
		return nil, fmt.Errorf("dataset was not vectorised with the model vocabulary")
	}
	lookup := make(map[string]int, len(m.Classes))
	for i, class := range m.Classes {
		lookup[class] = i
	}
	eval := &Evaluation{
		Classes:   m.Classes,
		Confusion: make([][]int, len(m.Classes)),
	}
	for i := range eval.Confusion {
		eval.Confusion[i] = make([]int, len(m.Classes))
	}
	for row, vec := range ds.Matrix {
		predicted, _, err := m.Predict(vec)
		if err != nil {
			return nil, err
		}
		eval.Total++
		truth, ok := lookup[ds.Labels[row]]
		if !ok {
			eval.Unknown++
			continue
		}
		eval.Confusion[truth][lookup[predicted]]++
		if predicted == ds.Labels[row] {
			eval.Correct++
		}
	}
	return eval, nil
}
