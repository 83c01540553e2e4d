// Package pipeline connects the kmervec stages (record reading, vectorising, training and classifying) into
// streaming pipelines, following the composable pipeline pattern described by S. Lampa
// (https://blog.gopheracademy.com/advent-2015/composable-pipelines-improvements/)
package pipeline

import "sync"

// BUFFERSIZE is the size of the buffer used by the pipeline channels
const BUFFERSIZE int = 64

// Process is the interface used by pipeline, each process is connected to the output channel of the one before it
type Process interface {
	Run()
}

// Pipeline is the base type, which takes any types that satisfy the Process interface
type Pipeline struct {
	processes []Process
}

// NewPipeline is the pipeline constructor
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddProcesses is a method to add one or more processes to the pipeline, in the order they run
func (Pipeline *Pipeline) AddProcesses(procs ...Process) {
	Pipeline.processes = append(Pipeline.processes, procs...)
}

// Run is a method that starts the pipeline and returns once every process has finished
//
// The last process runs in the foreground to control the flow, the rest are run in goroutines.
func (Pipeline *Pipeline) Run() {
	if len(Pipeline.processes) == 0 {
		return
	}
	var wg sync.WaitGroup
	last := len(Pipeline.processes) - 1
	for _, process := range Pipeline.processes[:last] {
		wg.Add(1)
		go func(p Process) {
			defer wg.Done()
			p.Run()
		}(process)
	}
	Pipeline.processes[last].Run()
	wg.Wait()
}

// GetNumProcesses is a method to return the number of processes registered in a pipeline
func (Pipeline *Pipeline) GetNumProcesses() int {
	return len(Pipeline.processes)
}
