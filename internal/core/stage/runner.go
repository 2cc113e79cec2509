package stage

import (
	"fmt"
	"runtime"
	"sync"
)

// Runner executes registered stages once per frame. Freeze validates the
// declared dependency graph, proves that concurrent stages cannot race on
// their declared columns, and flattens the graph into levels; Frame then
// runs level after level, stages within a level concurrently, fanning
// Parallel stage bodies out across a persistent worker pool.
type Runner struct {
	workers int
	stages  []Stage
	levels  [][]Stage
	outputs []Output
	tasks   chan func()
	frozen  bool
}

// NewRunner starts a pool of workers goroutines. workers <= 0 selects one
// worker per CPU.
func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	r := &Runner{
		workers: workers,
		tasks:   make(chan func(), workers),
	}
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

func (r *Runner) worker() {
	for task := range r.tasks {
		task()
	}
}

// Workers reports the resolved worker count. Sharded outputs consumed by
// Parallel stages must be sized to it.
func (r *Runner) Workers() int {
	return r.workers
}

// Register adds a stage to the pipeline. Registration order breaks no ties;
// only declared dependencies order stages.
func (r *Runner) Register(s Stage) {
	if r.frozen {
		panic("stage: Register after Freeze")
	}
	r.stages = append(r.stages, s)
}

// AttachOutput registers a double-buffered output to swap at frame start.
func (r *Runner) AttachOutput(o Output) {
	if r.frozen {
		panic("stage: AttachOutput after Freeze")
	}
	r.outputs = append(r.outputs, o)
}

// Freeze validates the registered stages and fixes the execution schedule.
// It fails when a dependency names an unknown stage, when dependencies form
// a cycle, or when two stages with no ordering edge between them declare
// overlapping writes, or a write overlapping the other's reads.
func (r *Runner) Freeze() error {
	if r.frozen {
		return fmt.Errorf("stage: runner already frozen")
	}

	byName := make(map[string]int, len(r.stages))
	for i, s := range r.stages {
		if _, dup := byName[s.Name()]; dup {
			return fmt.Errorf("stage: duplicate stage %q", s.Name())
		}
		byName[s.Name()] = i
	}

	deps := make([][]int, len(r.stages))
	for i, s := range r.stages {
		_, isPar := s.(Parallel)
		_, isSer := s.(Serial)
		if isPar == isSer {
			return fmt.Errorf("stage: %q must implement exactly one of Parallel or Serial", s.Name())
		}
		for _, d := range s.Dependencies() {
			j, ok := byName[d]
			if !ok {
				return fmt.Errorf("stage: %q depends on unknown stage %q", s.Name(), d)
			}
			deps[i] = append(deps[i], j)
		}
	}

	// Longest dependency path decides each stage's level. The grey/black
	// walk doubles as cycle detection.
	const (
		white = iota
		grey
		black
	)
	color := make([]int, len(r.stages))
	depth := make([]int, len(r.stages))
	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case grey:
			return fmt.Errorf("stage: dependency cycle through %q", r.stages[i].Name())
		case black:
			return nil
		}
		color[i] = grey
		d := 0
		for _, j := range deps[i] {
			if err := visit(j); err != nil {
				return err
			}
			if depth[j]+1 > d {
				d = depth[j] + 1
			}
		}
		color[i] = black
		depth[i] = d
		return nil
	}
	for i := range r.stages {
		if err := visit(i); err != nil {
			return err
		}
	}

	// reach[i][j] means j is a transitive dependency of i, i.e. the pair is
	// ordered. Unordered pairs must have disjoint write sets and must not
	// write what the other reads.
	reach := make([][]bool, len(r.stages))
	for i := range reach {
		reach[i] = make([]bool, len(r.stages))
	}
	var mark func(root, i int)
	mark = func(root, i int) {
		for _, j := range deps[i] {
			if !reach[root][j] {
				reach[root][j] = true
				mark(root, j)
			}
		}
	}
	for i := range r.stages {
		mark(i, i)
	}
	for i := 0; i < len(r.stages); i++ {
		for j := i + 1; j < len(r.stages); j++ {
			if reach[i][j] || reach[j][i] {
				continue
			}
			a, b := r.stages[i], r.stages[j]
			if a.Writes()&b.Writes() != 0 {
				return fmt.Errorf("stage: %q and %q write the same columns without an ordering edge", a.Name(), b.Name())
			}
			if a.Writes()&b.Reads() != 0 {
				return fmt.Errorf("stage: %q writes columns %q reads without an ordering edge", a.Name(), b.Name())
			}
			if a.Reads()&b.Writes() != 0 {
				return fmt.Errorf("stage: %q writes columns %q reads without an ordering edge", b.Name(), a.Name())
			}
		}
	}

	if len(r.stages) > 0 {
		maxDepth := 0
		for _, d := range depth {
			if d > maxDepth {
				maxDepth = d
			}
		}
		levels := make([][]Stage, maxDepth+1)
		for i, s := range r.stages {
			levels[depth[i]] = append(levels[depth[i]], s)
		}
		r.levels = levels
	}
	r.frozen = true
	return nil
}

// Frame swaps attached outputs, then runs every level to completion in
// order. Panics if the runner has not been frozen.
func (r *Runner) Frame(dt float64) {
	if !r.frozen {
		panic("stage: Frame before Freeze")
	}
	for _, o := range r.outputs {
		o.Swap()
	}
	for _, level := range r.levels {
		if len(level) == 1 {
			r.runStage(level[0], dt)
			continue
		}
		var wg sync.WaitGroup
		for _, s := range level {
			wg.Add(1)
			go func(s Stage) {
				defer wg.Done()
				r.runStage(s, dt)
			}(s)
		}
		wg.Wait()
	}
}

func (r *Runner) runStage(s Stage, dt float64) {
	if p, ok := s.(Preparer); ok {
		p.Prepare(dt)
	}
	switch st := s.(type) {
	case Parallel:
		r.fanOut(st, dt)
	case Serial:
		st.RunAll(Context{DT: dt})
	}
	if f, ok := s.(Finisher); ok {
		f.Finish()
	}
}

func (r *Runner) fanOut(s Parallel, dt float64) {
	n := s.Len()
	if n == 0 {
		return
	}
	chunk := (n + r.workers - 1) / r.workers
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		ctx := Context{DT: dt, Worker: w}
		wg.Add(1)
		r.tasks <- func() {
			defer wg.Done()
			s.RunRange(ctx, start, end)
		}
	}
	wg.Wait()
}

// Close stops the worker pool. The runner must not be used afterwards.
func (r *Runner) Close() {
	close(r.tasks)
}
