// Package schedule implements the three scheduling runtimes of spec.md
// §4.6–§4.8: the intra-node task pool (C7), the inter-node master/worker
// protocol (C8), and their hybrid composition (C9).
package schedule

import (
	"sync"

	"github.com/falswe/futoshiki-solver/backtrack"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/workunit"
)

// IntraNodeOptions configures C7.
type IntraNodeOptions struct {
	Threads int     // T: size of the cooperative task pool
	Factor  float64 // f: task-multiplier factor fed to the depth calibrator
	Cap     int     // work-unit cap; 0 uses workunit.DefaultCap
}

// sharedFound is C7's single-writer-many-reader "solution found" flag and
// winning grid, protected by a critical section per spec.md §4.6. It is
// grounded directly on the teacher's ParallelSolver.foundSolution /
// solutionChan pair (solver/parallel_solver.go), generalized from SAT
// clauses to Futoshiki grids.
type sharedFound struct {
	mu       sync.Mutex
	found    bool
	solution *puzzle.Grid
}

func (sf *sharedFound) isFound() bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.found
}

// tryReport is the re-check pattern spec.md §4.6 requires: acquire the
// critical section, re-check found, and only if still unset, publish g as
// the winning solution. Returns true iff this call became the reporter.
func (sf *sharedFound) tryReport(g *puzzle.Grid) bool {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if sf.found {
		return false
	}
	sf.found = true
	sf.solution = g
	return true
}

// IntraNode runs C7: one task per WorkUnit on a fixed-size pool of
// worker goroutines, terminating peers cooperatively on first success.
// tasksSpawned, if non-nil, receives the number of tasks actually
// spawned (S6 requires this to be non-decreasing in factor*threads).
func IntraNode(p *puzzle.Puzzle, opts IntraNodeOptions, log *logger.Logger, tasksSpawned *int) (bool, *puzzle.Grid) {
	if opts.Threads < 1 {
		opts.Threads = 1
	}

	depth := workunit.Calibrate(p, opts.Threads, opts.Factor, log)
	var units []puzzle.WorkUnit
	if depth > 0 {
		units = workunit.Enumerate(p, depth, opts.Cap, log)
	}

	if len(units) == 0 {
		// Degenerate puzzle or depth 0: fall back to C4 directly.
		log.Step("intranode: no work units, falling back to sequential backtracker\n")
		g := puzzle.NewGrid(p)
		found := backtrack.Solve(p, g, 0, 0)
		if tasksSpawned != nil {
			*tasksSpawned = 0
		}
		if found {
			return true, g
		}
		return false, nil
	}

	if tasksSpawned != nil {
		*tasksSpawned = len(units)
	}

	sf := &sharedFound{}
	jobs := make(chan puzzle.WorkUnit)
	var wg sync.WaitGroup

	worker := func(id int) {
		defer wg.Done()
		for unit := range jobs {
			if sf.isFound() {
				continue // drain remaining jobs without doing work
			}
			g := unit.Apply(p)
			row, col := unit.Continuation(p.Size)
			if backtrack.Solve(p, g, row, col) {
				if sf.tryReport(g) {
					log.Step("intranode: worker %d found the solution\n", id)
				}
			}
		}
	}

	for i := 0; i < opts.Threads; i++ {
		wg.Add(1)
		go worker(i)
	}
	for _, unit := range units {
		jobs <- unit
	}
	close(jobs)
	wg.Wait()

	if sf.found {
		return true, sf.solution
	}
	return false, nil
}
