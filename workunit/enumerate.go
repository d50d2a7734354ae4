// Package workunit implements the work-unit enumerator (C5, spec.md §4.4)
// and the depth calibrator (C6, spec.md §4.5): turning the partially
// propagated search tree into a distributable list of independent
// sub-problems, sized to the worker count.
package workunit

import (
	"github.com/falswe/futoshiki-solver/constraint"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// DefaultCap bounds the number of WorkUnits Enumerate will materialize,
// per the open question in spec.md §9 (the C source used both 10,000 and
// 100,000 in different paths; this re-implementation picks one value and
// exposes it as a parameter for callers that need something smaller).
const DefaultCap = 100_000

// enumerator walks the board in row-major order, recording safe
// assignments until depth is reached or the board is exhausted.
type enumerator struct {
	p     *puzzle.Puzzle
	depth int
	cap   int

	scratch *puzzle.Grid
	current []puzzle.Assignment
	out     []puzzle.WorkUnit
	capped  bool
}

// Enumerate materializes the WorkUnit list described in spec.md §4.4,
// truncating at cap (DefaultCap if cap <= 0) and logging a warning if the
// cap is hit. Order is deterministic given (p, depth).
func Enumerate(p *puzzle.Puzzle, depth int, cap int, log *logger.Logger) []puzzle.WorkUnit {
	if cap <= 0 {
		cap = DefaultCap
	}
	e := &enumerator{
		p:       p,
		depth:   depth,
		cap:     cap,
		scratch: puzzle.NewGrid(p),
	}
	e.walk(0, 0)
	if e.capped {
		log.Error("workunit: unit cap %d reached, truncating enumeration\n", cap)
	}
	log.Step("workunit: enumerated %d units at depth %d\n", len(e.out), depth)
	return e.out
}

func (e *enumerator) walk(row, col int) {
	if e.capped {
		return
	}
	if len(e.current) == e.depth || row == e.p.Size {
		e.emit()
		return
	}

	nextRow, nextCol := row, col+1
	if nextCol == e.p.Size {
		nextRow, nextCol = row+1, 0
	}

	if preset := e.p.Board(row, col); preset != 0 {
		e.scratch.Cell[row][col] = preset
		e.walk(nextRow, nextCol)
		return
	}

	for _, color := range e.p.Candidates.Values(row, col) {
		if e.capped {
			return
		}
		if !constraint.Safe(e.p, row, col, e.scratch, color) {
			continue
		}
		e.scratch.Cell[row][col] = color
		e.current = append(e.current, puzzle.Assignment{Row: row, Col: col, Color: color})
		e.walk(nextRow, nextCol)
		e.current = e.current[:len(e.current)-1]
		e.scratch.Cell[row][col] = 0
	}
}

func (e *enumerator) emit() {
	if len(e.out) >= e.cap {
		e.capped = true
		return
	}
	assignments := make([]puzzle.Assignment, len(e.current))
	copy(assignments, e.current)
	e.out = append(e.out, puzzle.WorkUnit{Assignments: assignments, Depth: len(assignments)})
}
