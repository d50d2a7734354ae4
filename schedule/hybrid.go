package schedule

import (
	"context"

	"github.com/falswe/futoshiki-solver/cluster"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// HybridOptions configures C9: separate factors for the inter-node (outer)
// and intra-node (inner) tiers, per spec.md §6's "-mf M -of O".
type HybridOptions struct {
	MasterFactor float64 // mf: C8's depth-calibrator factor
	OuterFactor  float64 // of: each worker's local C7 factor
	Threads      int     // T: each worker's local task-pool size
	Cap          int
}

// Hybrid runs C9: the C8 master/worker protocol unchanged, except each
// worker treats its received WorkUnit as a sub-puzzle and solves it with
// C7 (IntraNode) instead of a single sequential backtrack.Solve. Per
// spec.md §4.8, if a worker's local work-unit enumeration for its
// sub-problem yields zero units, it falls back to solving sequentially
// from the continuation point — which IntraNode already does as its own
// degenerate-input fallback, so no special-casing is needed here.
func Hybrid(ctx context.Context, p *puzzle.Puzzle, h cluster.Handle, opts HybridOptions, log *logger.Logger, dispatched *int) (bool, *puzzle.Grid) {
	solveUnit := func(unit puzzle.WorkUnit) (bool, *puzzle.Grid) {
		// unit.Continuation(p.Size) names the cell C8 would hand back to a
		// bare sequential continuation; subPuzzle bakes that same boundary
		// into sub.Board as preset cells instead, so C7's own calibrator
		// and enumerator (which already skip presets in row-major order,
		// per workunit.countFrom/enumerator.walk) resume the search at
		// exactly that point without needing the coordinates explicitly.
		sub := subPuzzle(p, unit)
		found, g := IntraNode(sub, IntraNodeOptions{
			Threads: opts.Threads,
			Factor:  opts.OuterFactor,
			Cap:     opts.Cap,
		}, log, nil)
		if !found {
			return false, nil
		}
		return true, g
	}

	return InterNode(ctx, p, h, InterNodeOptions{Factor: opts.MasterFactor, Cap: opts.Cap}, log, solveUnit, dispatched)
}

// subPuzzle builds a Puzzle identical to p except that unit's assignments
// are folded in as additional pre-set cells, so C7's own calibrator and
// enumerator (which only look at p.Board) treat them as fixed. Candidate
// lists are cloned so narrowing the assigned cells to singletons never
// touches the shared Puzzle; no pre-coloring pass is run on the
// sub-puzzle.
func subPuzzle(p *puzzle.Puzzle, unit puzzle.WorkUnit) *puzzle.Puzzle {
	board := make([][]int, p.Size)
	for r := 0; r < p.Size; r++ {
		board[r] = make([]int, p.Size)
		for c := 0; c < p.Size; c++ {
			board[r][c] = p.Board(r, c)
		}
	}
	for _, a := range unit.Assignments {
		board[a.Row][a.Col] = a.Color
	}

	hCons := make([][]puzzle.Cons, p.Size)
	vCons := make([][]puzzle.Cons, p.Size)
	for r := 0; r < p.Size; r++ {
		hCons[r] = make([]puzzle.Cons, p.Size)
		vCons[r] = make([]puzzle.Cons, p.Size)
		for c := 0; c < p.Size-1; c++ {
			hCons[r][c] = p.HCons(r, c)
		}
		if r < p.Size-1 {
			for c := 0; c < p.Size; c++ {
				vCons[r][c] = p.VCons(r, c)
			}
		}
	}

	sub, err := puzzle.New(board, hCons, vCons)
	if err != nil {
		// unit was safe-by-construction (P4), so this cannot happen;
		// fall back to the parent puzzle rather than panicking.
		return p
	}
	sub.Candidates = p.Candidates.Clone()
	for _, a := range unit.Assignments {
		for v := 1; v <= sub.Size; v++ {
			if v != a.Color {
				sub.Candidates.Remove(a.Row, a.Col, v)
			}
		}
	}
	return sub
}
