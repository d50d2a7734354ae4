// Package solver is the single entry point every cmd/futoshiki mode
// calls: it runs C3, asks C6 for a depth, asks C5 for a work-unit list,
// and then drives whichever scheduler (C4 fallback, C7, C8, or C9) the
// caller's Mode selects, per spec.md §2's control flow.
package solver

import (
	"context"
	"fmt"

	"github.com/falswe/futoshiki-solver/backtrack"
	"github.com/falswe/futoshiki-solver/cluster"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/precolor"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/schedule"
	"github.com/falswe/futoshiki-solver/stats"
)

// Mode selects which scheduling runtime drives the solve.
type Mode int

const (
	Sequential Mode = iota // C4 only
	IntraNode              // C7
	InterNode              // C8
	Hybrid                 // C9
)

// RuntimeContext threads the process-wide values the teacher's C lineage
// read from rank/size/verbosity globals (spec.md §9), so every scheduler
// call is reentrant and testable without package state.
type RuntimeContext struct {
	Cluster cluster.Handle // required for InterNode/Hybrid; ignored otherwise
	Logger  *logger.Logger
}

// Options configures a single Solve call.
type Options struct {
	Mode Mode

	DisablePreColor bool // -n

	Threads int     // -t, intra-node pool size (IntraNode, and Hybrid's inner tier)
	Factor  float64 // -f, intra-node/inter-node task multiplier

	MasterFactor float64 // -mf, hybrid outer (inter-node) factor
	OuterFactor  float64 // -of, hybrid inner (intra-node) factor

	UnitCap int // work-unit cap override; 0 uses workunit.DefaultCap
}

// Solve runs a complete solve of p under opts, returning the solution (if
// any) and the statistics spec.md §3 requires regardless of outcome.
func Solve(ctx context.Context, rc RuntimeContext, p *puzzle.Puzzle, opts Options) (*puzzle.Solution, stats.SolverStats, error) {
	if rc.Logger == nil {
		rc.Logger = logger.Default()
	}
	total := stats.StartTimer()

	var st stats.SolverStats
	if !opts.DisablePreColor {
		pre := stats.StartTimer()
		res := precolor.Run(p, rc.Logger)
		st.PreColorSeconds = pre.ElapsedSeconds()
		st.ColorsRemoved = res.ColorsRemoved
	}
	st.RemainingColors = remainingCandidates(p)

	coloring := stats.StartTimer()
	found, grid, processed, err := dispatch(ctx, rc, p, opts)
	st.ColoringSeconds = coloring.ElapsedSeconds()
	st.TotalProcessed = processed
	st.TotalSeconds = total.ElapsedSeconds()
	st.FoundSolution = found

	if err != nil {
		return nil, st, err
	}
	if !found {
		return nil, st, nil
	}
	return puzzle.FromGrid(grid), st, nil
}

// dispatch runs the scheduler opts.Mode selects. The returned int is
// SolverStats.TotalProcessed: the number of independent work-unit subtrees
// the active scheduler actually explored (always 1 for a bare C4 solve).
func dispatch(ctx context.Context, rc RuntimeContext, p *puzzle.Puzzle, opts Options) (bool, *puzzle.Grid, int, error) {
	switch opts.Mode {
	case Sequential:
		g := puzzle.NewGrid(p)
		found := backtrack.Solve(p, g, 0, 0)
		if !found {
			return false, nil, 1, nil
		}
		return true, g, 1, nil

	case IntraNode:
		var processed int
		found, g := schedule.IntraNode(p, schedule.IntraNodeOptions{
			Threads: opts.Threads,
			Factor:  defaultFactor(opts.Factor, 4.0),
			Cap:     opts.UnitCap,
		}, rc.Logger, &processed)
		if processed == 0 {
			processed = 1 // fell back to a single direct backtrack
		}
		return found, g, processed, nil

	case InterNode:
		if rc.Cluster == nil {
			return false, nil, 0, fmt.Errorf("solver: InterNode mode requires a RuntimeContext.Cluster")
		}
		var processed int
		found, g := schedule.InterNode(ctx, p, rc.Cluster, schedule.InterNodeOptions{
			Factor: defaultFactor(opts.Factor, 1.0),
			Cap:    opts.UnitCap,
		}, rc.Logger, nil, &processed)
		return found, g, processed, nil

	case Hybrid:
		if rc.Cluster == nil {
			return false, nil, 0, fmt.Errorf("solver: Hybrid mode requires a RuntimeContext.Cluster")
		}
		var processed int
		found, g := schedule.Hybrid(ctx, p, rc.Cluster, schedule.HybridOptions{
			MasterFactor: defaultFactor(opts.MasterFactor, 1.0),
			OuterFactor:  defaultFactor(opts.OuterFactor, 4.0),
			Threads:      opts.Threads,
			Cap:          opts.UnitCap,
		}, rc.Logger, &processed)
		return found, g, processed, nil

	default:
		return false, nil, 0, fmt.Errorf("solver: unknown mode %d", opts.Mode)
	}
}

func defaultFactor(f, def float64) float64 {
	if f <= 0 {
		return def
	}
	return f
}

func remainingCandidates(p *puzzle.Puzzle) int {
	n := 0
	for r := 0; r < p.Size; r++ {
		for c := 0; c < p.Size; c++ {
			n += p.Candidates.Len(r, c)
		}
	}
	return n
}
