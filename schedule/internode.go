package schedule

import (
	"context"

	"github.com/falswe/futoshiki-solver/backtrack"
	"github.com/falswe/futoshiki-solver/cluster"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/workunit"
)

// InterNodeOptions configures C8.
type InterNodeOptions struct {
	Factor float64 // f: task-multiplier factor fed to the depth calibrator
	Cap    int     // work-unit cap; 0 uses workunit.DefaultCap
}

// InterNode runs C8: process rank 0 is the master, ranks 1..Size()-1 are
// workers, per spec.md §4.7. Every rank must have already constructed an
// identical Puzzle (by parsing the same file and running precolor
// independently) so that candidate lists agree bit-for-bit without
// actually serializing the Puzzle over the wire; h.Broadcast is still
// called as a startup rendezvous barrier, matching "the puzzle is
// broadcast once at startup" in spirit.
//
// solveUnit is the per-unit solver each worker runs: for pure C8 this is
// backtrack.Solve from the unit's continuation point; for the hybrid
// scheduler (C9) the caller passes a closure that runs IntraNode over the
// unit's sub-puzzle instead.
//
// dispatched, if non-nil, receives the number of work units the master
// actually handed out before a solution was found or the list was
// exhausted — this is SolverStats.TotalProcessed's source on rank 0.
func InterNode(ctx context.Context, p *puzzle.Puzzle, h cluster.Handle, opts InterNodeOptions, log *logger.Logger, solveUnit func(unit puzzle.WorkUnit) (bool, *puzzle.Grid), dispatched *int) (bool, *puzzle.Grid) {
	if solveUnit == nil {
		solveUnit = func(unit puzzle.WorkUnit) (bool, *puzzle.Grid) {
			g := unit.Apply(p)
			row, col := unit.Continuation(p.Size)
			if backtrack.Solve(p, g, row, col) {
				return true, g
			}
			return false, nil
		}
	}

	if _, err := h.Broadcast(ctx, []byte{}); err != nil {
		log.Error("internode: broadcast rendezvous failed: %v\n", err)
		return false, nil
	}

	if h.Rank() != 0 {
		runWorker(ctx, h, solveUnit, log)
		return false, nil // workers never return a caller-visible result
	}
	return runMaster(ctx, p, h, opts, log, dispatched)
}

func runMaster(ctx context.Context, p *puzzle.Puzzle, h cluster.Handle, opts InterNodeOptions, log *logger.Logger, dispatched *int) (bool, *puzzle.Grid) {
	workers := h.Size() - 1
	if workers < 1 {
		// Single-process deployment: no peers to distribute to.
		log.Step("internode: size 1, solving locally\n")
		g := puzzle.NewGrid(p)
		if dispatched != nil {
			*dispatched = 1
		}
		if backtrack.Solve(p, g, 0, 0) {
			return true, g
		}
		return false, nil
	}

	depth := workunit.Calibrate(p, workers, opts.Factor, log)
	var units []puzzle.WorkUnit
	if depth > 0 {
		units = workunit.Enumerate(p, depth, opts.Cap, log)
	}

	if len(units) == 0 {
		log.Step("internode: no work units, terminating workers and solving locally\n")
		terminateAll(ctx, h, log)
		g := puzzle.NewGrid(p)
		if dispatched != nil {
			*dispatched = 1
		}
		if backtrack.Solve(p, g, 0, 0) {
			return true, g
		}
		return false, nil
	}

	next := 0
	terminated := make(map[int]bool, workers)
	var solution *puzzle.Grid
	solved := false

	for len(terminated) < workers {
		msg, err := h.Recv(ctx)
		if err != nil {
			log.Error("internode: master recv: %v\n", err)
			break
		}

		switch msg.Tag {
		case cluster.WorkRequest:
			if terminated[msg.From] {
				continue
			}
			if solved || next >= len(units) {
				_ = h.Send(ctx, msg.From, cluster.Message{Tag: cluster.Terminate})
				terminated[msg.From] = true
				continue
			}
			unit := units[next]
			next++
			_ = h.Send(ctx, msg.From, cluster.Message{Tag: cluster.WorkAssignment, Payload: encodeUnit(unit)})

		case cluster.SolutionFound:
			// The finder's SolutionData frame follows; frames from other
			// workers may arrive in between, so it is handled by its own
			// case below.

		case cluster.SolutionData:
			if !solved {
				if g, err := decodeGrid(msg.Payload); err == nil {
					solution = g
					solved = true
					log.Step("internode: recorded solution from rank %d\n", msg.From)
				}
			}
			_ = h.Send(ctx, msg.From, cluster.Message{Tag: cluster.Terminate})
			terminated[msg.From] = true

		default:
			// Workers that reported after shutdown began send stray
			// frames; drain and terminate them per spec.md §4.7.
			_ = h.Send(ctx, msg.From, cluster.Message{Tag: cluster.Terminate})
			terminated[msg.From] = true
		}

		if solved {
			terminateRemaining(ctx, h, workers, terminated)
			break
		}
	}

	if dispatched != nil {
		*dispatched = next
	}
	return solved, solution
}

// terminateAll sends TERMINATE to every worker without waiting for
// WORK_REQUESTs first, used for the degenerate empty-unit-list path.
func terminateAll(ctx context.Context, h cluster.Handle, log *logger.Logger) {
	for rank := 1; rank < h.Size(); rank++ {
		if err := h.Send(ctx, rank, cluster.Message{Tag: cluster.Terminate}); err != nil {
			log.Error("internode: terminate rank %d: %v\n", rank, err)
		}
	}
}

// terminateRemaining drains any already-queued WORK_REQUESTs and sends
// TERMINATE to every worker not yet acknowledged, so the master doesn't
// exit until all workers have been terminated (spec.md §4.7).
func terminateRemaining(ctx context.Context, h cluster.Handle, workers int, terminated map[int]bool) {
	for len(terminated) < workers {
		msg, err := h.Recv(ctx)
		if err != nil {
			return
		}
		if terminated[msg.From] {
			continue
		}
		if msg.Tag == cluster.SolutionFound {
			// Wait for this worker's follow-up SolutionData; it is
			// discarded and answered with TERMINATE when it arrives.
			continue
		}
		_ = h.Send(ctx, msg.From, cluster.Message{Tag: cluster.Terminate})
		terminated[msg.From] = true
	}
}

func runWorker(ctx context.Context, h cluster.Handle, solveUnit func(puzzle.WorkUnit) (bool, *puzzle.Grid), log *logger.Logger) {
	for {
		if err := h.Send(ctx, 0, cluster.Message{Tag: cluster.WorkRequest}); err != nil {
			log.Error("internode: worker %d send WorkRequest: %v\n", h.Rank(), err)
			return
		}

		reply, err := h.Recv(ctx)
		if err != nil {
			log.Error("internode: worker %d recv: %v\n", h.Rank(), err)
			return
		}

		switch reply.Tag {
		case cluster.Terminate:
			return

		case cluster.WorkAssignment:
			unit, err := decodeUnit(reply.Payload)
			if err != nil {
				log.Error("internode: worker %d decode unit: %v\n", h.Rank(), err)
				continue
			}
			found, g := solveUnit(unit)
			if found {
				if err := h.Send(ctx, 0, cluster.Message{Tag: cluster.SolutionFound}); err != nil {
					return
				}
				if err := h.Send(ctx, 0, cluster.Message{Tag: cluster.SolutionData, Payload: encodeGrid(g)}); err != nil {
					return
				}
				// Wait for the master's shutdown ack before exiting.
				if ack, err := h.Recv(ctx); err != nil || ack.Tag != cluster.Terminate {
					log.Error("internode: worker %d expected shutdown ack, got %v (err %v)\n", h.Rank(), ack.Tag, err)
				}
				return
			}
			// Not solved: loop back to WORK_REQUEST.

		default:
			log.Error("internode: worker %d got unexpected tag %v\n", h.Rank(), reply.Tag)
		}
	}
}
