// Package precolor implements the C3 pre-coloring pass: iterated
// candidate filtering plus singleton uniqueness propagation to a fixed
// point, per spec.md §4.2.
package precolor

import (
	"github.com/falswe/futoshiki-solver/constraint"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// Result carries the statistics the caller (solver.Solve) folds into
// stats.SolverStats.
type Result struct {
	Rounds        int
	ColorsRemoved int
}

// Run iterates the two-step round described in spec.md §4.2 until no
// candidate list changes, returning the number of candidates removed in
// total. It never aborts on an empty candidate set (spec.md's failure
// mode): the caller observes that via puzzle.Candidates.Empty and fails
// cleanly in backtrack.Solve.
func Run(p *puzzle.Puzzle, log *logger.Logger) Result {
	res := Result{}
	for {
		changed := false

		// Step 1: discard candidates that fail satisfies_inequalities.
		for r := 0; r < p.Size; r++ {
			for c := 0; c < p.Size; c++ {
				for _, v := range p.Candidates.Values(r, c) {
					if !constraint.SatisfiesInequalities(p, r, c, v) {
						p.Candidates.Remove(r, c, v)
						res.ColorsRemoved++
						changed = true
					}
				}
			}
		}

		// Step 2: singleton cells remove their value from the rest of
		// their row and column.
		for r := 0; r < p.Size; r++ {
			for c := 0; c < p.Size; c++ {
				v, ok := p.Candidates.Singleton(r, c)
				if !ok {
					continue
				}
				for col := 0; col < p.Size; col++ {
					if col != c && p.Candidates.Remove(r, col, v) {
						res.ColorsRemoved++
						changed = true
					}
				}
				for row := 0; row < p.Size; row++ {
					if row != r && p.Candidates.Remove(row, c, v) {
						res.ColorsRemoved++
						changed = true
					}
				}
			}
		}

		res.Rounds++
		log.Detail("precolor: round %d removed %d so far\n", res.Rounds, res.ColorsRemoved)
		if !changed {
			break
		}
	}
	log.Step("precolor: fixed point after %d rounds, %d candidates removed\n", res.Rounds, res.ColorsRemoved)
	return res
}
