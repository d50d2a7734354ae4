package workunit

import (
	"math"

	"github.com/falswe/futoshiki-solver/constraint"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// maxDepth bounds enumeration depth by puzzle size so the pure counting
// pass in Calibrate stays tractable, per spec.md §4.5.
func maxDepth(size int) int {
	switch {
	case size <= 9:
		return 5
	case size <= 15:
		return 4
	default:
		return 3
	}
}

// Calibrate implements the C6 depth calibrator: chooses the smallest
// depth d whose exact count of safe depth-d prefixes exceeds the target
// T = max(1, ceil(workers*factor)) (also T >= workers when factor >= 1),
// capped by min(emptyCells, maxDepth(size)). Returns 0 if the puzzle has
// no empty cells ("trivial, no distribution").
func Calibrate(p *puzzle.Puzzle, workers int, factor float64, log *logger.Logger) int {
	empty := countEmpty(p)
	if empty == 0 {
		return 0
	}

	target := targetTasks(workers, factor)

	limit := maxDepth(p.Size)
	if empty < limit {
		limit = empty
	}

	for d := 1; d <= limit; d++ {
		count := countPrefixes(p, d)
		log.Detail("calibrate: depth %d has %d safe prefixes (target %d)\n", d, count, target)
		if count > target {
			log.Step("calibrate: chose depth %d for %d workers, factor %.2f\n", d, workers, factor)
			return d
		}
	}
	log.Step("calibrate: reached depth cap %d without exceeding target %d\n", limit, target)
	return limit
}

func targetTasks(workers int, factor float64) int {
	t := int(math.Ceil(float64(workers) * factor))
	if t < 1 {
		t = 1
	}
	if factor >= 1 && t < workers {
		t = workers
	}
	return t
}

func countEmpty(p *puzzle.Puzzle) int {
	n := 0
	for r := 0; r < p.Size; r++ {
		for c := 0; c < p.Size; c++ {
			if p.Board(r, c) == 0 {
				n++
			}
		}
	}
	return n
}

// countPrefixes counts exact safe depth-d prefixes without materializing
// them, by enumerating only over the first d empty cells in row-major
// order (spec.md §4.5: "a pure enumeration over the first d empty
// cells").
func countPrefixes(p *puzzle.Puzzle, d int) int {
	scratch := puzzle.NewGrid(p)
	return countFrom(p, scratch, 0, 0, d)
}

func countFrom(p *puzzle.Puzzle, g *puzzle.Grid, row, col, remaining int) int {
	if remaining == 0 {
		return 1
	}
	if row == p.Size {
		return 1
	}

	nextRow, nextCol := row, col+1
	if nextCol == p.Size {
		nextRow, nextCol = row+1, 0
	}

	if preset := p.Board(row, col); preset != 0 {
		g.Cell[row][col] = preset
		n := countFrom(p, g, nextRow, nextCol, remaining)
		return n
	}

	total := 0
	for _, color := range p.Candidates.Values(row, col) {
		if !constraint.Safe(p, row, col, g, color) {
			continue
		}
		g.Cell[row][col] = color
		total += countFrom(p, g, nextRow, nextCol, remaining-1)
		g.Cell[row][col] = 0
	}
	return total
}
