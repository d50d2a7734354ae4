// Package backtrack implements the sequential backtracker (spec.md §4.3):
// the ultimate worker every scheduler — C4 itself, and each C7 task or C8
// worker's local solve — bottoms out in. Per the open question in spec.md
// §9 this adopts the strict row-major continuation: after placing a color
// at (row,col) it recurses into (row,col+1), wrapping to the next row.
package backtrack

import (
	"github.com/falswe/futoshiki-solver/constraint"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// Solve completes g from (row,col) onward in row-major visit order. It
// returns true iff a solution was found, leaving g populated on success;
// on failure every empty cell it filled is reset to 0, while pre-set cells
// keep their board value. Solve is reentrant from any (row,col) given a
// partially filled g, which is exactly what a WorkUnit's continuation
// point requires.
func Solve(p *puzzle.Puzzle, g *puzzle.Grid, row, col int) bool {
	if row == p.Size {
		return true
	}
	nextRow, nextCol := row, col+1
	if nextCol == p.Size {
		nextRow, nextCol = row+1, 0
	}

	if preset := p.Board(row, col); preset != 0 {
		g.Cell[row][col] = preset
		if Solve(p, g, nextRow, nextCol) {
			return true
		}
		g.Cell[row][col] = preset // pre-set cells are never reset to 0
		return false
	}

	for _, color := range p.Candidates.Values(row, col) {
		if !constraint.Safe(p, row, col, g, color) {
			continue
		}
		g.Cell[row][col] = color
		if Solve(p, g, nextRow, nextCol) {
			return true
		}
		g.Cell[row][col] = 0
	}
	return false
}
