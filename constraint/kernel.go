// Package constraint implements the Futoshiki constraint kernel (spec.md
// §4.1): three pure predicates that every scheduler's search or
// propagation layer is built from. None of them coordinate with each
// other — composing them into a fixed-point pass is precolor's job, and
// composing them into search is backtrack's job.
package constraint

import "github.com/falswe/futoshiki-solver/puzzle"

// neighbor describes one of a cell's up-to-four adjacent cells and the
// inequality edge (if any) between it and the cell in question.
type neighbor struct {
	row, col int
	cons     puzzle.Cons
	ok       bool
}

// neighbors returns the four (at most) adjacent cells of (r,c) along with
// the inequality relation *as seen from (r,c)*: Greater means (r,c) must be
// greater than the neighbor, Smaller means (r,c) must be smaller.
func neighbors(p *puzzle.Puzzle, r, c int) [4]neighbor {
	var out [4]neighbor

	// left
	if c > 0 {
		out[0] = neighbor{r, c - 1, flip(p.HCons(r, c-1)), true}
	}
	// right
	if c < p.Size-1 {
		out[1] = neighbor{r, c + 1, p.HCons(r, c), true}
	}
	// up
	if r > 0 {
		out[2] = neighbor{r - 1, c, flip(p.VCons(r-1, c)), true}
	}
	// down
	if r < p.Size-1 {
		out[3] = neighbor{r + 1, c, p.VCons(r, c), true}
	}
	return out
}

// flip reverses a relation stated from the other side: "left > right"
// stated as the right cell's neighbor relation to the left cell becomes
// "right < left".
func flip(cons puzzle.Cons) puzzle.Cons {
	switch cons {
	case puzzle.Greater:
		return puzzle.Smaller
	case puzzle.Smaller:
		return puzzle.Greater
	default:
		return puzzle.None
	}
}

// holds reports whether `self` satisfies the relation against `other`,
// where cons is stated from self's perspective (Greater means self > other).
func holds(cons puzzle.Cons, self, other int) bool {
	switch cons {
	case puzzle.Greater:
		return self > other
	case puzzle.Smaller:
		return self < other
	default:
		return true
	}
}

// Safe implements spec.md §4.1's safe(P, r, c, S, color): true iff placing
// color at (r,c) of grid g violates no pre-set value, no inequality edge
// against an already-colored neighbor, and no row/column uniqueness rule.
func Safe(p *puzzle.Puzzle, r, c int, g *puzzle.Grid, color int) bool {
	if preset := p.Board(r, c); preset != 0 && preset != color {
		return false
	}

	for _, n := range neighbors(p, r, c) {
		if !n.ok || n.cons == puzzle.None {
			continue
		}
		if other := g.Cell[n.row][n.col]; other != 0 {
			if !holds(n.cons, color, other) {
				return false
			}
		}
	}

	for col := 0; col < p.Size; col++ {
		if col != c && g.Cell[r][col] == color {
			return false
		}
	}
	for row := 0; row < p.Size; row++ {
		if row != r && g.Cell[row][c] == color {
			return false
		}
	}
	return true
}

// HasValidNeighbor implements has_valid_neighbor(P, r, c, color,
// needGreater): true iff candidates[r][c] contains some value strictly
// greater (needGreater) or strictly smaller (!needGreater) than color.
func HasValidNeighbor(p *puzzle.Puzzle, r, c, color int, needGreater bool) bool {
	for _, v := range p.Candidates.Values(r, c) {
		if needGreater && v > color {
			return true
		}
		if !needGreater && v < color {
			return true
		}
	}
	return false
}

// SatisfiesInequalities implements satisfies_inequalities(P, r, c, color):
// for every inequality edge at (r,c), the neighbor's current candidate
// list must contain at least one value compatible with color. An edge
// without a constraint is vacuously satisfied.
func SatisfiesInequalities(p *puzzle.Puzzle, r, c, color int) bool {
	for _, n := range neighbors(p, r, c) {
		if !n.ok || n.cons == puzzle.None {
			continue
		}
		// n.cons is "self relative to other": Greater means self>other,
		// i.e. the neighbor needs some candidate *smaller* than color.
		needGreater := n.cons == puzzle.Smaller
		if !HasValidNeighbor(p, n.row, n.col, color, needGreater) {
			return false
		}
	}
	return true
}
