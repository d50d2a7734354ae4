// Package puzzle implements the Futoshiki data model: the board, its
// per-edge inequality constraints, and the per-cell candidate lists that
// the propagation and search layers read and mutate.
package puzzle

import "fmt"

// NMax bounds the board side length the solver will accept. It mirrors the
// teacher's use of module-level constants for the handful of values that
// are genuinely global (see spec.md design notes on global state).
const NMax = 50

// Cons is the inequality relation between two adjacent cells.
type Cons int

const (
	None Cons = iota
	Greater
	Smaller
)

func (c Cons) String() string {
	switch c {
	case Greater:
		return ">"
	case Smaller:
		return "<"
	default:
		return "."
	}
}

// Puzzle is the immutable (post-construction) board plus its mutable
// candidate arena. Board and constraints never change after New;
// Candidates mutates only during the pre-coloring pass (precolor package).
type Puzzle struct {
	Size int

	// board[r][c] is the pre-set color, or 0 if the cell starts empty.
	board [][]int

	// hCons[r][c] is the constraint between (r,c) and (r,c+1); indexed
	// 0..Size-2 per row.
	hCons [][]Cons

	// vCons[r][c] is the constraint between (r,c) and (r+1,c); indexed
	// 0..Size-2 per column.
	vCons [][]Cons

	Candidates *Candidates
}

// New builds a Puzzle from a pre-set board and its inequality edges, and
// initializes the candidate arena per spec.md §3: a singleton for each
// pre-set cell, and the full 1..Size range for each empty cell. Callers
// that want constraint propagation should run precolor.Run afterward;
// callers that pass -n (disable pre-coloring) use the candidates as-is.
func New(board [][]int, hCons, vCons [][]Cons) (*Puzzle, error) {
	size := len(board)
	if size < 1 || size > NMax {
		return nil, fmt.Errorf("puzzle: size %d out of range [1, %d]", size, NMax)
	}
	for r, row := range board {
		if len(row) != size {
			return nil, fmt.Errorf("puzzle: row %d has %d cells, want %d", r, len(row), size)
		}
		for _, v := range row {
			if v < 0 || v > size {
				return nil, fmt.Errorf("puzzle: cell value %d out of range [0, %d]", v, size)
			}
		}
	}

	p := &Puzzle{
		Size:  size,
		board: board,
		hCons: hCons,
		vCons: vCons,
	}
	p.Candidates = newCandidates(size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if v := board[r][c]; v != 0 {
				p.Candidates.setSingleton(r, c, v)
			} else {
				p.Candidates.setAll(r, c)
			}
		}
	}
	return p, nil
}

// Board returns the pre-set value at (r,c), or 0 if the cell is empty.
func (p *Puzzle) Board(r, c int) int { return p.board[r][c] }

// HCons returns the constraint between (r,cLeft) and (r,cLeft+1).
// cLeft must be in [0, Size-2]; any other column returns None.
func (p *Puzzle) HCons(r, cLeft int) Cons {
	if cLeft < 0 || cLeft >= p.Size-1 {
		return None
	}
	return p.hCons[r][cLeft]
}

// VCons returns the constraint between (rAbove,c) and (rAbove+1,c).
func (p *Puzzle) VCons(rAbove, c int) Cons {
	if rAbove < 0 || rAbove >= p.Size-1 {
		return None
	}
	return p.vCons[rAbove][c]
}

// Grid is a size×size fully or partially colored solution. Schedulers each
// own a private Grid; the Puzzle's board/constraints are shared read-only.
type Grid struct {
	Size int
	Cell [][]int
}

// NewGrid returns a Grid with every pre-set cell copied from p.Board and
// every other cell 0 (unfilled).
func NewGrid(p *Puzzle) *Grid {
	g := &Grid{Size: p.Size, Cell: make([][]int, p.Size)}
	for r := 0; r < p.Size; r++ {
		g.Cell[r] = make([]int, p.Size)
		copy(g.Cell[r], p.board[r])
	}
	return g
}

// Clone deep-copies the grid so a worker can branch without aliasing.
func (g *Grid) Clone() *Grid {
	out := &Grid{Size: g.Size, Cell: make([][]int, g.Size)}
	for r := range g.Cell {
		out.Cell[r] = append([]int(nil), g.Cell[r]...)
	}
	return out
}

// Assignment is one (row, col, color) triple, the unit of a WorkUnit.
type Assignment struct {
	Row, Col, Color int
}

// WorkUnit is a safe-by-construction partial solution prefix, in the
// cell-visit order used by the sequential backtracker (backtrack package).
// Depth is len(Assignments); Depth == 0 means "start from the top".
type WorkUnit struct {
	Assignments []Assignment
	Depth       int
}

// Apply writes the unit's assignments into a fresh grid derived from p.
func (wu *WorkUnit) Apply(p *Puzzle) *Grid {
	g := NewGrid(p)
	for _, a := range wu.Assignments {
		g.Cell[a.Row][a.Col] = a.Color
	}
	return g
}

// Continuation returns the (row, col) immediately following the unit's
// last assignment in row-major visit order, i.e. where backtrack.Solve
// should resume. A unit with Depth == 0 continues at (0, 0).
func (wu *WorkUnit) Continuation(size int) (row, col int) {
	if wu.Depth == 0 {
		return 0, 0
	}
	last := wu.Assignments[len(wu.Assignments)-1]
	row, col = last.Row, last.Col+1
	if col == size {
		row, col = row+1, 0
	}
	return row, col
}

// Solution is a fully populated grid satisfying every constraint.
type Solution struct {
	Size int
	Cell [][]int
}

func FromGrid(g *Grid) *Solution {
	return &Solution{Size: g.Size, Cell: g.Cell}
}

func (s *Solution) String() string {
	out := ""
	for _, row := range s.Cell {
		for _, v := range row {
			out += fmt.Sprintf("%3d", v)
		}
		out += "\n"
	}
	return out
}
