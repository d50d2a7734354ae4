package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/constraint"
	"github.com/falswe/futoshiki-solver/puzzle"
)

// buildPuzzle constructs a size x size empty-board puzzle with the given
// horizontal/vertical constraint edges set.
func buildPuzzle(t *testing.T, size int, set func(h, v [][]puzzle.Cons)) *puzzle.Puzzle {
	t.Helper()
	board := make([][]int, size)
	h := make([][]puzzle.Cons, size)
	v := make([][]puzzle.Cons, size)
	for r := 0; r < size; r++ {
		board[r] = make([]int, size)
		h[r] = make([]puzzle.Cons, size)
		v[r] = make([]puzzle.Cons, size)
	}
	if set != nil {
		set(h, v)
	}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)
	return p
}

func TestSafeRespectsPresetCell(t *testing.T) {
	board := [][]int{{1, 0}, {0, 0}}
	h := [][]puzzle.Cons{{0}, {0}}
	v := [][]puzzle.Cons{{0, 0}, {0, 0}}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	g := puzzle.NewGrid(p)
	require.True(t, constraint.Safe(p, 0, 0, g, 1))
	require.False(t, constraint.Safe(p, 0, 0, g, 2))
}

func TestSafeRejectsRowDuplicate(t *testing.T) {
	p := buildPuzzle(t, 3, nil)
	g := puzzle.NewGrid(p)
	g.Cell[0][0] = 2

	require.False(t, constraint.Safe(p, 0, 1, g, 2))
	require.True(t, constraint.Safe(p, 0, 1, g, 3))
}

func TestSafeRejectsColumnDuplicate(t *testing.T) {
	p := buildPuzzle(t, 3, nil)
	g := puzzle.NewGrid(p)
	g.Cell[0][0] = 2

	require.False(t, constraint.Safe(p, 1, 0, g, 2))
}

func TestSafeHonorsHorizontalGreater(t *testing.T) {
	p := buildPuzzle(t, 2, func(h, v [][]puzzle.Cons) {
		h[0][0] = puzzle.Greater // left(0,0) > right(0,1)
	})
	g := puzzle.NewGrid(p)
	g.Cell[0][0] = 2

	// right cell must be smaller than 2
	require.True(t, constraint.Safe(p, 0, 1, g, 1))
	require.False(t, constraint.Safe(p, 0, 1, g, 2))
}

func TestSafeHonorsVerticalSmaller(t *testing.T) {
	p := buildPuzzle(t, 2, func(h, v [][]puzzle.Cons) {
		v[0][0] = puzzle.Smaller // upper(0,0) < lower(1,0)
	})
	g := puzzle.NewGrid(p)
	g.Cell[0][0] = 1

	require.True(t, constraint.Safe(p, 1, 0, g, 2))
	require.False(t, constraint.Safe(p, 1, 0, g, 1))
}

func TestSatisfiesInequalitiesChecksNeighborCandidates(t *testing.T) {
	p := buildPuzzle(t, 2, func(h, v [][]puzzle.Cons) {
		h[0][0] = puzzle.Greater
	})
	// Force the right neighbor's candidate list down to {2}, so the left
	// cell can only ever satisfy ">" with a color greater than 2 — but
	// size is 2, so no color qualifies.
	p.Candidates.Remove(0, 1, 1)

	require.False(t, constraint.SatisfiesInequalities(p, 0, 0, 1))
	require.False(t, constraint.SatisfiesInequalities(p, 0, 0, 2))
}

func TestHasValidNeighbor(t *testing.T) {
	p := buildPuzzle(t, 3, nil)
	require.True(t, constraint.HasValidNeighbor(p, 0, 0, 1, true))  // 2 and 3 qualify
	require.False(t, constraint.HasValidNeighbor(p, 0, 0, 3, true)) // nothing greater than 3
}
