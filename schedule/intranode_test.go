package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/precolor"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/schedule"
)

func emptyPuzzle(t *testing.T, size int) *puzzle.Puzzle {
	t.Helper()
	board := make([][]int, size)
	h := make([][]puzzle.Cons, size)
	v := make([][]puzzle.Cons, size)
	for r := 0; r < size; r++ {
		board[r] = make([]int, size)
		h[r] = make([]puzzle.Cons, size)
		v[r] = make([]puzzle.Cons, size)
	}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)
	return p
}

func TestIntraNodeFindsSolution(t *testing.T) {
	p := emptyPuzzle(t, 4)
	precolor.Run(p, logger.Default())

	found, g := schedule.IntraNode(p, schedule.IntraNodeOptions{Threads: 4, Factor: 2.0}, logger.Default(), nil)
	require.True(t, found)
	require.NotNil(t, g)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			require.NotZero(t, g.Cell[r][c])
		}
	}
}

func TestIntraNodeUnsatisfiableReportsNotFound(t *testing.T) {
	board := [][]int{{1, 1}, {0, 0}}
	h := [][]puzzle.Cons{{0}, {0}}
	v := [][]puzzle.Cons{{0, 0}, {0, 0}}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	found, g := schedule.IntraNode(p, schedule.IntraNodeOptions{Threads: 2, Factor: 1.0}, logger.Default(), nil)
	require.False(t, found)
	require.Nil(t, g)
}

// S6: spawned task count must not decrease as factor*threads grows.
func TestIntraNodeTaskCountMonotonicInFactorTimesThreads(t *testing.T) {
	p := emptyPuzzle(t, 6)
	log := logger.Default()

	var small, large int
	schedule.IntraNode(p, schedule.IntraNodeOptions{Threads: 2, Factor: 0.5}, log, &small)
	schedule.IntraNode(p, schedule.IntraNodeOptions{Threads: 8, Factor: 4.0}, log, &large)

	require.LessOrEqual(t, small, large)
}

func TestIntraNodeFallsBackWhenFullyPreset(t *testing.T) {
	board := [][]int{{1, 2}, {2, 1}}
	h := [][]puzzle.Cons{{0}, {0}}
	v := [][]puzzle.Cons{{0, 0}, {0, 0}}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	var spawned int
	found, g := schedule.IntraNode(p, schedule.IntraNodeOptions{Threads: 4, Factor: 1.0}, logger.Default(), &spawned)
	require.True(t, found)
	require.NotNil(t, g)
	require.Equal(t, 0, spawned)
}
