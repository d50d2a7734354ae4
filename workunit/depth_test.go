package workunit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/workunit"
)

func TestCalibrateReturnsZeroForFullyPresetBoard(t *testing.T) {
	board := [][]int{{1, 2}, {2, 1}}
	h := [][]puzzle.Cons{{0}, {0}}
	v := [][]puzzle.Cons{{0, 0}, {0, 0}}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	require.Equal(t, 0, workunit.Calibrate(p, 4, 1.0, logger.Default()))
}

// S6: calibrated depth should not decrease as factor*workers grows, since a
// larger target forces the search to an equal or deeper prefix level.
func TestCalibrateMonotonicInTarget(t *testing.T) {
	p := emptyPuzzle(t, 6)
	log := logger.Default()

	small := workunit.Calibrate(p, 2, 0.5, log)
	large := workunit.Calibrate(p, 8, 4.0, log)
	require.LessOrEqual(t, small, large)
}

func TestCalibrateNeverExceedsSizeCap(t *testing.T) {
	p := emptyPuzzle(t, 20)
	d := workunit.Calibrate(p, 1000, 1000, logger.Default())
	require.LessOrEqual(t, d, 3)
}
