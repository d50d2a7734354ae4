package puzzle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/puzzle"
)

func TestCandidatesAscendingIteration(t *testing.T) {
	board, h, v := trivialBoard(4)
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	p.Candidates.Remove(0, 0, 2)
	values := p.Candidates.Values(0, 0)
	require.Equal(t, []int{1, 3, 4}, values)
}

func TestCandidatesEmptyAfterRemovingAll(t *testing.T) {
	board, h, v := trivialBoard(2)
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	p.Candidates.Remove(0, 0, 1)
	p.Candidates.Remove(0, 0, 2)
	require.True(t, p.Candidates.Empty(0, 0))
}

func TestCandidatesCloneIsIndependent(t *testing.T) {
	board, h, v := trivialBoard(2)
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	clone := p.Candidates.Clone()
	clone.Remove(0, 0, 1)

	require.True(t, p.Candidates.Has(0, 0, 1))
	require.False(t, clone.Has(0, 0, 1))
}
