package schedule_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/cluster"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/precolor"
	"github.com/falswe/futoshiki-solver/puzzle"
	"github.com/falswe/futoshiki-solver/schedule"
)

// TestInterNodeFindsSolutionAcrossMeshRanks runs C8 over cluster.NewMesh, the
// same multi-rank Handle contract Exec provides, without spawning processes.
func TestInterNodeFindsSolutionAcrossMeshRanks(t *testing.T) {
	const size = 4
	p := emptyPuzzle(t, 4)
	precolor.Run(p, logger.Default())

	handles := cluster.NewMesh(size)
	ctx := context.Background()
	log := logger.Default()

	var wg sync.WaitGroup
	var masterFound bool
	var masterSolved bool

	for rank := 0; rank < size; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			found, g := schedule.InterNode(ctx, p, handles[rank], schedule.InterNodeOptions{Factor: 2.0}, log, nil, nil)
			if rank == 0 {
				masterFound = found
				masterSolved = g != nil
			}
		}(rank)
	}
	wg.Wait()

	require.True(t, masterFound)
	require.True(t, masterSolved)
}

func TestInterNodeUnsatisfiableAcrossMeshRanks(t *testing.T) {
	const size = 3
	board := [][]int{{1, 1}, {0, 0}}
	h := [][]puzzle.Cons{{0}, {0}}
	v := [][]puzzle.Cons{{0, 0}, {0, 0}}

	handles := cluster.NewMesh(size)
	ctx := context.Background()
	log := logger.Default()

	var wg sync.WaitGroup
	var masterFound bool

	for rank := 0; rank < size; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			p, err := puzzle.New(board, h, v)
			if err != nil {
				return
			}
			precolor.Run(p, log)
			found, _ := schedule.InterNode(ctx, p, handles[rank], schedule.InterNodeOptions{Factor: 1.0}, log, nil, nil)
			if rank == 0 {
				masterFound = found
			}
		}(rank)
	}
	wg.Wait()

	require.False(t, masterFound)
}

func TestInterNodeSingleRankSolvesLocally(t *testing.T) {
	p := emptyPuzzle(t, 3)
	precolor.Run(p, logger.Default())

	handles := cluster.NewMesh(1)
	found, g := schedule.InterNode(context.Background(), p, handles[0], schedule.InterNodeOptions{Factor: 1.0}, logger.Default(), nil, nil)
	require.True(t, found)
	require.NotNil(t, g)
}
