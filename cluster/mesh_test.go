package cluster_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/cluster"
)

func TestMeshSendRecvRoundTrip(t *testing.T) {
	handles := cluster.NewMesh(3)
	ctx := context.Background()

	err := handles[0].Send(ctx, 2, cluster.Message{Tag: cluster.WorkRequest, Payload: []byte("hi")})
	require.NoError(t, err)

	msg, err := handles[2].Recv(ctx)
	require.NoError(t, err)
	require.Equal(t, cluster.WorkRequest, msg.Tag)
	require.Equal(t, 0, msg.From)
	require.Equal(t, []byte("hi"), msg.Payload)
}

func TestMeshBroadcastReachesAllRanks(t *testing.T) {
	handles := cluster.NewMesh(4)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]byte, len(handles))
	for i := 1; i < len(handles); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := handles[i].Broadcast(ctx, nil)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}

	got, err := handles[0].Broadcast(ctx, []byte("payload"))
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)

	wg.Wait()
	for i := 1; i < len(handles); i++ {
		require.Equal(t, []byte("payload"), results[i])
	}
}

func TestMeshSendOutOfRangeRankWrapsErrTransport(t *testing.T) {
	handles := cluster.NewMesh(2)
	err := handles[0].Send(context.Background(), 5, cluster.Message{})
	require.ErrorIs(t, err, cluster.ErrTransport)
}

func TestMeshRecvRespectsContextCancellation(t *testing.T) {
	handles := cluster.NewMesh(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handles[1].Recv(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
