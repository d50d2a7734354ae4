package cluster

import (
	"context"
	"fmt"
)

// NewMesh builds size in-process Handles wired together with channels,
// one rank each, so C8/C9 can be exercised in tests without the cost of
// spawning OS processes. It implements exactly the same Handle contract as Exec:
// synchronous point-to-point Send/Recv, a Broadcast rendezvous from rank
// 0. Cluster.Exec is the production transport; Mesh is its same-process
// stand-in.
func NewMesh(size int) []Handle {
	if size < 1 {
		size = 1
	}
	inboxes := make([]chan Message, size)
	for i := range inboxes {
		inboxes[i] = make(chan Message, size*4)
	}
	bcast := make(chan []byte, size)

	handles := make([]Handle, size)
	for i := 0; i < size; i++ {
		handles[i] = &meshHandle{
			rank:    i,
			size:    size,
			inboxes: inboxes,
			own:     inboxes[i],
			bcast:   bcast,
		}
	}
	return handles
}

type meshHandle struct {
	rank, size int
	inboxes    []chan Message
	own        chan Message
	bcast      chan []byte
}

func (m *meshHandle) Rank() int { return m.rank }
func (m *meshHandle) Size() int { return m.size }

func (m *meshHandle) Broadcast(ctx context.Context, payload []byte) ([]byte, error) {
	if m.rank == 0 {
		for i := 1; i < m.size; i++ {
			select {
			case m.bcast <- payload:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return payload, nil
	}
	select {
	case p := <-m.bcast:
		return p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *meshHandle) Send(ctx context.Context, to int, msg Message) error {
	if to < 0 || to >= m.size {
		return fmt.Errorf("cluster: mesh send to out-of-range rank %d: %w", to, ErrTransport)
	}
	msg.From = m.rank
	select {
	case m.inboxes[to] <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *meshHandle) Recv(ctx context.Context) (Message, error) {
	select {
	case msg := <-m.own:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (m *meshHandle) Close() error { return nil }
