// Package cluster abstracts the inter-node transport the master/worker
// scheduler (C8) runs over. Per the design note in spec.md §9 ("weak-symbol
// trick for MPI rank/size"), this replaces the teacher lineage's
// process-global rank/size with an explicit Handle interface, with a
// single-process implementation (Local) and a real multi-process one
// (Exec) built on os/exec + gob.
package cluster

import (
	"context"
	"errors"
)

// Tag is the message vocabulary of spec.md §4.7.
type Tag int

const (
	WorkRequest Tag = iota
	WorkAssignment
	SolutionFound
	SolutionData
	Terminate
)

// Message is a single point-to-point transport frame. Payload carries a
// gob-encoded puzzle.WorkUnit or puzzle.Solution depending on Tag; it is
// left untyped here so Handle has no dependency on the puzzle package.
type Message struct {
	Tag     Tag
	From    int
	Payload []byte
}

// ErrTransport is returned for connection failures with no partial-failure
// recovery, per spec.md §7's "Scheduler faults" error kind.
var ErrTransport = errors.New("cluster: transport failure")

// Handle is the abstraction every C8/C9 master or worker drives. Rank 0 is
// always the master. Send/Recv are synchronous point-to-point per spec.md
// §5; only the rank's single funneled goroutine may call them (the
// "funneled" MPI thread-support level spec.md §4.8 requires — task/worker
// pool threads never touch a Handle directly).
type Handle interface {
	Rank() int
	Size() int

	// Broadcast sends payload from rank 0 to every other rank and
	// returns the payload every non-zero rank received (rank 0's own
	// Broadcast call returns payload unchanged). InterNode calls it once
	// at startup with an empty payload as a rendezvous; the Puzzle itself
	// is not sent, since every rank parses the same puzzle file and runs
	// C3 on its own.
	Broadcast(ctx context.Context, payload []byte) ([]byte, error)

	Send(ctx context.Context, to int, msg Message) error
	Recv(ctx context.Context) (Message, error)

	Close() error
}
