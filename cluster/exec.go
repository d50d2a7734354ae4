package cluster

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// WorkerRankEnv is the environment variable an Exec-spawned child process
// reads, via RankFromEnv, to learn which rank it is and how to dial back
// to its parent over its inherited stdin/stdout pipes. This is the
// systems-language note's "weak-symbol MPI rank/size" replaced with a
// single re-exec convention: the same binary plays master or worker
// depending on this variable, exactly as the teacher's single binary
// switches between sequential and parallel modes via a CLI flag.
const WorkerRankEnv = "FUTOSHIKI_CLUSTER_RANK"

// RankFromEnv reports the rank an Exec child should run as, and whether
// the process was launched as a cluster worker at all.
func RankFromEnv() (rank int, isWorker bool) {
	v := os.Getenv(WorkerRankEnv)
	if v == "" {
		return 0, false
	}
	var r int
	if _, err := fmt.Sscanf(v, "%d", &r); err != nil {
		return 0, false
	}
	return r, true
}

// frame is the wire type exchanged over each child's stdin/stdout pipe.
type frame struct {
	Tag     Tag
	From    int
	Payload []byte
}

// pipe wraps one child process's gob-encoded stdin/stdout link. All I/O
// on a pipe happens on the single funneled goroutine that owns it (the
// Exec.Send/Recv dispatch loop), never from C7's task-pool threads.
type pipe struct {
	enc *gob.Encoder
	dec *gob.Decoder
	cmd *exec.Cmd
}

// Exec spawns size-1 copies of the running executable as cluster workers
// and exposes rank 0 (the master, in the same process that called
// NewExec) as a Handle. Each child is launched with WorkerRankEnv set to
// its rank; it's expected to call RankFromEnv, find isWorker true, and
// construct its own Handle via NewExecWorker to talk back over its
// inherited stdin/stdout.
type Exec struct {
	size  int
	pipes []*pipe // index 1..size-1; index 0 unused

	mu      sync.Mutex
	recvErr chan error
	inbox   chan Message
}

// NewExec spawns size-1 workers by re-executing argv0 with args, wiring
// each child's Stdin/Stdout as its message pipe and passing through the
// parent's Stderr so worker logs are visible. Call Close to tear the
// children down once the master's shutdown sequence (spec.md §4.7) has
// terminated every worker.
func NewExec(ctx context.Context, argv0 string, args []string, size int) (*Exec, error) {
	e := &Exec{
		size:  size,
		pipes: make([]*pipe, size),
		inbox: make(chan Message, size*4),
	}
	for rank := 1; rank < size; rank++ {
		cmd := exec.CommandContext(ctx, argv0, args...)
		cmd.Env = append(os.Environ(), fmt.Sprintf("%s=%d", WorkerRankEnv, rank))
		cmd.Stderr = os.Stderr

		stdin, err := cmd.StdinPipe()
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("cluster: spawn rank %d: %w: %v", rank, ErrTransport, err)
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("cluster: spawn rank %d: %w: %v", rank, ErrTransport, err)
		}
		if err := cmd.Start(); err != nil {
			e.Close()
			return nil, fmt.Errorf("cluster: start rank %d: %w: %v", rank, ErrTransport, err)
		}

		p := &pipe{
			enc: gob.NewEncoder(stdin),
			dec: gob.NewDecoder(bufio.NewReader(stdout)),
			cmd: cmd,
		}
		e.pipes[rank] = p
		go e.pump(rank, p)
	}
	return e, nil
}

// pump is the funneled read loop for one child's pipe: it decodes frames
// as they arrive and forwards them to the master's single inbox.
func (e *Exec) pump(rank int, p *pipe) {
	for {
		var f frame
		if err := p.dec.Decode(&f); err != nil {
			if err != io.EOF {
				e.inbox <- Message{Tag: Terminate, From: rank}
			}
			return
		}
		e.inbox <- Message{Tag: f.Tag, From: rank, Payload: f.Payload}
	}
}

func (e *Exec) Rank() int { return 0 }
func (e *Exec) Size() int { return e.size }

func (e *Exec) Broadcast(ctx context.Context, payload []byte) ([]byte, error) {
	for rank := 1; rank < e.size; rank++ {
		if err := e.Send(ctx, rank, Message{Tag: WorkAssignment, Payload: payload}); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func (e *Exec) Send(_ context.Context, to int, msg Message) error {
	if to <= 0 || to >= e.size {
		return fmt.Errorf("cluster: send to out-of-range rank %d: %w", to, ErrTransport)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.pipes[to]
	if p == nil {
		return fmt.Errorf("cluster: rank %d has no pipe: %w", to, ErrTransport)
	}
	if err := p.enc.Encode(frame{Tag: msg.Tag, From: 0, Payload: msg.Payload}); err != nil {
		return fmt.Errorf("cluster: encode to rank %d: %w: %v", to, ErrTransport, err)
	}
	return nil
}

func (e *Exec) Recv(ctx context.Context) (Message, error) {
	select {
	case msg := <-e.inbox:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Close waits for every spawned worker to exit. The master must have
// already sent each one Terminate (spec.md §4.7's shutdown ordering).
func (e *Exec) Close() error {
	var firstErr error
	for rank := 1; rank < e.size; rank++ {
		p := e.pipes[rank]
		if p == nil {
			continue
		}
		if err := p.cmd.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ExecWorker is the worker side of the Exec transport: a single rank
// talking to its parent over its own inherited stdin/stdout.
type ExecWorker struct {
	rank int
	size int
	enc  *gob.Encoder
	dec  *gob.Decoder
}

// NewExecWorker builds the worker-side Handle for the process RankFromEnv
// identified as a cluster worker. size must match the master's process
// count (passed to the child via the --cluster-size CLI flag, alongside
// every other solver option).
func NewExecWorker(rank, size int) *ExecWorker {
	return &ExecWorker{
		rank: rank,
		size: size,
		enc:  gob.NewEncoder(os.Stdout),
		dec:  gob.NewDecoder(bufio.NewReader(os.Stdin)),
	}
}

func (w *ExecWorker) Rank() int { return w.rank }
func (w *ExecWorker) Size() int { return w.size }

func (w *ExecWorker) Broadcast(ctx context.Context, _ []byte) ([]byte, error) {
	msg, err := w.Recv(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Payload, nil
}

func (w *ExecWorker) Send(_ context.Context, to int, msg Message) error {
	if to != 0 {
		return fmt.Errorf("cluster: workers only talk to the master (rank 0): %w", ErrTransport)
	}
	if err := w.enc.Encode(frame{Tag: msg.Tag, From: w.rank, Payload: msg.Payload}); err != nil {
		return fmt.Errorf("cluster: worker %d encode: %w: %v", w.rank, ErrTransport, err)
	}
	return nil
}

func (w *ExecWorker) Recv(context.Context) (Message, error) {
	var f frame
	if err := w.dec.Decode(&f); err != nil {
		return Message{}, fmt.Errorf("cluster: worker %d decode: %w: %v", w.rank, ErrTransport, err)
	}
	return Message{Tag: f.Tag, From: 0, Payload: f.Payload}, nil
}

func (w *ExecWorker) Close() error { return nil }
