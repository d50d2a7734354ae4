package cluster

import "context"

// Local is the trivial ClusterHandle: rank 0, size 1. C8's master state
// machine degenerates to "no units can be generated (or P=1): run C4
// locally" whenever the scheduler is handed a Local, matching spec.md
// §4.7's single-process deployment edge policy.
type Local struct{}

func (Local) Rank() int { return 0 }
func (Local) Size() int { return 1 }

func (Local) Broadcast(_ context.Context, payload []byte) ([]byte, error) {
	return payload, nil
}

func (Local) Send(context.Context, int, Message) error {
	return errTransportf("Local has no peers to send to")
}

func (Local) Recv(context.Context) (Message, error) {
	return Message{}, errTransportf("Local has no peers to receive from")
}

func (Local) Close() error { return nil }

func errTransportf(why string) error {
	return &transportError{why}
}

type transportError struct{ why string }

func (e *transportError) Error() string { return "cluster: " + e.why }
func (e *transportError) Unwrap() error { return ErrTransport }
