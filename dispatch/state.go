package dispatch

import "fmt"

// State is the phase the dispatch loop is in
type State int

const (
	// AwaitingCapture is the initial state. The portal address is not
	// known yet so no deposit can be accepted
	AwaitingCapture State = iota

	// Polling is the state of a loop that knows the portal address
	// and is waiting for the next request
	Polling

	// Dispatching is the state while a request is being handled
	Dispatching
)

func (s State) String() string {
	switch s {
	case AwaitingCapture:
		return "AwaitingCapture"
	case Polling:
		return "Polling"
	case Dispatching:
		return "Dispatching"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
