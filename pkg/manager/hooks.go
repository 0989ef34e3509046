package manager

import "time"

// Event describes one completed operation, successful or not.
type Event struct {
	Op      string
	Node    string
	Owner   int64
	OK      bool
	Elapsed time.Duration
}

// Hooks lets hosts observe the manager without coupling it to a metrics or
// audit backend. Callbacks run synchronously after the guard is released;
// they must not call back into the manager's operations from the same
// goroutine expecting to observe the triggering operation mid-flight.
type Hooks struct {
	// OnOperation fires after every Lock, Unlock and Upgrade call,
	// including failed ones and unknown-node calls.
	OnOperation func(Event)
}
