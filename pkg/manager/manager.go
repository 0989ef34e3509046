package manager

import (
	"log/slog"
	"time"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/tree"
)

// Operation names as reported through logs and hooks.
const (
	OpLock    = "lock"
	OpUnlock  = "unlock"
	OpUpgrade = "upgrade"
)

// nodeState is the mutable half of a node. The topology lives in tree.Tree;
// the manager owns this state for its whole lifetime and mutates it only
// inside a guard region.
type nodeState struct {
	held            bool
	owner           int64
	ancestorLocks   int
	descendantLocks int
}

// Manager serializes lock, unlock and upgrade operations over a fixed tree.
//
// All three operations are pure boolean predicates over the tree state: a
// failed precondition (unknown node included) yields false with no state
// change, never an error. Mutations are all-or-nothing with respect to any
// concurrently running operation whose node set overlaps.
type Manager struct {
	tree   *tree.Tree
	state  []nodeState
	guard  guard
	hooks  Hooks
	logger *slog.Logger
}

// NodeInfo is a read-only snapshot of one node's lock state.
type NodeInfo struct {
	Name            string `json:"name"`
	Locked          bool   `json:"locked"`
	Owner           int64  `json:"owner,omitempty"`
	AncestorLocks   int    `json:"ancestor_locks"`
	DescendantLocks int    `json:"descendant_locks"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for per-operation debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithOrderedLocking switches the manager from the default whole-tree
// critical section to per-node mutexes acquired in global index order.
// Operations on disjoint subtrees then proceed in parallel.
func WithOrderedLocking() Option {
	return func(m *Manager) {
		m.guard = newOrderedGuard(m.tree)
	}
}

// New creates a Manager over the given tree. The default guard is a single
// whole-tree mutex.
func New(t *tree.Tree, opts ...Option) *Manager {
	m := &Manager{
		tree:   t,
		state:  make([]nodeState, t.Len()),
		guard:  &coarseGuard{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lock acquires an exclusive lock on the named node for owner. It succeeds
// only when the node exists, is unlocked, and has no locked ancestor or
// descendant.
func (m *Manager) Lock(name string, owner int64) bool {
	return m.operate(OpLock, name, owner)
}

// Unlock releases the lock on the named node. It succeeds only when the node
// is currently locked by exactly this owner; any other owner is a no-op
// failure, not an override.
func (m *Manager) Unlock(name string, owner int64) bool {
	return m.operate(OpUnlock, name, owner)
}

// Upgrade atomically replaces all locks held by owner on descendants of the
// named node with a single lock on the node itself. It fails when the node
// is locked, has a locked ancestor, has no locked descendant, or any locked
// descendant belongs to a different owner.
func (m *Manager) Upgrade(name string, owner int64) bool {
	return m.operate(OpUpgrade, name, owner)
}

func (m *Manager) operate(op, name string, owner int64) bool {
	start := time.Now()

	i, found := m.tree.Lookup(name)
	if !found {
		// Unknown names are a normal client mistake, reported like any
		// other failed precondition.
		return m.finish(op, name, owner, false, start)
	}

	release := m.guard.enter(i)
	var ok bool
	switch op {
	case OpLock:
		ok = m.lockAt(i, owner)
	case OpUnlock:
		ok = m.unlockAt(i, owner)
	case OpUpgrade:
		ok = m.upgradeAt(i, owner)
	}
	release()

	return m.finish(op, name, owner, ok, start)
}

func (m *Manager) finish(op, name string, owner int64, ok bool, start time.Time) bool {
	m.logger.Debug(op, "node", name, "owner", owner, "ok", ok)
	if m.hooks.OnOperation != nil {
		m.hooks.OnOperation(Event{
			Op:      op,
			Node:    name,
			Owner:   owner,
			OK:      ok,
			Elapsed: time.Since(start),
		})
	}
	return ok
}

// lockAt applies the lock transition to node i. Caller holds the guard.
func (m *Manager) lockAt(i int, owner int64) bool {
	s := &m.state[i]
	if s.held || s.ancestorLocks != 0 || s.descendantLocks != 0 {
		return false
	}
	s.held = true
	s.owner = owner
	m.propagate(i, 1)
	return true
}

// unlockAt applies the unlock transition to node i. Caller holds the guard.
func (m *Manager) unlockAt(i int, owner int64) bool {
	s := &m.state[i]
	if !s.held || s.owner != owner {
		return false
	}
	s.held = false
	s.owner = 0
	m.propagate(i, -1)
	return true
}

// upgradeAt applies the upgrade transition to node i. Caller holds the
// guard.
func (m *Manager) upgradeAt(i int, owner int64) bool {
	s := &m.state[i]
	if s.held || s.ancestorLocks != 0 || s.descendantLocks == 0 {
		return false
	}

	// Collect the locked descendants, verifying ownership as we go. The
	// scan prunes below nodes with no locked descendants and stops
	// descending entirely once a foreign lock is found.
	var locked []int
	foreign := false
	m.tree.WalkSubtree(i, func(j int) bool {
		if foreign {
			return false
		}
		js := &m.state[j]
		if j != i && js.held {
			if js.owner != owner {
				foreign = true
				return false
			}
			locked = append(locked, j)
		}
		return js.descendantLocks > 0
	})
	if foreign {
		return false
	}

	// All locked descendants belong to owner, so none of these can fail
	// and the composite transition applies atomically under the guard.
	for _, j := range locked {
		m.unlockAt(j, owner)
	}
	return m.lockAt(i, owner)
}

// propagate adjusts the counters that make conflict checks O(1): every
// ancestor's descendant count and every descendant's ancestor count of node
// i move by delta. Caller holds the guard.
func (m *Manager) propagate(i, delta int) {
	for _, a := range m.tree.Ancestors(i) {
		m.state[a].descendantLocks += delta
	}
	m.tree.WalkSubtree(i, func(j int) bool {
		if j != i {
			m.state[j].ancestorLocks += delta
		}
		return true
	})
}

// Node returns a consistent snapshot of the named node's state.
func (m *Manager) Node(name string) (NodeInfo, bool) {
	i, found := m.tree.Lookup(name)
	if !found {
		return NodeInfo{}, false
	}
	release := m.guard.enter(i)
	defer release()
	return m.infoAt(i), true
}

// Snapshot returns a consistent snapshot of every node, in breadth-first
// order.
func (m *Manager) Snapshot() []NodeInfo {
	release := m.guard.enterAll()
	defer release()

	out := make([]NodeInfo, m.tree.Len())
	for i := range out {
		out[i] = m.infoAt(i)
	}
	return out
}

func (m *Manager) infoAt(i int) NodeInfo {
	s := m.state[i]
	return NodeInfo{
		Name:            m.tree.Name(i),
		Locked:          s.held,
		Owner:           s.owner,
		AncestorLocks:   s.ancestorLocks,
		DescendantLocks: s.descendantLocks,
	}
}
