/*
Package canopy manages exclusive locks over a fixed tree of named resources.

The rule is hierarchical mutual exclusion: a node, any of its ancestors and
any of its descendants can never be simultaneously locked. Per-node counters
of locked ancestors and descendants make the conflict check O(1); the three
operations (Lock, Unlock and Upgrade) keep those counters exact.

# Upgrade

Upgrade atomically replaces every lock an owner holds on descendants of a
node with a single lock on the node itself. It fails, leaving the tree
untouched, when any locked descendant belongs to a different owner.

# Concurrency

Operations may be issued concurrently from any number of goroutines. By
default a single whole-tree mutex serializes them; WithOrderedLocking
switches to per-node mutexes acquired in a fixed global order, so that
operations on disjoint subtrees run in parallel. Under either guard an
operation's check and mutation are indivisible with respect to any
overlapping operation.

# Usage

	mgr, err := canopy.New([]string{"World", "Asia", "Africa"}, 2)
	if err != nil {
		log.Fatal(err)
	}

	mgr.Lock("Asia", 7)    // true
	mgr.Lock("World", 9)   // false: a descendant is locked
	mgr.Unlock("Asia", 9)  // false: wrong owner
	mgr.Unlock("Asia", 7)  // true

All three operations report their outcome as a plain boolean: a failed
precondition, unknown node included, is a normal result rather than an
error.
*/
package canopy
