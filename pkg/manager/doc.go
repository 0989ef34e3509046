/*
Package manager implements hierarchical mutual exclusion over a fixed tree
of named nodes.

A node, any of its ancestors and any of its descendants can never be locked
at the same time. Each node tracks how many of its ancestors and descendants
are currently locked, so conflict checks cost O(1); the counters are
maintained by walking the ancestor chain and the subtree on every successful
transition.

Two interchangeable concurrency designs are provided. The default guard is a
single whole-tree mutex: simple, and sufficient for a structure that is a
tree rather than a high-throughput store. WithOrderedLocking switches to
per-node mutexes acquired in a fixed global order, letting operations on
disjoint subtrees proceed in parallel. Under either guard, no operation ever
observes another operation's partial mutation.
*/
package manager
