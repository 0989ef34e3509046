/*
Package tree defines the fixed topology the lock manager operates on.

A tree is built once, at startup, from an ordered list of node names and a
branching factor. After that only per-node lock state (owned by the manager)
ever changes; the shape and the name index are read-only, which is what makes
them safe to traverse without synchronization while computing an operation's
node set.
*/
package tree
