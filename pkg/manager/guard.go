package manager

import (
	"sync"

	"github.com/aretw0/canopy/pkg/tree"
)

// guard serializes operations whose node sets overlap. enter covers one
// operation on the given target node and returns the release function;
// enterAll covers a whole-tree read. Release must run on every exit path,
// failed preconditions included.
type guard interface {
	enter(target int) func()
	enterAll() func()
}

// coarseGuard is the single global critical section design: one exclusive
// mutex for the whole tree, held for the full check-and-mutate of every
// operation.
type coarseGuard struct {
	mu sync.Mutex
}

func (g *coarseGuard) enter(int) func() {
	g.mu.Lock()
	return g.mu.Unlock
}

func (g *coarseGuard) enterAll() func() {
	g.mu.Lock()
	return g.mu.Unlock
}

// orderedGuard is the deterministic multi-node locking protocol: one mutex
// per node, acquired in increasing index order and released in reverse.
//
// An operation on a target touches the target itself, its full ancestor
// chain and its full subtree, so that is exactly the set locked here. The
// breadth-first numbering makes the set naturally sorted: ancestors carry
// smaller indices than the target, and the subtree walk emits increasing
// indices. Two operations with overlapping sets therefore contend on their
// common nodes in the same order, which rules out deadlock; operations on
// disjoint subtrees share no mutex beyond their common ancestors and run in
// parallel once past them.
type orderedGuard struct {
	tree *tree.Tree
	mus  []sync.Mutex
}

func newOrderedGuard(t *tree.Tree) *orderedGuard {
	return &orderedGuard{
		tree: t,
		mus:  make([]sync.Mutex, t.Len()),
	}
}

// nodeSet returns the indices covered by an operation on target, in
// increasing order. Topology is immutable, so no locks are needed to
// compute it.
func (g *orderedGuard) nodeSet(target int) []int {
	anc := g.tree.Ancestors(target)
	set := make([]int, 0, len(anc)+1)
	for k := len(anc) - 1; k >= 0; k-- {
		set = append(set, anc[k])
	}
	g.tree.WalkSubtree(target, func(j int) bool {
		set = append(set, j)
		return true
	})
	return set
}

func (g *orderedGuard) enter(target int) func() {
	set := g.nodeSet(target)
	for _, i := range set {
		g.mus[i].Lock()
	}
	return func() {
		for k := len(set) - 1; k >= 0; k-- {
			g.mus[set[k]].Unlock()
		}
	}
}

func (g *orderedGuard) enterAll() func() {
	for i := range g.mus {
		g.mus[i].Lock()
	}
	return func() {
		for k := len(g.mus) - 1; k >= 0; k-- {
			g.mus[k].Unlock()
		}
	}
}
