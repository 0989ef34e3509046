package tree

import "fmt"

// Tree is the fixed topology of named lock nodes. It is built once by Build
// and is immutable afterwards: only the manager's per-node state changes at
// runtime, never the shape.
//
// Nodes are stored in a flat slice in breadth-first order, so a node's index
// is also its position in the construction name list. Parents are referenced
// by index rather than by pointer, which keeps the parent relation
// non-owning and gives every node a stable position in the global
// acquisition order used by the fine-grained guard.
type Tree struct {
	names     []string
	parents   []int
	children  [][]int
	index     map[string]int
	branching int
}

// Build constructs a tree from an ordered list of distinct names and a
// branching factor. The first name becomes the root; the remaining names are
// attached breadth-first, each node receiving up to branching children in
// list order.
func Build(names []string, branching int) (*Tree, error) {
	if len(names) == 0 {
		return nil, ErrNoNodes
	}
	if branching < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBranching, branching)
	}

	t := &Tree{
		names:     make([]string, len(names)),
		parents:   make([]int, len(names)),
		children:  make([][]int, len(names)),
		index:     make(map[string]int, len(names)),
		branching: branching,
	}
	copy(t.names, names)

	for i, name := range names {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		t.index[name] = i

		if i == 0 {
			t.parents[i] = -1
			continue
		}
		// Breadth-first assignment with a fixed arity means the parent of
		// the i-th name is fully determined by the index.
		p := (i - 1) / branching
		t.parents[i] = p
		t.children[p] = append(t.children[p], i)
	}

	return t, nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.names)
}

// Root returns the index of the root node.
func (t *Tree) Root() int {
	return 0
}

// Branching returns the branching factor the tree was built with.
func (t *Tree) Branching() int {
	return t.branching
}

// Lookup resolves a node name to its index.
func (t *Tree) Lookup(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Name returns the name of the node at index i.
func (t *Tree) Name(i int) string {
	return t.names[i]
}

// Parent returns the index of the parent of node i, or -1 for the root.
func (t *Tree) Parent(i int) int {
	return t.parents[i]
}

// Children returns the child indices of node i in assignment order. The
// returned slice is shared; callers must not modify it.
func (t *Tree) Children(i int) []int {
	return t.children[i]
}

// Ancestors returns the indices on the path from node i to the root,
// nearest ancestor first. The root has no ancestors.
func (t *Tree) Ancestors(i int) []int {
	var out []int
	for p := t.parents[i]; p >= 0; p = t.parents[p] {
		out = append(out, p)
	}
	return out
}

// WalkSubtree visits node i and its descendants breadth-first. The visit
// callback reports whether the walk should descend into the children of the
// visited node. Because children always carry higher indices than their
// parent, nodes are visited in strictly increasing index order.
func (t *Tree) WalkSubtree(i int, visit func(int) bool) {
	queue := []int{i}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if visit(n) {
			queue = append(queue, t.children[n]...)
		}
	}
}
