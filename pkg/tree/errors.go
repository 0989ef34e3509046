package tree

import "errors"

// ErrNoNodes is returned when a tree is built from an empty name list.
var ErrNoNodes = errors.New("tree needs at least one node")

// ErrDuplicateName is returned when two nodes share a name.
var ErrDuplicateName = errors.New("duplicate node name")

// ErrBranching is returned when the branching factor is not positive.
var ErrBranching = errors.New("branching factor must be at least 1")
