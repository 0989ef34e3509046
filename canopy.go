package canopy

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/canopy/pkg/manager"
	"github.com/aretw0/canopy/pkg/tree"
)

// Version is the release version reported by the CLI.
var Version = "0.2.0"

// Option configures the manager returned by New.
type Option = manager.Option

// WithLogger sets the logger used for per-operation debug records.
func WithLogger(logger *slog.Logger) Option {
	return manager.WithLogger(logger)
}

// WithHooks registers observability hooks.
func WithHooks(hooks manager.Hooks) Option {
	return manager.WithHooks(hooks)
}

// WithOrderedLocking selects the per-node ordered locking guard instead of
// the default whole-tree mutex.
func WithOrderedLocking() Option {
	return manager.WithOrderedLocking()
}

// New builds the lock tree from an ordered name list and a branching factor
// and returns a manager over it. The first name becomes the root; the rest
// are attached breadth-first, up to branching children per node.
func New(names []string, branching int, opts ...Option) (*manager.Manager, error) {
	t, err := tree.Build(names, branching)
	if err != nil {
		return nil, fmt.Errorf("building lock tree: %w", err)
	}
	return manager.New(t, opts...), nil
}
