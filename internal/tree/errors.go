package tree

import "errors"

// Move errors
var (
	// ErrInvalidIndex indicates that an index does not resolve to a node.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrInvalidLevel indicates that a nesting level cannot be placed at the
	// requested position without breaking the tree encoding.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrCircularMove indicates an attempt to move a node into its own subtree.
	ErrCircularMove = errors.New("circular move")

	// ErrMultipleStable indicates that more than one moved index sits at the
	// insertion point. Indices are deduplicated before partitioning, so this
	// points at a bug in the partitioning itself.
	ErrMultipleStable = errors.New("more than one item at insertion point")
)
