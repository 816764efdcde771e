package larch

import "errors"

// Error kinds reported by tree, transform, texture, and text operations.
// Call sites wrap these with context; match them with errors.Is.
var (
	// ErrInvalidGeometry is returned when a frame adjustment is applied to
	// vertex data that is not exactly one quad.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrCycleDetected is returned when a node would become its own descendant.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrUnresolvedAncestor is returned when a transform is requested relative
	// to a node that is not an ancestor of the source node.
	ErrUnresolvedAncestor = errors.New("target is not an ancestor")

	// ErrSingularMatrix is returned when inverting a zero-determinant matrix.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrMissingFont is returned when a text field names an unregistered font.
	ErrMissingFont = errors.New("bitmap font not registered")

	// ErrAlreadyParented is returned when adding a node that belongs to
	// another container.
	ErrAlreadyParented = errors.New("node already has a parent")

	// ErrIndexOutOfRange is returned for child indices outside the child list.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrNotChild is returned when a node is not a child of the container.
	ErrNotChild = errors.New("node is not a child of this container")

	// ErrNilNode is returned when a nil node is passed to a tree operation.
	ErrNilNode = errors.New("nil node")

	// ErrNotContainer is returned when a child operation targets a leaf node.
	ErrNotContainer = errors.New("node is not a container")
)
