package citygraph

import "errors"

var (
	// ErrInvalidSize indicates a non-positive grid size.
	ErrInvalidSize = errors.New("citygraph: grid size must be positive")
	// ErrNodeOutOfRange indicates a node id outside [1, N²].
	ErrNodeOutOfRange = errors.New("citygraph: node out of range")
	// ErrUnreachable indicates that no path connects two nodes.
	ErrUnreachable = errors.New("citygraph: node unreachable")
)
