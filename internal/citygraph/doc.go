// Package citygraph models the grid city as an undirected, unit-weight graph.
//
// Nodes are numbered 1..N² left to right, top to bottom; node k sits at
// row (k-1)/N and column (k-1)%N. Every open node is connected to each of
// its up, left, right and down neighbours that exist within the grid, and
// neighbours are always enumerated in that order, so BFS results (and the
// shortest path chosen among equal-length candidates) are deterministic.
//
// Because all edges have the same weight, breadth-first search gives exact
// shortest-path distances:
//
//   - Distance:      O(N²) time, O(N²) memory per call.
//   - Path:          O(N²) time, O(N²) memory per call.
//   - DistancesFrom: single-source BFS row, O(N²).
//
// Cached wraps a Graph and memoises BFS rows per source node; it is safe
// for concurrent use.
//
// Errors:
//
//   - ErrInvalidSize: grid size is not positive.
//   - ErrNodeOutOfRange: a query names a node outside [1, N²].
//   - ErrUnreachable: no path exists (only possible with closed nodes).
package citygraph
