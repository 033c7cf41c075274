package citygraph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"food-delivery-service/internal/domain"

	"github.com/samber/lo"
)

// Unreachable marks nodes that cannot be reached in a DistancesFrom row.
const Unreachable = -1

// Graph is an immutable N×N grid city. The adjacency is a dense slice
// indexed by node id; index 0 is unused.
type Graph struct {
	size   int
	adj    [][]domain.Node
	closed map[domain.Node]struct{}
}

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithClosedNodes removes every edge touching the given nodes, as if the
// cells were blocked. Closed nodes stay addressable but are unreachable
// from any other node. Out-of-range ids are ignored.
func WithClosedNodes(nodes ...domain.Node) Option {
	return func(g *Graph) {
		for _, n := range nodes {
			if g.Contains(n) {
				g.closed[n] = struct{}{}
			}
		}
	}
}

// New builds the grid graph for an N×N city.
// Returns ErrInvalidSize when size < 1.
// Complexity: O(N²) time and memory.
func New(size int, opts ...Option) (*Graph, error) {
	if size < 1 {
		return nil, fmt.Errorf("new graph: size=%d: %w", size, ErrInvalidSize)
	}

	g := &Graph{
		size:   size,
		adj:    make([][]domain.Node, size*size+1),
		closed: make(map[domain.Node]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}

	for id := 1; id <= size*size; id++ {
		node := domain.Node(id)
		if g.isClosed(node) {
			continue
		}
		row, col := g.Coordinate(node)

		neighbors := make([]domain.Node, 0, 4)
		// Enumeration order: up, left, right, down.
		if row > 0 {
			neighbors = append(neighbors, node-domain.Node(size))
		}
		if col > 0 {
			neighbors = append(neighbors, node-1)
		}
		if col < size-1 {
			neighbors = append(neighbors, node+1)
		}
		if row < size-1 {
			neighbors = append(neighbors, node+domain.Node(size))
		}

		g.adj[id] = lo.Reject(neighbors, func(n domain.Node, _ int) bool { return g.isClosed(n) })
	}

	return g, nil
}

// Size returns N for an N×N grid.
func (g *Graph) Size() int { return g.size }

// NodeCount returns N².
func (g *Graph) NodeCount() int { return g.size * g.size }

// Contains reports whether node lies within [1, N²].
func (g *Graph) Contains(node domain.Node) bool {
	return node >= 1 && int(node) <= g.size*g.size
}

// Coordinate converts a node id to its 0-indexed (row, col).
// The result is meaningless for nodes outside the grid.
func (g *Graph) Coordinate(node domain.Node) (row, col int) {
	return (int(node) - 1) / g.size, (int(node) - 1) % g.size
}

// NodeAt converts a 0-indexed (row, col) back to a node id.
func (g *Graph) NodeAt(row, col int) domain.Node {
	return domain.Node(row*g.size + col + 1)
}

// Key identifies the graph's shape for persisted distance caches:
// "NxN" optionally followed by "-closed:" and the sorted closed node ids.
func (g *Graph) Key() string {
	key := fmt.Sprintf("%dx%d", g.size, g.size)
	if len(g.closed) == 0 {
		return key
	}

	ids := make([]int, 0, len(g.closed))
	for n := range g.closed {
		ids = append(ids, int(n))
	}
	slices.Sort(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return key + "-closed:" + strings.Join(parts, ",")
}

func (g *Graph) isClosed(node domain.Node) bool {
	_, ok := g.closed[node]
	return ok
}

func (g *Graph) check(node domain.Node) error {
	if !g.Contains(node) {
		return fmt.Errorf("node %d not in [1, %d]: %w", node, g.NodeCount(), ErrNodeOutOfRange)
	}
	return nil
}

// Neighbors returns the grid-adjacent nodes of node in up, left, right,
// down order. The returned slice must not be modified.
func (g *Graph) Neighbors(node domain.Node) ([]domain.Node, error) {
	if err := g.check(node); err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	return g.adj[node], nil
}

// Distance returns the number of edges on a shortest path from a to b.
// BFS stops as soon as b is discovered.
func (g *Graph) Distance(a, b domain.Node) (int, error) {
	if err := g.check(a); err != nil {
		return 0, fmt.Errorf("distance: %w", err)
	}
	if err := g.check(b); err != nil {
		return 0, fmt.Errorf("distance: %w", err)
	}
	if a == b {
		return 0, nil
	}

	dist, _ := g.bfs(a, b)
	if dist[b] == Unreachable {
		return 0, fmt.Errorf("distance: from %d to %d: %w", a, b, ErrUnreachable)
	}
	return dist[b], nil
}

// Path returns one shortest path from a to b, both inclusive.
// Ties between equal-length paths follow neighbour enumeration order.
// Returns [a] when a == b and an empty path with ErrUnreachable when no
// path exists.
func (g *Graph) Path(a, b domain.Node) ([]domain.Node, error) {
	if err := g.check(a); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	if err := g.check(b); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	if a == b {
		return []domain.Node{a}, nil
	}

	dist, parent := g.bfs(a, b)
	if dist[b] == Unreachable {
		return []domain.Node{}, fmt.Errorf("path: from %d to %d: %w", a, b, ErrUnreachable)
	}

	path := make([]domain.Node, 0, dist[b]+1)
	for at := b; at != 0; at = parent[at] {
		path = append(path, at)
	}
	return lo.Reverse(path), nil
}

// DistancesFrom runs a full BFS from src and returns a row of length
// N²+1 where row[k] is the distance to node k, or Unreachable.
// row[0] is always Unreachable.
func (g *Graph) DistancesFrom(src domain.Node) ([]int, error) {
	if err := g.check(src); err != nil {
		return nil, fmt.Errorf("distances from: %w", err)
	}
	dist, _ := g.bfs(src, 0)
	return dist, nil
}

// bfs explores from src until target is discovered (target 0 explores the
// whole component). parent[src] is 0; parent of undiscovered nodes is 0.
func (g *Graph) bfs(src, target domain.Node) (dist []int, parent []domain.Node) {
	n := g.NodeCount()
	dist = make([]int, n+1)
	parent = make([]domain.Node, n+1)
	for i := range dist {
		dist[i] = Unreachable
	}

	dist[src] = 0
	queue := make([]domain.Node, 0, n)
	queue = append(queue, src)
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, v := range g.adj[u] {
			if dist[v] != Unreachable {
				continue
			}
			dist[v] = dist[u] + 1
			parent[v] = u
			if v == target {
				return dist, parent
			}
			queue = append(queue, v)
		}
	}

	return dist, parent
}
