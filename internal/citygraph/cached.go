package citygraph

import (
	"fmt"

	"food-delivery-service/internal/domain"

	"github.com/puzpuzpuz/xsync/v3"
)

// Cached memoises full BFS rows per source node on top of a Graph.
// Safe for concurrent use; rows are computed at most once per source
// under normal contention.
type Cached struct {
	*Graph
	rows *xsync.MapOf[domain.Node, []int]
}

func NewCached(g *Graph) *Cached {
	return &Cached{Graph: g, rows: xsync.NewMapOf[domain.Node, []int]()}
}

// Distance answers from the memoised row of a, computing it on first use.
func (c *Cached) Distance(a, b domain.Node) (int, error) {
	if err := c.check(b); err != nil {
		return 0, fmt.Errorf("cached distance: %w", err)
	}
	row, err := c.Row(a)
	if err != nil {
		return 0, fmt.Errorf("cached distance: %w", err)
	}
	if row[b] == Unreachable {
		return 0, fmt.Errorf("cached distance: from %d to %d: %w", a, b, ErrUnreachable)
	}
	return row[b], nil
}

// Row returns the memoised DistancesFrom row for src.
// The returned slice is shared and must not be modified.
func (c *Cached) Row(src domain.Node) ([]int, error) {
	if err := c.check(src); err != nil {
		return nil, err
	}
	row, _ := c.rows.LoadOrCompute(src, func() []int {
		dist, _ := c.bfs(src, 0)
		return dist
	})
	return row, nil
}

// Len returns the number of memoised rows.
func (c *Cached) Len() int { return c.rows.Size() }
