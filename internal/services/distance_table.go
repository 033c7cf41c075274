package services

import (
	"context"
	"fmt"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/platform/obs"
	"food-delivery-service/internal/ports"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const prewarmWorkers = 5

// DistanceTable answers distance queries from precomputed BFS rows and
// falls back to a fresh BFS for origins it does not hold.
// It is read-only after construction and safe for concurrent use.
type DistanceTable struct {
	graph *citygraph.Graph
	rows  map[domain.Node][]int
}

// Distance implements ports.DistanceOracle.
func (t *DistanceTable) Distance(a, b domain.Node) (int, error) {
	row, ok := t.rows[a]
	if !ok {
		return t.graph.Distance(a, b)
	}
	if !t.graph.Contains(b) {
		return 0, fmt.Errorf("distance table: node %d: %w", b, citygraph.ErrNodeOutOfRange)
	}
	if row[b] == citygraph.Unreachable {
		return 0, fmt.Errorf("distance table: from %d to %d: %w", a, b, citygraph.ErrUnreachable)
	}
	return row[b], nil
}

// Path implements ports.PathFinder by delegating to the graph.
func (t *DistanceTable) Path(a, b domain.Node) ([]domain.Node, error) {
	return t.graph.Path(a, b)
}

// Len returns the number of origins held by the table.
func (t *DistanceTable) Len() int { return len(t.rows) }

// PrewarmDistances computes BFS rows for every node in nodes.
//
// Rows are read from cache first when one is configured; misses are
// computed with a bounded worker pool and written back. A failed cache
// write is logged and does not fail the prewarm.
func PrewarmDistances(
	ctx context.Context,
	graph *citygraph.Graph,
	cache ports.DistanceCache,
	nodes []domain.Node,
) (_ *DistanceTable, err error) {
	defer obs.Time(ctx, "distance.Prewarm")(&err)

	origins := lo.Uniq(nodes)
	for _, n := range origins {
		if !graph.Contains(n) {
			return nil, fmt.Errorf("prewarm distances: node %d: %w", n, citygraph.ErrNodeOutOfRange)
		}
	}

	table := &DistanceTable{graph: graph, rows: make(map[domain.Node][]int, len(origins))}
	wantLen := graph.NodeCount() + 1

	if cache != nil {
		hits, err := cache.GetMany(ctx, graph.Key(), origins)
		if err != nil {
			return nil, fmt.Errorf("prewarm distances: get distance cache: %w", err)
		}
		for origin, row := range hits {
			if len(row) != wantLen {
				logrus.WithFields(logrus.Fields{
					"origin": origin,
					"len":    len(row),
					"want":   wantLen,
				}).Warn("ignoring cached distance row with wrong length")
				continue
			}
			table.rows[origin] = row
		}
	}

	misses := lo.Filter(origins, func(n domain.Node, _ int) bool {
		_, ok := table.rows[n]
		return !ok
	})
	if len(misses) == 0 {
		return table, nil
	}

	computed := make([][]int, len(misses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prewarmWorkers)
	for i, origin := range misses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := graph.DistancesFrom(origin)
			if err != nil {
				return fmt.Errorf("prewarm distances: from %d: %w", origin, err)
			}
			computed[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fresh := make(map[domain.Node][]int, len(misses))
	for i, origin := range misses {
		table.rows[origin] = computed[i]
		fresh[origin] = computed[i]
	}

	if cache != nil {
		if err := cache.PutMany(ctx, graph.Key(), fresh); err != nil {
			logrus.WithError(err).Warn("distance cache write failed")
		}
	}

	return table, nil
}
