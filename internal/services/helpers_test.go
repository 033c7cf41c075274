package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"

	"github.com/stretchr/testify/require"
)

var errOracleDown = errors.New("oracle down")

// failingOracle fails every query that touches node bad.
type failingOracle struct {
	inner *citygraph.Graph
	bad   domain.Node
}

func (f failingOracle) Distance(a, b domain.Node) (int, error) {
	if a == f.bad || b == f.bad {
		return 0, errOracleDown
	}
	return f.inner.Distance(a, b)
}

type memoryCache struct {
	mu     sync.Mutex
	rows   map[string]map[domain.Node][]int
	puts   int
	getErr error
	putErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{rows: make(map[string]map[domain.Node][]int)}
}

func (m *memoryCache) GetMany(_ context.Context, key string, origins []domain.Node) (map[domain.Node][]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make(map[domain.Node][]int)
	for _, o := range origins {
		if row, ok := m.rows[key][o]; ok {
			out[o] = row
		}
	}
	return out, nil
}

func (m *memoryCache) PutMany(_ context.Context, key string, rows map[domain.Node][]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	if m.rows[key] == nil {
		m.rows[key] = make(map[domain.Node][]int)
	}
	for o, r := range rows {
		m.rows[key][o] = r
	}
	return nil
}

type fakeRestaurantRepo struct {
	restaurants []*domain.Restaurant
	err         error
}

func (f *fakeRestaurantRepo) ListRestaurants(context.Context) ([]*domain.Restaurant, error) {
	return f.restaurants, f.err
}

func mustGraph(t *testing.T, size int, opts ...citygraph.Option) *citygraph.Graph {
	t.Helper()
	g, err := citygraph.New(size, opts...)
	require.NoError(t, err)
	return g
}

func restaurant(name string, loc domain.Node, orders ...domain.Order) *domain.Restaurant {
	r := domain.NewRestaurant(name, loc)
	for _, o := range orders {
		r.AddOrder(o)
	}
	return r
}

func assignmentsOf(restaurants ...*domain.Restaurant) []domain.Assignment {
	var out []domain.Assignment
	for _, r := range restaurants {
		for _, o := range r.Orders {
			out = append(out, domain.Assignment{Restaurant: r, Order: o})
		}
	}
	return out
}

// testCaseOne is the 5×5 city with two restaurants used across tests:
//
//	 1  2  3  4  5
//	 6 [7] 8  9 [10]
//	11 12 13 14 [15]
//	16 17 [18] 19 20
//	[21] 22 23 24 25
func testCaseOne() []*domain.Restaurant {
	return []*domain.Restaurant{
		restaurant("BurgerPalace", 10,
			domain.Order{Name: "Beef", Location: 7, TimeLimit: 5},
			domain.Order{Name: "Zinger", Location: 15, TimeLimit: 3},
		),
		restaurant("PizzaPlanet", 18,
			domain.Order{Name: "Tikka", Location: 21, TimeLimit: 4},
		),
	}
}
