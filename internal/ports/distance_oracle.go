package ports

import "food-delivery-service/internal/domain"

// Contract for shortest travel time between two grid nodes.
// Implementations must return an error, never a numeric sentinel, when the
// nodes are out of range or not connected.
type DistanceOracle interface {
	Distance(a, b domain.Node) (int, error)
}

// Optional extension of DistanceOracle that can also return the nodes walked.
type PathFinder interface {
	DistanceOracle
	Path(a, b domain.Node) ([]domain.Node, error)
}
