package cache

import (
	"encoding/json"
	"fmt"

	"food-delivery-service/internal/domain"

	"github.com/samber/lo"
)

// Rows are persisted as compact JSON arrays; the length check happens in
// the services layer, which knows the graph shape.
func encodeRow(row []int) (string, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("encode distance row: %w", err)
	}
	return string(b), nil
}

func decodeRow(raw string) ([]int, error) {
	var row []int
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return nil, fmt.Errorf("decode distance row: %w", err)
	}
	return row, nil
}

func uniqueOrigins(origins []domain.Node) []domain.Node {
	return lo.Uniq(origins)
}

func originArgs(origins []domain.Node) []int64 {
	return lo.Map(origins, func(n domain.Node, _ int) int64 { return int64(n) })
}
