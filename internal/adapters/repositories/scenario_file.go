package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"food-delivery-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// On-disk shape of a scenario. The same shape is used for seed files,
// JSON or YAML.
type ScenarioFile struct {
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	GridSize    int              `json:"grid_size" yaml:"grid_size"`
	Riders      int              `json:"riders" yaml:"riders"`
	Restaurants []RestaurantSeed `json:"restaurants" yaml:"restaurants"`
}

type RestaurantSeed struct {
	Name     string      `json:"name" yaml:"name"`
	Location int         `json:"location" yaml:"location"`
	Orders   []OrderSeed `json:"orders" yaml:"orders"`
}

type OrderSeed struct {
	Name      string `json:"name" yaml:"name"`
	Location  int    `json:"location" yaml:"location"`
	TimeLimit int    `json:"time_limit" yaml:"time_limit"`
}

// Convert seeds into domain restaurants, preserving file order.
func (f *ScenarioFile) ToScenario() *domain.Scenario {
	s := &domain.Scenario{
		Name:        f.Name,
		GridSize:    f.GridSize,
		Riders:      f.Riders,
		Restaurants: make([]*domain.Restaurant, 0, len(f.Restaurants)),
	}
	for _, rs := range f.Restaurants {
		r := domain.NewRestaurant(strings.TrimSpace(rs.Name), domain.Node(rs.Location))
		for _, o := range rs.Orders {
			r.AddOrder(domain.Order{
				Name:      strings.TrimSpace(o.Name),
				Location:  domain.Node(o.Location),
				TimeLimit: o.TimeLimit,
			})
		}
		s.Restaurants = append(s.Restaurants, r)
	}
	return s
}

// Parse a scenario document. YAML is a superset of JSON, but JSON is
// decoded with encoding/json so unknown fields are reported.
func ParseScenario(data []byte, format string) (*ScenarioFile, error) {
	var f ScenarioFile
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse scenario: json: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse scenario: yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("parse scenario: unsupported format %q", format)
	}
	return &f, nil
}

// Read every scenario in path. ".txt" files use the batch format of
// ParseTestCases; JSON and YAML files hold exactly one scenario.
func LoadScenarios(path string) ([]*domain.Scenario, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load scenarios: open %q: %w", path, err)
		}
		defer f.Close()
		cases, err := ParseTestCases(f)
		if err != nil {
			return nil, fmt.Errorf("load scenarios %q: %w", path, err)
		}
		return cases, nil
	}

	s, err := LoadScenarioFile(path)
	if err != nil {
		return nil, err
	}
	return []*domain.Scenario{s}, nil
}

// Read and validate a scenario from path; the format follows the extension.
func LoadScenarioFile(path string) (*domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: read %q: %w", path, err)
	}

	f, err := ParseScenario(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", path, err)
	}

	s := f.ToScenario()
	if err := domain.ValidateScenario(s); err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", path, err)
	}
	return s, nil
}
