package repositories

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"food-delivery-service/internal/domain"
)

// ParseTestCases reads the plain-text batch format:
//
//	<cases>
//	<grid_size> <riders> <restaurants>
//	<name> <location> <orders>      (per restaurant)
//	<name> <location> <time_limit>  (per order)
//
// Blank lines are ignored. Names must not contain whitespace.
func ParseTestCases(r io.Reader) ([]*domain.Scenario, error) {
	var lines []string
	var lineNo []int
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
			lineNo = append(lineNo, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse test cases: read: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse test cases: input is empty")
	}

	p := &textParser{lines: lines, lineNo: lineNo}
	count, err := p.ints(1, "case count")
	if err != nil {
		return nil, err
	}

	if count[0] < 0 {
		return nil, fmt.Errorf("parse test cases: line %d: case count must be non-negative, got %d", lineNo[0], count[0])
	}

	// Counts come from the file; cap preallocation by what the input can hold.
	cases := make([]*domain.Scenario, 0, min(count[0], len(lines)))
	for c := 1; c <= count[0]; c++ {
		head, err := p.ints(3, "test case header")
		if err != nil {
			return nil, err
		}
		if head[2] <= 0 {
			return nil, fmt.Errorf("parse test cases: case %d: restaurant count must be positive, got %d", c, head[2])
		}
		s := &domain.Scenario{
			Name:        fmt.Sprintf("case-%d", c),
			GridSize:    head[0],
			Riders:      head[1],
			Restaurants: make([]*domain.Restaurant, 0, min(head[2], len(lines))),
		}

		for range head[2] {
			name, vals, err := p.named("restaurant header")
			if err != nil {
				return nil, err
			}
			r := domain.NewRestaurant(name, domain.Node(vals[0]))
			for range vals[1] {
				oname, ovals, err := p.named("order")
				if err != nil {
					return nil, err
				}
				r.AddOrder(domain.Order{Name: oname, Location: domain.Node(ovals[0]), TimeLimit: ovals[1]})
			}
			s.Restaurants = append(s.Restaurants, r)
		}

		if err := domain.ValidateScenario(s); err != nil {
			return nil, fmt.Errorf("parse test cases: case %d: %w", c, err)
		}
		cases = append(cases, s)
	}
	return cases, nil
}

type textParser struct {
	lines  []string
	lineNo []int
	pos    int
}

func (p *textParser) next(what string) ([]string, int, error) {
	if p.pos >= len(p.lines) {
		return nil, 0, fmt.Errorf("parse test cases: unexpected end of input, want %s", what)
	}
	fields := strings.Fields(p.lines[p.pos])
	n := p.lineNo[p.pos]
	p.pos++
	return fields, n, nil
}

func (p *textParser) ints(want int, what string) ([]int, error) {
	fields, n, err := p.next(what)
	if err != nil {
		return nil, err
	}
	if len(fields) != want {
		return nil, fmt.Errorf("parse test cases: line %d: invalid %s: want %d fields, got %d", n, what, want, len(fields))
	}
	out := make([]int, want)
	for i, f := range fields {
		if out[i], err = strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("parse test cases: line %d: invalid %s: %w", n, what, err)
		}
	}
	return out, nil
}

// named parses "<name> <int> <int>".
func (p *textParser) named(what string) (string, [2]int, error) {
	var vals [2]int
	fields, n, err := p.next(what)
	if err != nil {
		return "", vals, err
	}
	if len(fields) != 3 {
		return "", vals, fmt.Errorf("parse test cases: line %d: invalid %s: want 3 fields, got %d", n, what, len(fields))
	}
	for i := range vals {
		if vals[i], err = strconv.Atoi(fields[i+1]); err != nil {
			return "", vals, fmt.Errorf("parse test cases: line %d: invalid %s: %w", n, what, err)
		}
	}
	if vals[1] < 0 && what == "restaurant header" {
		return "", vals, fmt.Errorf("parse test cases: line %d: order count must be non-negative, got %d", n, vals[1])
	}
	return fields[0], vals, nil
}
