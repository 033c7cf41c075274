// Package report renders plans and scenarios as plain text for the CLI.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"
)

const rule = "============================================================"

// Scenario prints the header block for one test case.
func Scenario(w io.Writer, caseNum int, s *domain.Scenario) {
	fmt.Fprintf(w, "\n%s\nTest Case %d\n%s\n", rule, caseNum, rule)
	fmt.Fprintf(w, "Grid Size: %dx%d\n", s.GridSize, s.GridSize)
	fmt.Fprintf(w, "Number of Riders: %d\n", s.Riders)
	fmt.Fprintf(w, "Number of Restaurants: %d\n", len(s.Restaurants))
	fmt.Fprintf(w, "Total Orders: %d\n\n", s.OrderCount())

	for _, r := range s.Restaurants {
		fmt.Fprintf(w, "  %s (Location: %d)\n", r.Name, r.Location)
		for _, o := range r.Orders {
			fmt.Fprintf(w, "    - %s: Location %d, Time Limit: %d\n", o.Name, o.Location, o.TimeLimit)
		}
	}
}

// Plan prints one line per rider with stops, then the total and any
// unassigned orders. When paths is non-nil it is indexed like plan.Routes
// and every walked node is printed instead of stops only.
func Plan(w io.Writer, plan *domain.Plan, paths [][]domain.PathStep) {
	for i, route := range plan.Routes {
		if len(route.Stops) == 0 {
			continue
		}

		var parts []string
		if i < len(paths) && paths[i] != nil {
			for _, s := range paths[i] {
				parts = append(parts, label(s.Node, s.Name))
			}
		} else {
			for _, s := range route.Stops {
				parts = append(parts, label(s.Node, s.Name))
			}
		}
		fmt.Fprintf(w, "Rider %d: %s = %d time units\n", route.Rider, strings.Join(parts, " -> "), route.TotalTime)
	}
	fmt.Fprintf(w, "Total: %d time units\n", plan.TotalTime())

	if len(plan.Unassigned) == 0 {
		return
	}
	fmt.Fprintln(w, "Unassigned:")
	for _, u := range plan.Unassigned {
		switch u.Reason {
		case domain.ReasonNoRiders:
			fmt.Fprintf(w, "  %s from %s: no riders available\n", u.Order.Name, u.Restaurant)
		default:
			fmt.Fprintf(w, "  %s from %s: distance %d exceeds time limit %d\n",
				u.Order.Name, u.Restaurant, u.Distance, u.Order.TimeLimit)
		}
	}
}

func label(n domain.Node, name string) string {
	if name == "" {
		return strconv.Itoa(int(n))
	}
	return fmt.Sprintf("%d (%s)", n, name)
}

// Grid draws the N×N city with marked nodes bracketed, followed by a
// legend of the marked nodes in ascending id order.
func Grid(w io.Writer, g *citygraph.Graph, marked map[domain.Node]string) {
	n := g.Size()
	fmt.Fprintf(w, "\n%d×%d Grid\n", n, n)
	fmt.Fprintln(w, strings.Repeat("=", n*8))

	fmt.Fprint(w, "       ")
	for col := 0; col < n; col++ {
		fmt.Fprintf(w, "Col%2d  ", col)
	}
	fmt.Fprintln(w)

	for row := 0; row < n; row++ {
		fmt.Fprintf(w, "Row %2d ", row)
		for col := 0; col < n; col++ {
			node := g.NodeAt(row, col)
			if _, ok := marked[node]; ok {
				fmt.Fprintf(w, "[%3d]  ", node)
			} else {
				fmt.Fprintf(w, " %3d   ", node)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.Repeat("=", n*8))

	if len(marked) == 0 {
		return
	}
	fmt.Fprintln(w, "Marked Nodes:")
	for id := 1; id <= g.NodeCount(); id++ {
		node := domain.Node(id)
		if name, ok := marked[node]; ok {
			row, col := g.Coordinate(node)
			fmt.Fprintf(w, "  Node %3d (%s): Row %d, Col %d\n", node, name, row, col)
		}
	}
}

// Marked collects every restaurant and customer location of s, restaurant
// names winning when a customer shares the cell.
func Marked(s *domain.Scenario) map[domain.Node]string {
	out := make(map[domain.Node]string)
	for _, r := range s.Restaurants {
		for _, o := range r.Orders {
			if _, ok := out[o.Location]; !ok {
				out[o.Location] = o.Name
			}
		}
	}
	for _, r := range s.Restaurants {
		out[r.Location] = r.Name
	}
	return out
}
