package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"food-delivery-service/internal/adapters/repositories"
	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/config"
	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/report"
	"food-delivery-service/internal/services"

	"github.com/sirupsen/logrus"
)

var (
	input       = flag.String("input", "data/input.txt", "scenario file (.txt batch, .json or .yaml)")
	stopsOnly   = flag.Bool("stops", false, "print only restaurant and customer stops instead of every walked node")
	showGrid    = flag.Bool("grid", false, "draw each city grid with restaurants and customers marked")
	parallelism = flag.Int("parallelism", 1, "riders evaluated concurrently per order")
	logLevel    = flag.String("log.level", "warn", "log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	if level, ok := config.LogLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}
	logrus.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, *input); err != nil {
		logrus.Fatal(err)
	}
}

func run(ctx context.Context, w io.Writer, path string) error {
	cases, err := repositories.LoadScenarios(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Reading input from: %s\n", path)
	for i, s := range cases {
		if err := runCase(ctx, w, i+1, s); err != nil {
			return fmt.Errorf("case %d: %w", i+1, err)
		}
	}
	return nil
}

func runCase(ctx context.Context, w io.Writer, num int, s *domain.Scenario) error {
	report.Scenario(w, num, s)

	graph, err := citygraph.New(s.GridSize)
	if err != nil {
		return err
	}
	if *showGrid {
		report.Grid(w, graph, report.Marked(s))
	}

	optimizer, err := services.NewRouteOptimizer(citygraph.NewCached(graph), s.Restaurants, s.Riders,
		services.WithParallelism(*parallelism))
	if err != nil {
		return err
	}
	plan, err := optimizer.Optimize(ctx)
	if err != nil {
		return err
	}
	plan.GridSize = s.GridSize

	var paths [][]domain.PathStep
	if !*stopsOnly {
		paths = make([][]domain.PathStep, len(plan.Routes))
		for i, route := range plan.Routes {
			if paths[i], err = services.ExpandRoute(graph, route); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(w, "\n------------------------------------------------------------")
	fmt.Fprintln(w, "Optimized Routes:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	report.Plan(w, plan, paths)
	return nil
}
