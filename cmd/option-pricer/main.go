package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
	"github.com/contactkeval/option-pricer/internal/report"
	"github.com/contactkeval/option-pricer/internal/server"
)

// Scenario is one entry of the -config file: exactly one of the two pricing
// methods must be set.
type Scenario struct {
	Name       string                    `json:"name,omitempty"`
	Lattice    *server.LatticeRequest    `json:"lattice,omitempty"`
	MonteCarlo *server.MonteCarloRequest `json:"monte_carlo,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "path to a scenario JSON file (object or array); empty runs the built-in examples")
	outDir := flag.String("out", "", "directory to write results.json and results.csv (optional)")
	rest := flag.Bool("rest", false, "run as REST server instead of pricing scenarios")
	addr := flag.String("addr", ":8080", "REST server listen address")
	budget := flag.Int64("budget", 0, "max steps×paths per REST Monte Carlo request (0 = default)")
	verbosity := flag.Int("v", 1, "verbosity: 0=errors, 1=info, 2=debug, 3=trace")
	flag.Parse()

	logger.SetVerbosity(*verbosity)

	if *rest {
		if err := server.Run(server.Config{Addr: *addr, MaxBudget: *budget}); err != nil {
			log.Fatalf("server: %v", err)
		}
		return
	}

	scenarios, err := loadScenarios(*configPath)
	if err != nil {
		log.Fatalf("loading scenarios: %v", err)
	}

	rows := make([]report.Row, 0, len(scenarios))
	for i, sc := range scenarios {
		row, err := priceScenario(i, sc)
		if err != nil {
			log.Fatalf("scenario %q: %v", scenarioName(i, sc), err)
		}
		rows = append(rows, row)
	}

	printTable(rows)

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			log.Fatalf("creating output dir: %v", err)
		}
		if err := report.WriteJSON(rows, *outDir); err != nil {
			log.Fatalf("writing results.json: %v", err)
		}
		if err := report.WriteCSV(rows, *outDir); err != nil {
			log.Fatalf("writing results.csv: %v", err)
		}
		logger.Infof("event=reports_written dir=%s scenarios=%d", *outDir, len(rows))
	}
}

// loadScenarios reads the config file, accepting either a single scenario
// object or an array. With no config it falls back to two built-in examples
// so the tool does something useful out of the box.
func loadScenarios(path string) ([]Scenario, error) {
	if path == "" {
		return defaultScenarios(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var scenarios []Scenario
		if err := json.Unmarshal(raw, &scenarios); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return scenarios, nil
	}

	var sc Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return []Scenario{sc}, nil
}

func defaultScenarios() []Scenario {
	return []Scenario{
		{
			Name: "european call, 3-step CRR",
			Lattice: &server.LatticeRequest{
				Spot: 100, Strike: 100, Maturity: 1.0, Rate: 0.05,
				Up: 1.1, Down: 0.9, Steps: 3, OptionType: "call",
			},
		},
		{
			Name:       "european call, GBM simulation",
			MonteCarlo: &server.MonteCarloRequest{Seed: 42},
		},
	}
}

func scenarioName(i int, sc Scenario) string {
	if sc.Name != "" {
		return sc.Name
	}
	return fmt.Sprintf("scenario %d", i+1)
}

func priceScenario(i int, sc Scenario) (report.Row, error) {
	name := scenarioName(i, sc)

	switch {
	case sc.Lattice != nil && sc.MonteCarlo != nil:
		return report.Row{}, fmt.Errorf("scenario sets both lattice and monte_carlo")
	case sc.Lattice != nil:
		res, err := pricing.PriceBinomial(sc.Lattice.Params())
		if err != nil {
			return report.Row{}, err
		}
		logger.Debugf("event=scenario_priced name=%q method=lattice price=%.6f", name, res.Price)
		return report.Row{Name: name, Method: "lattice", Price: res.Price, Delta: &res.Delta}, nil
	case sc.MonteCarlo != nil:
		params, err := sc.MonteCarlo.Params()
		if err != nil {
			return report.Row{}, err
		}
		res, err := pricing.PriceMonteCarlo(params)
		if err != nil {
			return report.Row{}, err
		}
		logger.Debugf("event=scenario_priced name=%q method=monte_carlo price=%.6f", name, res.Price)
		return report.Row{Name: name, Method: "monte_carlo", Price: res.Price, StandardError: nanToNil(res.StandardError)}, nil
	default:
		return report.Row{}, fmt.Errorf("scenario sets neither lattice nor monte_carlo")
	}
}

func printTable(rows []report.Row) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Scenario", "Method", "Price", "Delta", "Std Err")

	for i, r := range rows {
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Name,
			r.Method,
			fmt.Sprintf("%.6f", r.Price),
			optionalLabel(r.Delta),
			optionalLabel(r.StandardError),
		)
	}

	table.Render()
}

func optionalLabel(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.6f", *v)
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
