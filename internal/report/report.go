// Package report writes batch pricing results to disk as JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Row is one priced scenario. Delta is set for lattice results,
// StandardError for Monte Carlo results; both are pointers so an absent
// sensitivity (or a NaN standard error at paths=1) serializes as null.
type Row struct {
	Name          string   `json:"name"`
	Method        string   `json:"method"` // "lattice" or "monte_carlo"
	Price         float64  `json:"price"`
	Delta         *float64 `json:"delta,omitempty"`
	StandardError *float64 `json:"standard_error,omitempty"`
}

// WriteJSON writes results.json into outdir.
func WriteJSON(rows []Row, outdir string) error {
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "results.json"), b, 0644)
}

// WriteCSV writes results.csv into outdir.
func WriteCSV(rows []Row, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "results.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"name", "method", "price", "delta", "standard_error"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{r.Name, r.Method, fmt.Sprintf("%.10f", r.Price), formatOptional(r.Delta), formatOptional(r.StandardError)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.10f", *v)
}
