// visitstl runs the full analysis pipeline once: read the wide museum
// visits table, build the canonical series for one institution, fit the
// decomposition selector over a complete-year window, and emit the model
// comparison as JSON plus an html chart report.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/aouyang1/go-seasonal"
	"github.com/aouyang1/go-seasonal/visitseries"
)

func main() {
	var (
		csvPath     = flag.String("csv", "testdata/museum_visits.csv", "path to the wide museum visits table")
		institution = flag.String("institution", "TATE_MODERN", "institution tag to isolate")
		startYear   = flag.Int("start-year", 2010, "first calendar year of the decomposition window")
		endYear     = flag.Int("end-year", 2015, "last calendar year of the decomposition window")
		tol         = flag.Float64("tol", 0.05, "relative mean |remainder| improvement required to prefer the variable model")
		reportPath  = flag.String("report", "seasonal_report.html", "output path for the html report")
	)
	flag.Parse()

	if err := run(*csvPath, *institution, *startYear, *endYear, *tol, *reportPath); err != nil {
		slog.Error("pipeline failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(csvPath, institution string, startYear, endYear int, tol float64, reportPath string) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("unable to open visits table, %w", err)
	}
	defer file.Close()

	rows, err := visitseries.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("unable to read visits table, %w", err)
	}

	parsed, err := visitseries.Parse(rows, institution)
	if err != nil {
		return fmt.Errorf("unable to build series, %w", err)
	}
	for _, m := range parsed.Missing {
		slog.Warn("missing visit count", "institution", institution, "year", m.Year, "month", m.Month.String())
	}

	windowed, err := parsed.Series.Window(startYear, time.January, endYear, time.December)
	if err != nil {
		return fmt.Errorf("unable to window series, %w", err)
	}
	if gaps := windowed.MissingValues(); len(gaps) > 0 {
		return fmt.Errorf("decomposition window contains %d missing observations, %w", len(gaps), seasonal.ErrMissingValues)
	}

	sel := seasonal.New(nil)
	if err := sel.Fit(windowed); err != nil {
		return fmt.Errorf("unable to fit selector, %w", err)
	}

	model, err := sel.Model(tol)
	if err != nil {
		return err
	}
	bytes, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal model summary, %w", err)
	}
	fmt.Println(string(bytes))

	if err := sel.PlotReport(reportPath); err != nil {
		return fmt.Errorf("unable to render report, %w", err)
	}
	slog.Info("report rendered", "path", reportPath, "preferred", string(model.Preferred), "best_window", model.Comparison.Variable.SeasonalWindow)
	return nil
}
