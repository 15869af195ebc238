package seasonal

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTSeries generates an echart multi-line chart for some arbitrary
// time/value combination. Each series in y must have the same length as the
// input time slice. NaN points are emitted as nil values so the rendered
// line shows a gap rather than an interpolated segment.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: nil})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line
}

// BarSeries generates an echart bar chart from parallel label/value slices.
func BarSeries(title, seriesName string, labels []string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	barData := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		barData = append(barData, opts.BarData{Value: v})
	}
	bar.SetXAxis(labels).AddSeries(seriesName, barData)
	return bar
}

// ACFLines charts a remainder autocorrelation alongside its white noise
// confidence bounds.
func ACFLines(title string, acf []float64, bound float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lags := make([]int, 0, len(acf))
	acfData := make([]opts.LineData, 0, len(acf))
	upperData := make([]opts.LineData, 0, len(acf))
	lowerData := make([]opts.LineData, 0, len(acf))
	for lag, v := range acf {
		lags = append(lags, lag)
		acfData = append(acfData, opts.LineData{Value: v})
		upperData = append(upperData, opts.LineData{Value: bound})
		lowerData = append(lowerData, opts.LineData{Value: -bound})
	}

	line.SetXAxis(lags).
		AddSeries("ACF", acfData).
		AddSeries("Upper bound", upperData).
		AddSeries("Lower bound", lowerData)
	return line
}

// PlotReport renders the full analysis as a single html page: the observed
// series, both selected decompositions, the candidate score table, residual
// autocorrelations, and the seasonal component against the bank holiday
// calendar.
func (s *Selector) PlotReport(path string) error {
	if s.fixed == nil || s.best == nil {
		return ErrNotFit
	}

	t := s.series.Times()
	y := s.series.Values()

	candidateLabels := make([]string, 0, len(s.candidates))
	candidateScores := make([]float64, 0, len(s.candidates))
	for _, c := range s.candidates {
		candidateLabels = append(candidateLabels, fmt.Sprintf("%d", c.Window))
		candidateScores = append(candidateScores, c.Stats.MeanAbs)
	}

	cmp, err := s.Comparison()
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(
		LineTSeries(
			fmt.Sprintf("%s monthly visits (thousands)", s.series.Institution),
			[]string{"Observed"},
			t,
			[][]float64{y},
		),
		LineTSeries(
			"Fixed seasonality components",
			[]string{"Seasonal", "Trend", "Remainder"},
			t,
			[][]float64{s.fixed.Result.Seasonal, s.fixed.Result.Trend, s.fixed.Result.Remainder},
		),
		LineTSeries(
			fmt.Sprintf("Variable seasonality components (window %d)", s.best.Window),
			[]string{"Seasonal", "Trend", "Remainder"},
			t,
			[][]float64{s.best.Result.Seasonal, s.best.Result.Trend, s.best.Result.Remainder},
		),
		BarSeries("Candidate seasonal windows", "Mean |remainder|", candidateLabels, candidateScores),
		ACFLines("Fixed model remainder autocorrelation", cmp.Fixed.RemainderACF, cmp.Fixed.ACFBound),
		ACFLines("Variable model remainder autocorrelation", cmp.Variable.RemainderACF, cmp.Variable.ACFBound),
		LineTSeries(
			"Seasonal component vs GB bank holidays",
			[]string{"Seasonal", "Bank holidays"},
			t,
			[][]float64{s.fixed.Result.Seasonal, BankHolidayCounts(t)},
		),
	)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
