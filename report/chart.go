package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/instrsim/instrsim/model"
	"github.com/instrsim/instrsim/spc"
)

// Charts are decimated to keep rendering bounded on long runs.
const maxChartPoints = 2048

// renderCharts produces the PNG artifacts for a run: a time-series plot and
// an X-bar SPC chart per channel, or grouped value charts for ICT runs.
func renderCharts(dir string, run *model.TestRun, sum *model.Summary) ([]model.Artifact, error) {
	if len(run.Points) > 0 {
		return renderPointCharts(dir, run)
	}
	return renderSeriesCharts(dir, run, sum)
}

func renderSeriesCharts(dir string, run *model.TestRun, sum *model.Summary) ([]model.Artifact, error) {
	var artifacts []model.Artifact

	times := make([]time.Time, len(run.Samples))
	for i, s := range run.Samples {
		times[i] = s.Timestamp
	}

	for i, ch := range run.Channels {
		values := run.ChannelValues(ch)
		xs, ys := decimate(times, values)
		if len(xs) < 2 {
			continue
		}
		unit := ""
		if i < len(run.Units) {
			unit = run.Units[i]
		}
		axisLabel := ch
		if unit != "" {
			axisLabel = fmt.Sprintf("%s (%s)", ch, unit)
		}

		// Time-series plot with the spec limits overlaid.
		series := []chart.Series{valueSeries(ch, xs, ys, drawing.ColorBlue)}
		if limits, found := run.Limits[ch]; found {
			if limits.LowerBounded {
				series = append(series, limitSeries("lower limit", xs, limits.Lower, drawing.ColorRed))
			}
			if limits.UpperBounded {
				series = append(series, limitSeries("upper limit", xs, limits.Upper, drawing.ColorRed))
			}
		}
		name := fmt.Sprintf("%s_%s_timeseries.png", run.Type, ch)
		if err := renderPNG(filepath.Join(dir, name), fmt.Sprintf("%s over time", axisLabel), axisLabel, series); err != nil {
			return nil, err
		}
		artifacts = registerFile(artifacts, dir, name, model.ArtifactTypeTimeSeriesPNG)

		// X-bar chart: values against the run's own mean and control limits.
		cs, found := sum.Channels[ch]
		if !found {
			continue
		}
		xbar := []chart.Series{
			valueSeries(ch, xs, ys, drawing.ColorBlue),
			limitSeries("mean", xs, cs.Mean, drawing.ColorGreen),
			limitSeries("UCL", xs, cs.UCL, drawing.ColorRed),
			limitSeries("LCL", xs, cs.LCL, drawing.ColorRed),
		}
		name = fmt.Sprintf("%s_%s_spc.png", run.Type, ch)
		if err := renderPNG(filepath.Join(dir, name), fmt.Sprintf("%s X-bar chart", axisLabel), axisLabel, xbar); err != nil {
			return nil, err
		}
		artifacts = registerFile(artifacts, dir, name, model.ArtifactTypeSPCChartPNG)

		// Moving-range chart alongside the X-bar chart.
		ranges := spc.MovingRange(values)
		if len(ranges) < 2 {
			continue
		}
		rx, ry := decimate(times[1:], ranges)
		rd := spc.Describe(ranges)
		rucl, rlcl := rd.Limits(sum.Sigma)
		rseries := []chart.Series{
			valueSeries("range", rx, ry, drawing.ColorBlue),
			limitSeries("mean", rx, rd.Mean, drawing.ColorGreen),
			limitSeries("UCL", rx, rucl, drawing.ColorRed),
			limitSeries("LCL", rx, rlcl, drawing.ColorRed),
		}
		name = fmt.Sprintf("%s_%s_range.png", run.Type, ch)
		if err := renderPNG(filepath.Join(dir, name), fmt.Sprintf("%s R chart", axisLabel), fmt.Sprintf("range (%s)", unit), rseries); err != nil {
			return nil, err
		}
		artifacts = registerFile(artifacts, dir, name, model.ArtifactTypeSPCChartPNG)
	}
	return artifacts, nil
}

func renderPointCharts(dir string, run *model.TestRun) ([]model.Artifact, error) {
	var artifacts []model.Artifact

	grouped := make(map[string][]model.PointMeasurement)
	for _, p := range run.Points {
		grouped[p.Group] = append(grouped[p.Group], p)
	}

	for _, group := range run.Channels {
		points := grouped[group]
		if len(points) == 0 {
			continue
		}
		bars := make([]chart.Value, len(points))
		for i, p := range points {
			bars[i] = chart.Value{Label: p.Point, Value: p.Value}
		}
		bc := chart.BarChart{
			Title:    fmt.Sprintf("%s measurements", group),
			Width:    720,
			Height:   480,
			BarWidth: 48,
			Bars:     bars,
		}
		name := fmt.Sprintf("%s_%s_values.png", run.Type, group)
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to create chart %s: %w", name, err)
		}
		err = bc.Render(chart.PNG, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to render chart %s: %w", name, err)
		}
		artifacts = registerFile(artifacts, dir, name, model.ArtifactTypeTimeSeriesPNG)
	}
	return artifacts, nil
}

func valueSeries(name string, xs []time.Time, ys []float64, color drawing.Color) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		Style:   chart.Style{StrokeColor: color},
		XValues: xs,
		YValues: ys,
	}
}

// limitSeries draws a horizontal reference line across the run.
func limitSeries(name string, xs []time.Time, y float64, color drawing.Color) chart.TimeSeries {
	return chart.TimeSeries{
		Name: name,
		Style: chart.Style{
			StrokeColor:     color,
			StrokeDashArray: []float64{5.0, 5.0},
		},
		XValues: []time.Time{xs[0], xs[len(xs)-1]},
		YValues: []float64{y, y},
	}
}

func renderPNG(path, title, yAxis string, series []chart.Series) error {
	graph := chart.Chart{
		Title:  title,
		Width:  960,
		Height: 480,
		XAxis:  chart.XAxis{Name: "time"},
		YAxis:  chart.YAxis{Name: yAxis},
		Series: series,
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart %s: %w", path, err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart %s: %w", path, err)
	}
	return nil
}

// decimate strides over long series so charts stay bounded.
func decimate(xs []time.Time, ys []float64) ([]time.Time, []float64) {
	n := len(ys)
	if len(xs) < n {
		n = len(xs)
	}
	if n <= maxChartPoints {
		return xs[:n], ys[:n]
	}
	stride := (n + maxChartPoints - 1) / maxChartPoints
	outX := make([]time.Time, 0, maxChartPoints)
	outY := make([]float64, 0, maxChartPoints)
	for i := 0; i < n; i += stride {
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}

func registerFile(artifacts []model.Artifact, dir, name string, t model.ArtifactType) []model.Artifact {
	var size uint64
	if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
		size = uint64(info.Size())
	}
	return append(artifacts, model.Artifact{Type: t, Size: size, File: name})
}
