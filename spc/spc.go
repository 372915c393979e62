// Package spc computes descriptive statistics, control-chart limits and
// process capability indices from test run samples. Everything here is a
// pure function of its inputs: limits derive only from the run being
// summarized, never from prior runs.
package spc

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/instrsim/instrsim/model"
)

// DefaultSigma is the control limit multiplier (mean ± 3σ).
const DefaultSigma = 3.0

// Descriptive holds the basic statistics for one series.
type Descriptive struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Describe computes mean, sample standard deviation, min and max.
// An empty series yields the zero value.
func Describe(xs []float64) Descriptive {
	if len(xs) == 0 {
		return Descriptive{}
	}
	d := Descriptive{
		Mean: stat.Mean(xs, nil),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
	}
	if len(xs) > 1 {
		d.Std = stat.StdDev(xs, nil)
	}
	return d
}

// Limits returns the upper and lower control limits at the given sigma
// multiple around the series mean.
func (d Descriptive) Limits(sigma float64) (ucl, lcl float64) {
	return d.Mean + sigma*d.Std, d.Mean - sigma*d.Std
}

// MovingRange returns the window-2 moving range |x[i]-x[i-1]| used for the
// R chart. The result has len(xs)-1 elements.
func MovingRange(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = math.Abs(xs[i] - xs[i-1])
	}
	return out
}

// Capability computes the Cp and Cpk indices against the spec limits at
// the given sigma multiple. One-sided limits use the single bounded
// distance; two-sided limits use the nearer bound, which is how the
// stations report both indices. Returns false when the series has no
// spread or the limits are unbounded.
func Capability(d Descriptive, limits model.SpecLimits, sigma float64) (cp, cpk float64, ok bool) {
	if d.Std == 0 || sigma == 0 {
		return 0, 0, false
	}
	denom := sigma * d.Std
	switch {
	case limits.LowerBounded && limits.UpperBounded:
		upper := (limits.Upper - d.Mean) / denom
		lower := (d.Mean - limits.Lower) / denom
		return math.Min(limits.Upper-d.Mean, d.Mean-limits.Lower) / denom, math.Min(upper, lower), true
	case limits.UpperBounded:
		v := (limits.Upper - d.Mean) / denom
		return v, v, true
	case limits.LowerBounded:
		v := (d.Mean - limits.Lower) / denom
		return v, v, true
	}
	return 0, 0, false
}

// Summarize aggregates a TestRun into its Summary: pass/fail counts, per
// channel statistics with control limits, and capability indices where the
// run declares spec limits. ICT runs are aggregated per test group instead.
func Summarize(run *model.TestRun, sigma float64) model.Summary {
	sum := model.Summary{
		RunID:     run.ID,
		Type:      run.Type,
		Timestamp: run.Start,
		Duration:  run.Duration,
		Sigma:     sigma,
		Order:     append([]string(nil), run.Channels...),
	}

	if len(run.Points) > 0 {
		summarizePoints(run, sigma, &sum)
	} else {
		summarizeSamples(run, sigma, &sum)
	}

	sum.SampleCount = sum.PassCount + sum.FailCount
	if sum.SampleCount > 0 {
		sum.PassRate = float64(sum.PassCount) / float64(sum.SampleCount)
	}
	return sum
}

func summarizeSamples(run *model.TestRun, sigma float64, sum *model.Summary) {
	for _, s := range run.Samples {
		if s.Pass {
			sum.PassCount++
		} else {
			sum.FailCount++
		}
	}

	sum.Channels = make(map[string]model.ChannelStats, len(run.Channels))
	for i, ch := range run.Channels {
		d := Describe(run.ChannelValues(ch))
		cs := model.ChannelStats{
			Mean: d.Mean,
			Std:  d.Std,
			Min:  d.Min,
			Max:  d.Max,
		}
		if i < len(run.Units) {
			cs.Unit = run.Units[i]
		}
		cs.UCL, cs.LCL = d.Limits(sigma)
		if limits, found := run.Limits[ch]; found {
			if cp, cpk, ok := Capability(d, limits, sigma); ok {
				cs.Cp, cs.Cpk = &cp, &cpk
			}
		}
		sum.Channels[ch] = cs
	}
}

func summarizePoints(run *model.TestRun, sigma float64, sum *model.Summary) {
	grouped := make(map[string][]model.PointMeasurement)
	for _, p := range run.Points {
		if p.Pass {
			sum.PassCount++
		} else {
			sum.FailCount++
		}
		grouped[p.Group] = append(grouped[p.Group], p)
	}

	sum.Groups = make(map[string]model.GroupStats, len(grouped))
	for group, points := range grouped {
		values := make([]float64, len(points))
		passed := 0
		for i, p := range points {
			values[i] = p.Value
			if p.Pass {
				passed++
			}
		}
		d := Describe(values)
		gs := model.GroupStats{
			ChannelStats: model.ChannelStats{
				Mean: d.Mean,
				Std:  d.Std,
				Min:  d.Min,
				Max:  d.Max,
			},
			PassRate: float64(passed) / float64(len(points)),
			Count:    len(points),
		}
		for i, ch := range run.Channels {
			if ch == group && i < len(run.Units) {
				gs.Unit = run.Units[i]
			}
		}
		gs.UCL, gs.LCL = d.Limits(sigma)
		if limits, found := run.Limits[group]; found {
			if cp, cpk, ok := Capability(d, limits, sigma); ok {
				gs.Cp, gs.Cpk = &cp, &cpk
			}
		}
		sum.Groups[group] = gs
	}
}
