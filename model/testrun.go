package model

import (
	"fmt"
	"time"
)

// TestType identifies one of the simulated test stations.
type TestType string

const (
	TestTypeBurnIn     TestType = "burnin"
	TestTypeHiPot      TestType = "hipot"
	TestTypeIsolation  TestType = "isolation"
	TestTypeLaser      TestType = "laser"
	TestTypeParametric TestType = "parametric"
	TestTypeICT        TestType = "ict"
)

// AllTestTypes returns every test type in the order the run-all command
// executes them.
func AllTestTypes() []TestType {
	return []TestType{
		TestTypeBurnIn,
		TestTypeHiPot,
		TestTypeIsolation,
		TestTypeLaser,
		TestTypeParametric,
		TestTypeICT,
	}
}

// ParseTestType converts a command-line argument into a TestType.
func ParseTestType(s string) (TestType, error) {
	for _, t := range AllTestTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown test type %q (expected one of burnin, hipot, isolation, laser, parametric, ict)", s)
}

// Sample is one simulated measurement: a timestamp, the measured value per
// channel (aligned with TestRun.Channels) and the pass/fail classification
// against the run's spec limits. Samples are never mutated once generated.
type Sample struct {
	Timestamp time.Time
	Values    []float64
	Pass      bool
}

// PointMeasurement is a single ICT probe measurement. ICT runs measure a
// fixed set of board test points instead of a uniform time series.
type PointMeasurement struct {
	Sequence int
	Group    string
	Point    string
	Value    float64
	Pass     bool
}

// SpecLimits bounds a channel's acceptable values. One-sided limits leave
// the unused bound unset.
type SpecLimits struct {
	Lower        float64
	Upper        float64
	LowerBounded bool
	UpperBounded bool
}

// UpperOnly returns spec limits with only an upper bound.
func UpperOnly(upper float64) SpecLimits {
	return SpecLimits{Upper: upper, UpperBounded: true}
}

// LowerOnly returns spec limits with only a lower bound.
func LowerOnly(lower float64) SpecLimits {
	return SpecLimits{Lower: lower, LowerBounded: true}
}

// Between returns two-sided spec limits.
func Between(lower, upper float64) SpecLimits {
	return SpecLimits{Lower: lower, Upper: upper, LowerBounded: true, UpperBounded: true}
}

// Contains reports whether v lies inside the bounded range.
func (l SpecLimits) Contains(v float64) bool {
	if l.LowerBounded && v < l.Lower {
		return false
	}
	if l.UpperBounded && v > l.Upper {
		return false
	}
	return true
}

// TestRun is one execution of a simulator: an ordered sequence of samples
// (or point measurements for ICT) plus run-level metadata.
type TestRun struct {
	// Unique ID for this run
	ID string
	// Test type that produced the run
	Type TestType
	// Timestamp when the run started
	Start time.Time
	// Wall-clock span covered by the generated samples
	Duration time.Duration
	// Channel names, in CSV column order
	Channels []string
	// Units per channel, aligned with Channels
	Units []string
	// Spec limits per channel used for classification and capability
	Limits map[string]SpecLimits
	// Time-series samples (empty for ICT)
	Samples []Sample
	// Point measurements (ICT only)
	Points []PointMeasurement
}

// SampleCount returns the number of measurements in the run regardless of
// whether it is a time series or a point-measurement run.
func (r *TestRun) SampleCount() int {
	if len(r.Points) > 0 {
		return len(r.Points)
	}
	return len(r.Samples)
}

// ChannelValues extracts one channel's values as a flat slice.
func (r *TestRun) ChannelValues(channel string) []float64 {
	idx := -1
	for i, c := range r.Channels {
		if c == channel {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Values[idx]
	}
	return out
}
