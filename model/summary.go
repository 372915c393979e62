package model

import "time"

// ChannelStats holds descriptive statistics and SPC control limits for one
// measurement channel, computed from the run's own samples only.
type ChannelStats struct {
	Unit string  `json:"unit,omitempty"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	// Control limits: mean ± k·σ of this run
	UCL float64 `json:"ucl"`
	LCL float64 `json:"lcl"`
	// Process capability against the channel's spec limits, when bounded
	Cp  *float64 `json:"cp,omitempty"`
	Cpk *float64 `json:"cpk,omitempty"`
}

// GroupStats extends ChannelStats with a per-group pass rate. Used by ICT
// where measurements are grouped by test category (continuity, resistor, ...).
type GroupStats struct {
	ChannelStats
	PassRate float64 `json:"pass_rate"`
	Count    int     `json:"count"`
}

// Summary is the aggregate over one TestRun, serialized as the stats JSON
// artifact. Pass and fail counts always sum to SampleCount, and SampleCount
// always equals the number of rows in the raw CSV artifact.
type Summary struct {
	RunID       string        `json:"run_id"`
	Type        TestType      `json:"test_type"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	Sigma       float64       `json:"sigma"`
	SampleCount int           `json:"sample_count"`
	PassCount   int           `json:"pass_count"`
	FailCount   int           `json:"fail_count"`
	PassRate    float64       `json:"pass_rate"`
	// Order preserves the run's channel (or ICT group) ordering for display
	Order []string `json:"channel_order,omitempty"`
	// Per-channel statistics (time-series runs)
	Channels map[string]ChannelStats `json:"channel_stats,omitempty"`
	// Per-group statistics (ICT runs)
	Groups map[string]GroupStats `json:"group_stats,omitempty"`
}

// ArtifactType identifies the kind of report artifact on disk.
type ArtifactType uint8

const (
	ArtifactTypeRawCSV ArtifactType = iota
	ArtifactTypeStatsJSON
	ArtifactTypeTimeSeriesPNG
	ArtifactTypeSPCChartPNG
)

// String returns the short name used in listings.
func (t ArtifactType) String() string {
	switch t {
	case ArtifactTypeRawCSV:
		return "data"
	case ArtifactTypeStatsJSON:
		return "stats"
	case ArtifactTypeTimeSeriesPNG:
		return "timeseries"
	case ArtifactTypeSPCChartPNG:
		return "spc"
	}
	return "unknown"
}

// Artifact represents one file generated for a test run.
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to the test type directory
}
