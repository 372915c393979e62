package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTestType(t *testing.T) {
	for _, tt := range AllTestTypes() {
		parsed, err := ParseTestType(string(tt))
		require.NoError(t, err)
		assert.Equal(t, tt, parsed)
	}

	_, err := ParseTestType("bogus")
	assert.Error(t, err)
	_, err = ParseTestType("")
	assert.Error(t, err)
}

func TestSpecLimitsContains(t *testing.T) {
	tests := []struct {
		name   string
		limits SpecLimits
		value  float64
		want   bool
	}{
		{"upper only inside", UpperOnly(90), 25, true},
		{"upper only at bound", UpperOnly(90), 90, true},
		{"upper only above", UpperOnly(90), 90.1, false},
		{"lower only inside", LowerOnly(100), 150, true},
		{"lower only below", LowerOnly(100), 99, false},
		{"between inside", Between(3.0, 3.6), 3.3, true},
		{"between below", Between(3.0, 3.6), 2.9, false},
		{"between above", Between(3.0, 3.6), 3.7, false},
		{"unbounded", SpecLimits{}, 1e9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.limits.Contains(tt.value))
		})
	}
}

func TestChannelValues(t *testing.T) {
	run := &TestRun{
		Channels: []string{"voltage", "current"},
		Samples: []Sample{
			{Values: []float64{3.3, 0.5}},
			{Values: []float64{3.4, 0.6}},
		},
	}

	assert.Equal(t, []float64{3.3, 3.4}, run.ChannelValues("voltage"))
	assert.Equal(t, []float64{0.5, 0.6}, run.ChannelValues("current"))
	assert.Nil(t, run.ChannelValues("temperature"))
}

func TestSampleCount(t *testing.T) {
	series := &TestRun{Samples: make([]Sample, 5)}
	assert.Equal(t, 5, series.SampleCount())

	points := &TestRun{Points: make([]PointMeasurement, 3)}
	assert.Equal(t, 3, points.SampleCount())
}
