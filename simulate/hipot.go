package simulate

import (
	"math"
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/daq"
	"github.com/instrsim/instrsim/model"
)

// HiPot simulates the dielectric withstand station: rectified analog
// readings scaled to test voltage (kV) and leakage current (mA). A sample
// passes when the leakage current stays below the limit.
type HiPot struct {
	cfg config.HiPotConfig
	rng *rand.Rand
}

func (s *HiPot) Type() model.TestType { return model.TestTypeHiPot }

func (s *HiPot) Run() (*model.TestRun, error) {
	duration := seconds(s.cfg.DurationSeconds)
	run := newRun(model.TestTypeHiPot, duration)
	run.Channels = []string{"voltage", "current"}
	run.Units = []string{"kV", "mA"}
	run.Limits["voltage"] = model.Between(s.cfg.VoltageLow, s.cfg.VoltageHigh)
	run.Limits["current"] = model.UpperOnly(s.cfg.LeakageLimit)

	source := daq.NewAnalog(s.rng)
	voltages := source.Read(duration)
	currents := source.Read(duration)
	times := sampleTimes(run.Start, len(voltages), duration)

	run.Samples = make([]model.Sample, len(voltages))
	for i := range voltages {
		voltage := math.Abs(voltages[i]) * s.cfg.VoltageScale
		current := math.Abs(currents[i]) * s.cfg.CurrentScale
		run.Samples[i] = model.Sample{
			Timestamp: times[i],
			Values:    []float64{voltage, current},
			Pass:      current < s.cfg.LeakageLimit,
		}
	}
	return run, nil
}
