package simulate

import (
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/daq"
	"github.com/instrsim/instrsim/model"
)

// BurnIn simulates the burn-in station: temperature from an analog channel,
// supply voltage and load current drawn from their rated distributions, and
// a digital status line. A sample fails when the temperature exceeds the
// station limit.
type BurnIn struct {
	cfg config.BurnInConfig
	rng *rand.Rand
}

func (s *BurnIn) Type() model.TestType { return model.TestTypeBurnIn }

func (s *BurnIn) Run() (*model.TestRun, error) {
	duration := seconds(s.cfg.DurationSeconds)
	run := newRun(model.TestTypeBurnIn, duration)
	run.Channels = []string{"temperature", "voltage", "current", "status"}
	run.Units = []string{"°C", "V", "A", ""}
	run.Limits["temperature"] = model.UpperOnly(s.cfg.TempLimit)
	run.Limits["voltage"] = model.Between(s.cfg.VoltageLow, s.cfg.VoltageHigh)
	run.Limits["current"] = model.Between(s.cfg.CurrentLow, s.cfg.CurrentHigh)

	temps := daq.NewAnalog(s.rng).Read(duration)
	status := daq.NewDigital(s.rng).Read(duration)
	times := sampleTimes(run.Start, len(temps), duration)

	run.Samples = make([]model.Sample, len(temps))
	for i, temp := range temps {
		voltage := s.cfg.VoltageMean + s.rng.NormFloat64()*s.cfg.VoltageStd
		current := s.cfg.CurrentMean + s.rng.NormFloat64()*s.cfg.CurrentStd
		run.Samples[i] = model.Sample{
			Timestamp: times[i],
			Values:    []float64{temp, voltage, current, float64(status[i])},
			Pass:      temp <= s.cfg.TempLimit,
		}
	}
	return run, nil
}
