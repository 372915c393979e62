package simulate

import (
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/daq"
	"github.com/instrsim/instrsim/model"
)

// Parametric simulates the parametric station: analog readings scaled to
// mV and mA. A sample passes when both voltage and current sit inside
// their windows.
type Parametric struct {
	cfg config.ParametricConfig
	rng *rand.Rand
}

func (s *Parametric) Type() model.TestType { return model.TestTypeParametric }

func (s *Parametric) Run() (*model.TestRun, error) {
	duration := seconds(s.cfg.DurationSeconds)
	run := newRun(model.TestTypeParametric, duration)
	run.Channels = []string{"voltage", "current"}
	run.Units = []string{"mV", "mA"}
	run.Limits["voltage"] = model.Between(s.cfg.VoltageLow, s.cfg.VoltageHigh)
	run.Limits["current"] = model.Between(s.cfg.CurrentLow, s.cfg.CurrentHigh)

	source := daq.NewAnalog(s.rng)
	voltages := source.Read(duration)
	currents := source.Read(duration)
	times := sampleTimes(run.Start, len(voltages), duration)

	run.Samples = make([]model.Sample, len(voltages))
	for i := range voltages {
		voltage := voltages[i] * s.cfg.VoltageScale
		current := currents[i] * s.cfg.CurrentScale
		run.Samples[i] = model.Sample{
			Timestamp: times[i],
			Values:    []float64{voltage, current},
			Pass: run.Limits["voltage"].Contains(voltage) &&
				run.Limits["current"].Contains(current),
		}
	}
	return run, nil
}
