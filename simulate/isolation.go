package simulate

import (
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/daq"
	"github.com/instrsim/instrsim/model"
)

// Isolation simulates the isolation resistance station: analog readings
// scaled to MΩ and test voltage in V. A sample passes when the resistance
// exceeds the minimum.
type Isolation struct {
	cfg config.IsolationConfig
	rng *rand.Rand
}

func (s *Isolation) Type() model.TestType { return model.TestTypeIsolation }

func (s *Isolation) Run() (*model.TestRun, error) {
	duration := seconds(s.cfg.DurationSeconds)
	run := newRun(model.TestTypeIsolation, duration)
	run.Channels = []string{"resistance", "voltage"}
	run.Units = []string{"MΩ", "V"}
	run.Limits["resistance"] = model.LowerOnly(s.cfg.ResistanceMin)

	source := daq.NewAnalog(s.rng)
	resistances := source.Read(duration)
	voltages := source.Read(duration)
	times := sampleTimes(run.Start, len(resistances), duration)

	run.Samples = make([]model.Sample, len(resistances))
	for i := range resistances {
		resistance := resistances[i] * s.cfg.ResistanceScale
		voltage := voltages[i] * s.cfg.VoltageScale
		run.Samples[i] = model.Sample{
			Timestamp: times[i],
			Values:    []float64{resistance, voltage},
			Pass:      resistance > s.cfg.ResistanceMin,
		}
	}
	return run, nil
}
