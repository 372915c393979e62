package simulate

import (
	"math"
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/model"
)

// ICT simulates the in-circuit test station. Unlike the time-series
// stations it probes a fixed set of board test points: continuity,
// resistors, capacitors and the power rails. Each point is measured once
// per run and judged against its own limit or tolerance.
type ICT struct {
	cfg config.ICTConfig
	rng *rand.Rand
}

func (s *ICT) Type() model.TestType { return model.TestTypeICT }

func (s *ICT) Run() (*model.TestRun, error) {
	run := newRun(model.TestTypeICT, 0)
	run.Channels = []string{"continuity", "resistor", "capacitor", "power"}
	run.Units = []string{"Ω", "Ω", "µF", "V"}
	run.Limits["continuity"] = model.UpperOnly(s.cfg.ContinuityLimit)
	run.Limits["resistor"] = tolerance(s.cfg.ResistorNominal, s.cfg.ResistorTol)
	run.Limits["capacitor"] = tolerance(s.cfg.CapacitorNominal, s.cfg.CapacitorTol)
	run.Limits["power"] = tolerance(s.cfg.PowerNominal, s.cfg.PowerTol)

	for _, point := range s.cfg.ContinuityPoints {
		// Probe contact resistance, nominally half the limit.
		r := s.cfg.ContinuityLimit/2 + s.rng.NormFloat64()*s.cfg.ContinuityLimit/10
		s.record(run, "continuity", point, r, r < s.cfg.ContinuityLimit)
	}
	for _, point := range s.cfg.ResistorPoints {
		v := s.cfg.ResistorNominal + s.rng.NormFloat64()*s.cfg.ResistorNominal*0.05
		s.record(run, "resistor", point, v, withinTol(v, s.cfg.ResistorNominal, s.cfg.ResistorTol))
	}
	for _, point := range s.cfg.CapacitorPoints {
		v := s.cfg.CapacitorNominal + s.rng.NormFloat64()*s.cfg.CapacitorNominal*0.05
		s.record(run, "capacitor", point, v, withinTol(v, s.cfg.CapacitorNominal, s.cfg.CapacitorTol))
	}
	for _, point := range s.cfg.PowerPoints {
		v := s.cfg.PowerNominal + s.rng.NormFloat64()*s.cfg.PowerNominal*0.01
		s.record(run, "power", point, v, withinTol(v, s.cfg.PowerNominal, s.cfg.PowerTol))
	}
	return run, nil
}

func (s *ICT) record(run *model.TestRun, group, point string, value float64, pass bool) {
	run.Points = append(run.Points, model.PointMeasurement{
		Sequence: len(run.Points) + 1,
		Group:    group,
		Point:    point,
		Value:    value,
		Pass:     pass,
	})
}

func withinTol(value, nominal, tol float64) bool {
	return math.Abs(value-nominal)/nominal <= tol
}

func tolerance(nominal, tol float64) model.SpecLimits {
	return model.Between(nominal*(1-tol), nominal*(1+tol))
}
