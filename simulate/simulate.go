// Package simulate contains the per-test-type data generators. Each
// simulator builds a model.TestRun from the daq sources, classifying every
// sample against its station's thresholds. Simulators are single-threaded
// and independent; a run touches no shared state.
package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/model"
)

// Simulator generates one test type's synthetic TestRun.
type Simulator interface {
	Type() model.TestType
	Run() (*model.TestRun, error)
}

// New returns the simulator for the given test type.
func New(t model.TestType, cfg *config.Config, rng *rand.Rand) (Simulator, error) {
	switch t {
	case model.TestTypeBurnIn:
		return &BurnIn{cfg: cfg.BurnIn, rng: rng}, nil
	case model.TestTypeHiPot:
		return &HiPot{cfg: cfg.HiPot, rng: rng}, nil
	case model.TestTypeIsolation:
		return &Isolation{cfg: cfg.Isolation, rng: rng}, nil
	case model.TestTypeLaser:
		return &Laser{cfg: cfg.Laser, rng: rng}, nil
	case model.TestTypeParametric:
		return &Parametric{cfg: cfg.Parametric, rng: rng}, nil
	case model.TestTypeICT:
		return &ICT{cfg: cfg.ICT, rng: rng}, nil
	}
	return nil, fmt.Errorf("no simulator for test type %q", t)
}

// newRun initializes the run skeleton shared by all simulators.
func newRun(t model.TestType, duration time.Duration) *model.TestRun {
	return &model.TestRun{
		ID:       uuid.New().String(),
		Type:     t,
		Start:    time.Now(),
		Duration: duration,
		Limits:   make(map[string]model.SpecLimits),
	}
}

// sampleTimes spreads n timestamps evenly across the run duration.
func sampleTimes(start time.Time, n int, duration time.Duration) []time.Time {
	out := make([]time.Time, n)
	if n == 0 {
		return out
	}
	step := duration / time.Duration(n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
