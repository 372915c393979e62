package simulate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/model"
)

// testConfig trims the durations so a full run stays cheap and removes the
// laser station's simulated connection flakiness.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BurnIn.DurationSeconds = 0.1
	cfg.HiPot.DurationSeconds = 0.1
	cfg.Isolation.DurationSeconds = 0.1
	cfg.Laser.DurationSeconds = 1
	cfg.Laser.ConnectFailure = 0
	cfg.Laser.PacketLoss = 0
	cfg.Parametric.DurationSeconds = 0.1
	return cfg
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("bogus", testConfig(), rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestSimulators(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		testType model.TestType
		channels []string
		samples  int
	}{
		{model.TestTypeBurnIn, []string{"temperature", "voltage", "current", "status"}, 100},
		{model.TestTypeHiPot, []string{"voltage", "current"}, 100},
		{model.TestTypeIsolation, []string{"resistance", "voltage"}, 100},
		{model.TestTypeLaser, []string{"power", "wavelength"}, 10},
		{model.TestTypeParametric, []string{"voltage", "current"}, 100},
	}
	for _, tt := range tests {
		t.Run(string(tt.testType), func(t *testing.T) {
			sim, err := New(tt.testType, cfg, rand.New(rand.NewSource(7)))
			require.NoError(t, err)
			assert.Equal(t, tt.testType, sim.Type())

			run, err := sim.Run()
			require.NoError(t, err)

			assert.NotEmpty(t, run.ID)
			assert.Equal(t, tt.testType, run.Type)
			assert.Equal(t, tt.channels, run.Channels)
			assert.Len(t, run.Units, len(tt.channels))
			assert.Len(t, run.Samples, tt.samples)
			assert.Empty(t, run.Points)

			for _, s := range run.Samples {
				assert.Len(t, s.Values, len(tt.channels))
			}

			// Timestamps cover the run span in order
			for i := 1; i < len(run.Samples); i++ {
				assert.False(t, run.Samples[i].Timestamp.Before(run.Samples[i-1].Timestamp))
			}
		})
	}
}

func TestBurnInClassification(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeBurnIn, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	for _, s := range run.Samples {
		temp := s.Values[0]
		assert.Equal(t, temp <= cfg.BurnIn.TempLimit, s.Pass)
		// Digital status line is binary
		assert.Contains(t, []float64{0, 1}, s.Values[3])
	}
}

func TestHiPotClassification(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeHiPot, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	for _, s := range run.Samples {
		voltage, current := s.Values[0], s.Values[1]
		// Rectified readings never go negative
		assert.GreaterOrEqual(t, voltage, 0.0)
		assert.GreaterOrEqual(t, current, 0.0)
		assert.Equal(t, current < cfg.HiPot.LeakageLimit, s.Pass)
	}
}

func TestIsolationClassification(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeIsolation, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	for _, s := range run.Samples {
		assert.Equal(t, s.Values[0] > cfg.Isolation.ResistanceMin, s.Pass)
	}
}

func TestLaserClassification(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeLaser, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	for _, s := range run.Samples {
		want := run.Limits["power"].Contains(s.Values[0]) &&
			run.Limits["wavelength"].Contains(s.Values[1])
		assert.Equal(t, want, s.Pass)
	}
}

func TestLaserConnectRefusal(t *testing.T) {
	cfg := testConfig()
	cfg.Laser.ConnectFailure = 1.0

	sim, err := New(model.TestTypeLaser, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	_, err = sim.Run()
	assert.Error(t, err)
}

func TestParametricClassification(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeParametric, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	for _, s := range run.Samples {
		want := run.Limits["voltage"].Contains(s.Values[0]) &&
			run.Limits["current"].Contains(s.Values[1])
		assert.Equal(t, want, s.Pass)
	}
}

func TestICT(t *testing.T) {
	cfg := testConfig()
	sim, err := New(model.TestTypeICT, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	run, err := sim.Run()
	require.NoError(t, err)

	wantPoints := len(cfg.ICT.ContinuityPoints) + len(cfg.ICT.ResistorPoints) +
		len(cfg.ICT.CapacitorPoints) + len(cfg.ICT.PowerPoints)
	assert.Len(t, run.Points, wantPoints)
	assert.Empty(t, run.Samples)

	for i, p := range run.Points {
		assert.Equal(t, i+1, p.Sequence)
	}

	groups := make(map[string]int)
	for _, p := range run.Points {
		groups[p.Group]++
	}
	assert.Equal(t, len(cfg.ICT.ContinuityPoints), groups["continuity"])
	assert.Equal(t, len(cfg.ICT.ResistorPoints), groups["resistor"])
	assert.Equal(t, len(cfg.ICT.CapacitorPoints), groups["capacitor"])
	assert.Equal(t, len(cfg.ICT.PowerPoints), groups["power"])

	for _, p := range run.Points {
		if p.Group == "continuity" {
			assert.Equal(t, p.Value < cfg.ICT.ContinuityLimit, p.Pass, p.Point)
		}
	}
}

func TestRunsReproducibleFromSeed(t *testing.T) {
	cfg := testConfig()
	for _, tt := range model.AllTestTypes() {
		t.Run(string(tt), func(t *testing.T) {
			simA, err := New(tt, cfg, rand.New(rand.NewSource(123)))
			require.NoError(t, err)
			runA, err := simA.Run()
			require.NoError(t, err)

			simB, err := New(tt, cfg, rand.New(rand.NewSource(123)))
			require.NoError(t, err)
			runB, err := simB.Run()
			require.NoError(t, err)

			require.Equal(t, len(runA.Samples), len(runB.Samples))
			for i := range runA.Samples {
				assert.Equal(t, runA.Samples[i].Values, runB.Samples[i].Values)
				assert.Equal(t, runA.Samples[i].Pass, runB.Samples[i].Pass)
			}
			require.Equal(t, len(runA.Points), len(runB.Points))
			for i := range runA.Points {
				assert.Equal(t, runA.Points[i].Value, runB.Points[i].Value)
			}
		})
	}
}
