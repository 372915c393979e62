package simulate

import (
	"math/rand"

	"github.com/instrsim/instrsim/config"
	"github.com/instrsim/instrsim/daq"
	"github.com/instrsim/instrsim/model"
)

// Laser simulates the laser profile station, which reads from two
// network-attached instruments: an optical power meter and a wavelength
// analyzer. Readings are scaled into the mW and nm ranges; a sample passes
// when both power and wavelength sit inside their windows. Instrument
// connection refusals surface as errors and are not retried.
type Laser struct {
	cfg config.LaserConfig
	rng *rand.Rand
}

func (s *Laser) Type() model.TestType { return model.TestTypeLaser }

func (s *Laser) Run() (*model.TestRun, error) {
	duration := seconds(s.cfg.DurationSeconds)
	run := newRun(model.TestTypeLaser, duration)
	run.Channels = []string{"power", "wavelength"}
	run.Units = []string{"mW", "nm"}
	run.Limits["power"] = model.Between(s.cfg.PowerLow, s.cfg.PowerHigh)
	run.Limits["wavelength"] = model.Between(s.cfg.WavelengthLow, s.cfg.WavelengthHigh)

	powerMeter := daq.NewInstrument(s.rng, s.cfg.PowerMeterAddr)
	analyzer := daq.NewInstrument(s.rng, s.cfg.AnalyzerAddr)
	powerMeter.ConnectFailure = s.cfg.ConnectFailure
	analyzer.ConnectFailure = s.cfg.ConnectFailure
	powerMeter.PacketLoss = s.cfg.PacketLoss
	analyzer.PacketLoss = s.cfg.PacketLoss

	if err := powerMeter.Connect(); err != nil {
		return nil, err
	}
	defer powerMeter.Disconnect()
	if err := analyzer.Connect(); err != nil {
		return nil, err
	}
	defer analyzer.Disconnect()

	if err := powerMeter.Configure("CONF:POW:DC"); err != nil {
		return nil, err
	}
	if err := analyzer.Configure("CONF:WAV"); err != nil {
		return nil, err
	}

	powers, err := powerMeter.Read(duration)
	if err != nil {
		return nil, err
	}
	wavelengths, err := analyzer.Read(duration)
	if err != nil {
		return nil, err
	}

	// Packet loss may leave the two series uneven; align on the shorter.
	n := len(powers)
	if len(wavelengths) < n {
		n = len(wavelengths)
	}
	times := sampleTimes(run.Start, n, duration)

	run.Samples = make([]model.Sample, n)
	for i := 0; i < n; i++ {
		power := powers[i]*50 + 55
		wavelength := wavelengths[i]*25 + 825
		run.Samples[i] = model.Sample{
			Timestamp: times[i],
			Values:    []float64{power, wavelength},
			Pass: run.Limits["power"].Contains(power) &&
				run.Limits["wavelength"].Contains(wavelength),
		}
	}
	return run, nil
}
