// Package daq simulates the data acquisition sources the test stations read
// from: analog input channels, digital I/O lines and network-attached
// instruments. All sources draw from an injected rand.Rand so a run is
// reproducible from its seed.
package daq

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	// AnalogRate is the analog sampling rate in Hz.
	AnalogRate = 1000
	// InstrumentRate is the typical sampling rate of network instruments in Hz.
	InstrumentRate = 10
)

// Analog simulates an analog input channel: one sine period scaled to the
// configured amplitude, gaussian noise, and a linear drift over the read.
type Analog struct {
	Rate      int     // samples per second
	Amplitude float64 // base sine amplitude
	Noise     float64 // gaussian noise sigma
	Drift     float64 // total linear drift across the read

	rng *rand.Rand
}

// NewAnalog returns an analog source with the station defaults (1 kHz,
// 5 V amplitude, 0.1 V noise, 0.5 V drift).
func NewAnalog(rng *rand.Rand) *Analog {
	return &Analog{
		Rate:      AnalogRate,
		Amplitude: 5.0,
		Noise:     0.1,
		Drift:     0.5,
		rng:       rng,
	}
}

// Read acquires duration worth of samples.
func (a *Analog) Read(duration time.Duration) []float64 {
	n := int(duration.Seconds() * float64(a.Rate))
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	span := float64(n - 1)
	if span == 0 {
		span = 1
	}
	for i := range out {
		t := 2 * math.Pi * float64(i) / span
		out[i] = math.Sin(t)*a.Amplitude +
			a.rng.NormFloat64()*a.Noise +
			a.Drift*float64(i)/span
	}
	return out
}

// Digital simulates a digital I/O line with random state changes. A state
// change is held for the following few samples, approximating contact
// bounce settling.
type Digital struct {
	Rate int

	rng *rand.Rand
}

// NewDigital returns a digital source at the analog sampling rate.
func NewDigital(rng *rand.Rand) *Digital {
	return &Digital{Rate: AnalogRate, rng: rng}
}

// Read acquires duration worth of line states.
func (d *Digital) Read(duration time.Duration) []int {
	n := int(duration.Seconds() * float64(d.Rate))
	if n <= 0 {
		return nil
	}
	states := make([]int, n)
	for i := range states {
		states[i] = d.rng.Intn(2)
	}
	// Debounce: hold each transition for the next 4 samples.
	for i := 1; i < len(states); i++ {
		if states[i] != states[i-1] {
			for j := 1; j <= 4 && i+j < len(states); j++ {
				states[i+j] = states[i]
			}
		}
	}
	return states
}

// Instrument simulates a network-attached measurement instrument (SCPI
// style): connect, configure, read at a low sampling rate with occasional
// packet loss. Lost samples are dropped from the returned series.
type Instrument struct {
	Addr           string
	Rate           int
	PacketLoss     float64 // probability a reading is lost
	ConnectFailure float64 // probability Connect refuses

	rng       *rand.Rand
	connected bool
}

// NewInstrument returns an instrument source with typical network
// characteristics (10 Hz, 1% packet loss).
func NewInstrument(rng *rand.Rand, addr string) *Instrument {
	return &Instrument{
		Addr:       addr,
		Rate:       InstrumentRate,
		PacketLoss: 0.01,
		rng:        rng,
	}
}

// Connect simulates establishing the instrument session. Connection
// refusals are not retried.
func (in *Instrument) Connect() error {
	if in.ConnectFailure > 0 && in.rng.Float64() < in.ConnectFailure {
		return fmt.Errorf("instrument %s refused connection", in.Addr)
	}
	in.connected = true
	return nil
}

// Disconnect tears down the session.
func (in *Instrument) Disconnect() {
	in.connected = false
}

// Configure accepts a SCPI-style command. The simulated instrument ignores
// the command body but still requires a live session.
func (in *Instrument) Configure(command string) error {
	if !in.connected {
		return fmt.Errorf("instrument %s: not connected", in.Addr)
	}
	_ = command
	return nil
}

// Read acquires duration worth of normalized readings, dropping lost
// packets.
func (in *Instrument) Read(duration time.Duration) ([]float64, error) {
	if !in.connected {
		return nil, fmt.Errorf("instrument %s: not connected", in.Addr)
	}
	n := int(duration.Seconds() * float64(in.Rate))
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := in.rng.NormFloat64()
		if in.PacketLoss > 0 && in.rng.Float64() < in.PacketLoss {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
