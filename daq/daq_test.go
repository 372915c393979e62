package daq

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalogRead(t *testing.T) {
	a := NewAnalog(rand.New(rand.NewSource(1)))

	data := a.Read(2 * time.Second)
	assert.Len(t, data, 2*AnalogRate)

	// Sine ± noise ± drift stays well inside ±7
	for _, v := range data {
		assert.Less(t, v, 7.0)
		assert.Greater(t, v, -7.0)
	}
}

func TestAnalogReadZeroDuration(t *testing.T) {
	a := NewAnalog(rand.New(rand.NewSource(1)))
	assert.Nil(t, a.Read(0))
}

func TestAnalogReproducible(t *testing.T) {
	first := NewAnalog(rand.New(rand.NewSource(42))).Read(time.Second)
	second := NewAnalog(rand.New(rand.NewSource(42))).Read(time.Second)
	assert.Equal(t, first, second)
}

func TestDigitalRead(t *testing.T) {
	d := NewDigital(rand.New(rand.NewSource(1)))

	states := d.Read(time.Second)
	assert.Len(t, states, AnalogRate)
	for _, s := range states {
		assert.Contains(t, []int{0, 1}, s)
	}
}

func TestInstrumentLifecycle(t *testing.T) {
	in := NewInstrument(rand.New(rand.NewSource(1)), "localhost:5025")

	// No session yet
	_, err := in.Read(time.Second)
	assert.Error(t, err)
	assert.Error(t, in.Configure("CONF:POW:DC"))

	require.NoError(t, in.Connect())
	require.NoError(t, in.Configure("CONF:POW:DC"))

	in.PacketLoss = 0
	data, err := in.Read(time.Second)
	require.NoError(t, err)
	assert.Len(t, data, InstrumentRate)

	in.Disconnect()
	_, err = in.Read(time.Second)
	assert.Error(t, err)
}

func TestInstrumentConnectRefusal(t *testing.T) {
	in := NewInstrument(rand.New(rand.NewSource(1)), "localhost:5025")
	in.ConnectFailure = 1.0

	err := in.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "localhost:5025")
}

func TestInstrumentPacketLoss(t *testing.T) {
	in := NewInstrument(rand.New(rand.NewSource(1)), "localhost:5025")
	in.PacketLoss = 0.5
	require.NoError(t, in.Connect())

	data, err := in.Read(10 * time.Second)
	require.NoError(t, err)
	assert.Less(t, len(data), 10*InstrumentRate)
	assert.NotEmpty(t, data)
}
