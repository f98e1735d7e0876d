package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/hemic-racer/clock"
	"github.com/tsinghua-fib-lab/hemic-racer/utils/config"
)

func TestClockSubloop(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 2, Total: 3, Interval: 0.02, Subloop: 4})
	assert.InDelta(t, 0.005, c.DT, 1e-12)
	assert.InDelta(t, 0.02, c.ControlDT(), 1e-12)
	assert.Equal(t, int32(8), c.InternalStep)
	assert.Equal(t, int32(2), c.ExternalStep())
	assert.True(t, c.NoInSubloop())

	controls := 0
	for !c.Done() {
		if c.NoInSubloop() {
			controls++
		}
		c.Next()
	}
	assert.Equal(t, 3, controls)
	assert.Equal(t, int32(20), c.InternalStep)
	assert.InDelta(t, 0.1, c.T, 1e-12)

	c.Init()
	assert.Equal(t, int32(8), c.InternalStep)
}

func TestClockDefaults(t *testing.T) {
	c := clock.New(config.ControlStep{Total: 1, Interval: 0.5})
	assert.Equal(t, int32(1), c.SUBLOOP)
	assert.Equal(t, 0.5, c.DT)
	c.T = 125.25
	assert.Equal(t, "02:05.250", c.String())
}
