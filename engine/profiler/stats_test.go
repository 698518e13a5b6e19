package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimer(t *testing.T) {
	ft := NewFrameTimer(4)
	assert.Zero(t, ft.FPS())
	assert.Zero(t, ft.Average())

	ft.Add(0.5)
	ft.Add(0.25)
	assert.InDelta(t, 0.375, ft.Average(), 1e-12)
	assert.Equal(t, 0.25, ft.Last())

	for i := 0; i < 4; i++ {
		ft.Add(0.01)
	}
	assert.InDelta(t, 0.01, ft.Average(), 1e-12)
	assert.InDelta(t, 100, ft.FPS(), 1e-6)
	assert.Equal(t, uint64(6), ft.Frames())
}

func TestFrameTimerMinimumWindow(t *testing.T) {
	ft := NewFrameTimer(0)
	ft.Add(0.1)
	ft.Add(0.2)
	assert.InDelta(t, 0.2, ft.Average(), 1e-12)
}

func TestRuntimeStats(t *testing.T) {
	assert.NotZero(t, MemoryUsage())
	assert.NotZero(t, MemoryAllocs())
	assert.GreaterOrEqual(t, NumGoroutine(), 1)
	assert.GreaterOrEqual(t, NumCPU(), 1)
}

func TestScopesAreCallable(t *testing.T) {
	Init(16)
	end := Start("frame")
	end()
	if !Enabled() {
		path, err := Dump(t.TempDir())
		assert.NoError(t, err)
		assert.Empty(t, path)
	}
}
