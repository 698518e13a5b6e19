package profiler

import "runtime"

// MemoryUsage is the number of heap bytes currently allocated.
func MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func MemoryAllocs() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Mallocs
}

func NumGoroutine() int { return runtime.NumGoroutine() }
func NumCPU() int       { return runtime.NumCPU() }

// FrameTimer keeps a rolling window of frame times.
type FrameTimer struct {
	samples []float64
	next    int
	filled  int
	sum     float64
	last    float64
	frames  uint64
}

// NewFrameTimer averages over the last window frames (at least 1).
func NewFrameTimer(window int) *FrameTimer {
	if window < 1 {
		window = 1
	}
	return &FrameTimer{samples: make([]float64, window)}
}

// Add records one frame that took dt seconds.
func (t *FrameTimer) Add(dt float64) {
	t.sum -= t.samples[t.next]
	t.samples[t.next] = dt
	t.sum += dt
	t.next = (t.next + 1) % len(t.samples)
	if t.filled < len(t.samples) {
		t.filled++
	}
	t.last = dt
	t.frames++
}

func (t *FrameTimer) Last() float64  { return t.last }
func (t *FrameTimer) Frames() uint64 { return t.frames }

// Average is the mean frame time over the window, zero before any frame.
func (t *FrameTimer) Average() float64 {
	if t.filled == 0 {
		return 0
	}
	return t.sum / float64(t.filled)
}

// FPS is the reciprocal of Average.
func (t *FrameTimer) FPS() float64 {
	avg := t.Average()
	if avg <= 0 {
		return 0
	}
	return 1 / avg
}
