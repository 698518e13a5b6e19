package profiler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Recorder keeps the most recent scope open and close events in a fixed
// ring. Begin may be called from several goroutines.
type Recorder struct {
	clock func() int64 // nanoseconds

	cap   uint64
	write atomic.Uint64
	evs   []event

	mu    sync.Mutex
	names []string
	ids   map[string]int
}

type event struct {
	at   int64
	name int
	open bool
}

// NewRecorder keeps the last capacity events; zero picks 1<<20.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	return &Recorder{
		clock: func() int64 { return time.Now().UnixNano() },
		cap:   uint64(capacity),
		evs:   make([]event, capacity),
		ids:   make(map[string]int),
	}
}

// Begin opens a scope and returns the func that closes it.
func (r *Recorder) Begin(name string) func() {
	id := r.intern(name)
	start := r.clock()
	r.push(event{at: start, name: id, open: true})
	return func() {
		r.push(event{at: max(r.clock(), start), name: id})
	}
}

// Len is the number of events currently held.
func (r *Recorder) Len() int { return int(min(r.write.Load(), r.cap)) }

func (r *Recorder) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// events copies the held events oldest first.
func (r *Recorder) events() []event {
	n := r.write.Load()
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

func (r *Recorder) intern(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := len(r.names)
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// Names returns the scope names indexed by id.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}
