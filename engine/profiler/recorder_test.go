package profiler

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one millisecond per reading.
func fakeClock(r *Recorder) {
	var now int64
	r.clock = func() int64 {
		now += 1_000_000
		return now
	}
}

func decode(t *testing.T, r *Recorder) ssFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.WriteSpeedscope(&buf, "test"))
	var doc ssFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestRecorderNestedScopes(t *testing.T) {
	r := NewRecorder(16)
	fakeClock(r)
	endFrame := r.Begin("frame")
	endDraw := r.Begin("draw")
	endDraw()
	endFrame()

	doc := decode(t, r)
	assert.Equal(t, []ssFrame{{Name: "frame"}, {Name: "draw"}}, doc.Shared.Frames)
	require.Len(t, doc.Profiles, 1)
	p := doc.Profiles[0]
	assert.Equal(t, []ssEvent{
		{Type: "O", At: 0, Frame: 0},
		{Type: "O", At: 1000, Frame: 1},
		{Type: "C", At: 2000, Frame: 1},
		{Type: "C", At: 3000, Frame: 0},
	}, p.Events)
	assert.Equal(t, int64(3000), p.EndValue)
	assert.Equal(t, "microseconds", p.Unit)
}

func TestRecorderClosesOpenScopes(t *testing.T) {
	r := NewRecorder(16)
	fakeClock(r)
	_ = r.Begin("frame")
	r.Begin("draw")()

	evs := decode(t, r).Profiles[0].Events
	require.Len(t, evs, 4)
	assert.Equal(t, ssEvent{Type: "C", At: 2000, Frame: 0}, evs[3])
}

func TestRecorderRingDropsOrphanCloses(t *testing.T) {
	r := NewRecorder(3)
	fakeClock(r)
	end := r.Begin("a")
	r.Begin("b")()
	end()
	// The ring holds close b, close a and open c; both closes lost their opens.
	_ = r.Begin("c")
	assert.Equal(t, 3, r.Len())

	evs := decode(t, r).Profiles[0].Events
	require.Len(t, evs, 2)
	assert.Equal(t, "O", evs[0].Type)
	assert.Equal(t, 2, evs[0].Frame)
	assert.Equal(t, "C", evs[1].Type)
}

func TestRecorderInternsNames(t *testing.T) {
	r := NewRecorder(0)
	r.Begin("x")()
	r.Begin("x")()
	assert.Equal(t, []string{"x"}, r.Names())
	assert.Equal(t, 4, r.Len())
}

func TestRecorderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, NewRecorder(4).WriteSpeedscope(&buf, "empty"), ErrNoEvents)
}
