package profiler

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("profiler: no events recorded")

// speedscope "evented" file format.
type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // O or C
	At    int64  `json:"at"`   // microseconds since the first event
	Frame int    `json:"frame"`
}

// WriteSpeedscope encodes the held events as a speedscope document.
// Closes without a matching open (their open fell out of the ring) are
// dropped and scopes still open are closed at the last timestamp.
func (r *Recorder) WriteSpeedscope(w io.Writer, title string) error {
	doc, err := speedscope(r.events(), r.Names(), title)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

func speedscope(evs []event, names []string, title string) (ssFile, error) {
	if len(evs) == 0 {
		return ssFile{}, ErrNoEvents
	}
	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	var stack []int
	last := int64(0)

	for _, e := range evs {
		// Events from other goroutines can interleave slightly out of order.
		at := max((e.at-base)/1000, last)
		if e.open {
			stack = append(stack, e.name)
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.name})
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.name {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.name})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ssFile{}, ErrNoEvents
	}

	frames := make([]ssFrame, len(names))
	for i, n := range names {
		frames[i] = ssFrame{Name: n}
	}
	return ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     title,
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "grove3d-profiler",
		Name:     title,
	}, nil
}
