package core

// Input tracks keyboard and mouse state between frames.
//
// Pressed/released edges, the mouse delta and scroll accumulate from
// events twice over: once for the update steps and once for the rendered
// frame. The first update step of a frame consumes the update copy, so
// later steps in the same frame see no edges, and a frame with no due step
// carries them to the next one. EndFrame clears the frame copy.
type Input struct {
	keys     [keyCount]bool
	buttons  [mouseButtonCount]bool
	mouseX   float64
	mouseY   float64
	hasMouse bool

	tick, frame edges
	updating    bool

	// Set by the UI each frame it draws. They outlive EndFrame so the next
	// frame's updates see them.
	KeyboardCaptured bool
	MouseCaptured    bool
}

type edges struct {
	pressed [keyCount]bool
	btnDown [mouseButtonCount]bool
	btnUp   [mouseButtonCount]bool
	dx, dy  float64
	scrollY float64
}

// cur is the edge set queries read: the update copy inside a step, the
// frame copy otherwise.
func (in *Input) cur() *edges {
	if in.updating {
		return &in.tick
	}
	return &in.frame
}

func (in *Input) beginUpdate() { in.updating = true }

func (in *Input) endUpdate() {
	in.tick = edges{}
	in.updating = false
}

func NewInput() *Input { return &Input{} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Key <= KeyUnknown || e.Key >= keyCount {
			return
		}
		if e.Down && !in.keys[e.Key] {
			in.tick.pressed[e.Key] = true
			in.frame.pressed[e.Key] = true
		}
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		if in.hasMouse {
			dx, dy := e.X-in.mouseX, e.Y-in.mouseY
			in.tick.dx += dx
			in.tick.dy += dy
			in.frame.dx += dx
			in.frame.dy += dy
		}
		in.mouseX, in.mouseY = e.X, e.Y
		in.hasMouse = true
	case EventMouseButton:
		if e.Button < 0 || e.Button >= mouseButtonCount {
			return
		}
		if e.Down && !in.buttons[e.Button] {
			in.tick.btnDown[e.Button] = true
			in.frame.btnDown[e.Button] = true
		}
		if !e.Down && in.buttons[e.Button] {
			in.tick.btnUp[e.Button] = true
			in.frame.btnUp[e.Button] = true
		}
		in.buttons[e.Button] = e.Down
	case EventScroll:
		in.tick.scrollY += e.Yoff
		in.frame.scrollY += e.Yoff
	}
}

// EndFrame clears the frame's edges and deltas.
func (in *Input) EndFrame() { in.frame = edges{} }

func (in *Input) IsKeyDown(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return in.keys[k]
}

// IsKeyPressed reports a key that went down this frame.
func (in *Input) IsKeyPressed(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return in.cur().pressed[k]
}

func (in *Input) IsMouseDown(b MouseButton) bool     { return b >= 0 && b < mouseButtonCount && in.buttons[b] }
func (in *Input) IsMousePressed(b MouseButton) bool  { return b >= 0 && b < mouseButtonCount && in.cur().btnDown[b] }
func (in *Input) IsMouseReleased(b MouseButton) bool { return b >= 0 && b < mouseButtonCount && in.cur().btnUp[b] }
func (in *Input) Mouse() (float64, float64)          { return in.mouseX, in.mouseY }
func (in *Input) MouseDelta() (float64, float64)     { return in.cur().dx, in.cur().dy }
func (in *Input) Scroll() float64                    { return in.cur().scrollY }
