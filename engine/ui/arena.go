package ui

import (
	"fmt"
	"strconv"
	"unsafe"
)

// arena holds the text formatted while building one frame. The strings it
// returns alias the buffer and are valid until the next reset, which is
// why Renderer.DrawText must not keep the string it is given.
type arena struct {
	buf []byte
}

func newArena(capacity int) arena {
	if capacity <= 0 {
		capacity = 1024
	}
	return arena{buf: make([]byte, 0, capacity)}
}

func (a *arena) reset() { a.buf = a.buf[:0] }

// view returns the bytes written since mark without copying. Growing the
// buffer later leaves the old backing array to the views still using it.
func (a *arena) view(mark int) string {
	b := a.buf[mark:]
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

func (a *arena) sprintf(format string, args ...any) string {
	mark := len(a.buf)
	a.buf = fmt.Appendf(a.buf, format, args...)
	return a.view(mark)
}

// float formats v with prec decimals after prefix.
func (a *arena) float(prefix string, v float32, prec int) string {
	mark := len(a.buf)
	a.buf = append(a.buf, prefix...)
	a.buf = strconv.AppendFloat(a.buf, float64(v), 'f', prec, 32)
	return a.view(mark)
}
