// Package cbuffer packs constant (uniform) buffer contents using the std140
// layout rules, which agree with HLSL constant-buffer packing for the types
// used here as long as a vec3 is followed by at most one scalar.
package cbuffer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RoundUp16 returns n rounded up to the next multiple of 16 bytes.
func RoundUp16(n int) int { return (n + 15) / 16 * 16 }

// Writer appends std140-aligned values to a byte slice.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with room for size bytes.
func NewWriter(size int) *Writer { return &Writer{buf: make([]byte, 0, size)} }

func (w *Writer) Reset() { w.buf = w.buf[:0] }

// Len is the number of bytes written so far, without trailing padding.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the packed data padded to a 16-byte multiple.
func (w *Writer) Bytes() []byte {
	w.Align(16)
	return w.buf
}

// Align pads with zeros up to the next multiple of n.
func (w *Writer) Align(n int) {
	if r := len(w.buf) % n; r != 0 {
		w.Pad(n - r)
	}
}

func (w *Writer) Pad(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) putF(f float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(f))
}

func (w *Writer) Float(f float32) *Writer {
	w.Align(4)
	w.putF(f)
	return w
}

func (w *Writer) Int(i int32) *Writer {
	w.Align(4)
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(i))
	return w
}

func (w *Writer) Bool(b bool) *Writer {
	if b {
		return w.Int(1)
	}
	return w.Int(0)
}

func (w *Writer) Vec2(v mgl32.Vec2) *Writer {
	w.Align(8)
	w.putF(v[0])
	w.putF(v[1])
	return w
}

// Vec3 occupies 12 bytes of a 16-byte register; a following scalar fills the rest.
func (w *Writer) Vec3(v mgl32.Vec3) *Writer {
	w.Align(16)
	w.putF(v[0])
	w.putF(v[1])
	w.putF(v[2])
	return w
}

func (w *Writer) Vec4(v mgl32.Vec4) *Writer {
	w.Align(16)
	for _, f := range v {
		w.putF(f)
	}
	return w
}

// Mat4 writes m column by column, matching GLSL's default column-major layout.
func (w *Writer) Mat4(m mgl32.Mat4) *Writer {
	w.Align(16)
	for _, f := range m {
		w.putF(f)
	}
	return w
}

// Float32At decodes the float stored at byte offset off. Used by tests and
// debug views.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// Int32At decodes the int stored at byte offset off.
func Int32At(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}
