package program

import (
	"encoding/binary"
	"math"
)

// PaintVertexArray is a growable array of packed per-vertex paint
// values with a fixed number of float32 components per vertex.
//
// Population never rewinds: Resize only grows the array, and the
// vertex ranges recorded per feature stay valid for the lifetime of
// the tile.
type PaintVertexArray struct {
	components int
	data       []float32
}

// NewPaintVertexArray creates an empty array with the given number of
// components per vertex.
func NewPaintVertexArray(components int) *PaintVertexArray {
	if components <= 0 {
		panic("program: paint vertex array needs at least one component")
	}
	return &PaintVertexArray{components: components}
}

// Components returns the number of float32 components per vertex.
func (a *PaintVertexArray) Components() int {
	return a.components
}

// Len returns the current vertex count.
func (a *PaintVertexArray) Len() int {
	return len(a.data) / a.components
}

// Resize grows the array to n vertices, zero-filling new entries.
// Shrinking is not supported; a smaller n is a no-op.
func (a *PaintVertexArray) Resize(n int) {
	want := n * a.components
	if want <= len(a.data) {
		return
	}
	if want <= cap(a.data) {
		a.data = a.data[:want]
		return
	}
	grown := make([]float32, want, max(want, 2*cap(a.data)))
	copy(grown, a.data)
	a.data = grown
}

// Set overwrites the components of vertex i. The number of values
// must match the array's component count.
func (a *PaintVertexArray) Set(i int, values ...float32) {
	if len(values) != a.components {
		panic("program: component count mismatch")
	}
	copy(a.data[i*a.components:], values)
}

// Vertex returns the components of vertex i as a shared slice.
func (a *PaintVertexArray) Vertex(i int) []float32 {
	return a.data[i*a.components : (i+1)*a.components]
}

// Floats returns the backing float slice. The slice is shared; it is
// only valid until the next Resize.
func (a *PaintVertexArray) Floats() []float32 {
	return a.data
}

// Bytes encodes the array as little-endian float32 data ready for
// buffer upload.
func (a *PaintVertexArray) Bytes() []byte {
	out := make([]byte, 4*len(a.data))
	for i, v := range a.data {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

// Clone returns a deep copy, used for immutable worker-to-render
// handoff snapshots.
func (a *PaintVertexArray) Clone() *PaintVertexArray {
	data := make([]float32, len(a.data))
	copy(data, a.data)
	return &PaintVertexArray{components: a.components, data: data}
}
