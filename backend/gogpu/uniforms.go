//go:build !nogpu

package gogpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/tilepaint/gpucore"
)

// UniformBlock implements gpucore.UniformSetter by staging named
// float values into a CPU-side block and flushing the block into a
// GPU uniform buffer in one write.
//
// The name-to-offset layout comes from shader reflection or a
// hand-maintained table; it must match the uniform block declared by
// the shader variant in use. Unknown names are dropped, matching the
// best-effort contract of uniform setting.
type UniformBlock struct {
	ctx     *Context
	buffer  gpucore.BufferID
	offsets map[string]int // name -> float32 offset within the block
	data    []float32
	dirty   bool
}

// NewUniformBlock creates a block with the given layout. floatCount
// is the total number of float32 slots in the block; every offset in
// layout must address slots inside it.
func (c *Context) NewUniformBlock(layout map[string]int, floatCount int) (*UniformBlock, error) {
	for name, off := range layout {
		if off < 0 || off >= floatCount {
			return nil, fmt.Errorf("gogpu: uniform %q offset %d outside block of %d floats", name, off, floatCount)
		}
	}
	buf, err := c.CreateBuffer(4*floatCount, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &UniformBlock{
		ctx:     c,
		buffer:  buf,
		offsets: layout,
		data:    make([]float32, floatCount),
	}, nil
}

// SetFloat writes a scalar uniform.
func (b *UniformBlock) SetFloat(name string, v float32) {
	b.set(name, v)
}

// SetFloat2 writes a two-component uniform.
func (b *UniformBlock) SetFloat2(name string, x, y float32) {
	b.set(name, x, y)
}

// SetFloat4 writes a four-component uniform.
func (b *UniformBlock) SetFloat4(name string, x, y, z, w float32) {
	b.set(name, x, y, z, w)
}

func (b *UniformBlock) set(name string, values ...float32) {
	off, ok := b.offsets[name]
	if !ok || off+len(values) > len(b.data) {
		return
	}
	copy(b.data[off:], values)
	b.dirty = true
}

// Flush uploads the staged block to the GPU uniform buffer. Clean
// blocks return immediately.
func (b *UniformBlock) Flush() {
	if !b.dirty {
		return
	}
	raw := make([]byte, 4*len(b.data))
	for i, v := range b.data {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(v))
	}
	b.ctx.WriteBuffer(b.buffer, 0, raw)
	b.dirty = false
}

// Buffer returns the GPU uniform buffer backing the block.
func (b *UniformBlock) Buffer() gpucore.BufferID {
	return b.buffer
}

// Destroy releases the GPU uniform buffer.
func (b *UniformBlock) Destroy() {
	b.ctx.DestroyBuffer(b.buffer)
	b.buffer = gpucore.InvalidID
}
