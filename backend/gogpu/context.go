//go:build !nogpu

// Package gogpu implements the tilepaint graphics context on top of a
// gogpu application. The device and queue are injected through
// gogpu.DeviceProvider, the integration seam gogpu exposes for
// external libraries, so the paint binding machinery shares the GPU
// device the application renders with.
package gogpu

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/tilepaint/gpucore"
)

// Package errors for the gogpu context.
var (
	// ErrInvalidSize is returned when a buffer size is not positive.
	ErrInvalidSize = errors.New("gogpu: buffer size must be positive")

	// ErrNoDevice is returned when the provider carries no GPU device.
	ErrNoDevice = errors.New("gogpu: device provider has no device")
)

// Context implements gpucore.Context over a wgpu device and queue.
//
// Thread safety: Context is safe for concurrent use from multiple
// goroutines; all resource operations are protected by a mutex. The
// paint binding machinery nonetheless calls it from the render thread
// only.
type Context struct {
	mu     sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpucore IDs to wgpu buffers
	buffers map[gpucore.BufferID]*wgpu.Buffer
}

// NewContext creates a context over an already-acquired device and
// queue.
func NewContext(device *wgpu.Device, queue *wgpu.Queue) *Context {
	return &Context{
		device:  device,
		queue:   queue,
		buffers: make(map[gpucore.BufferID]*wgpu.Buffer),
	}
}

// NewContextFromProvider creates a context sharing the GPU device of
// a running gogpu application.
func NewContextFromProvider(provider gogpu.DeviceProvider) (*Context, error) {
	if provider == nil || provider.Device() == nil {
		return nil, ErrNoDevice
	}
	return NewContext(provider.Device(), provider.Queue()), nil
}

// newID generates a unique resource ID.
func (c *Context) newID() uint64 {
	return c.nextID.Add(1)
}

// CreateBuffer creates a GPU buffer.
func (c *Context) CreateBuffer(size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, ErrInvalidSize
	}

	buffer, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "tilepaint-paint",
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("gogpu: failed to create buffer: %w", err)
	}

	id := gpucore.BufferID(c.newID())

	c.mu.Lock()
	c.buffers[id] = buffer
	c.mu.Unlock()

	return id, nil
}

// WriteBuffer writes data to a buffer. Writes to unknown IDs are
// dropped.
func (c *Context) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	c.mu.RLock()
	buffer, ok := c.buffers[id]
	c.mu.RUnlock()

	if !ok || len(data) == 0 {
		return
	}
	if err := c.queue.WriteBuffer(buffer, offset, data); err != nil {
		log.Printf("gogpu: buffer write failed: %v", err)
	}
}

// DestroyBuffer releases a GPU buffer. Destroying an unknown ID is a
// no-op.
func (c *Context) DestroyBuffer(id gpucore.BufferID) {
	c.mu.Lock()
	buffer, ok := c.buffers[id]
	if ok {
		delete(c.buffers, id)
	}
	c.mu.Unlock()

	if ok {
		buffer.Release()
	}
}

// BufferCount returns the number of live buffers, for leak checks in
// tests and debug overlays.
func (c *Context) BufferCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// convertBufferUsage converts gpucore.BufferUsage to wgpu.BufferUsage.
func convertBufferUsage(usage gpucore.BufferUsage) wgpu.BufferUsage {
	var result wgpu.BufferUsage

	if usage&gpucore.BufferUsageCopySrc != 0 {
		result |= wgpu.BufferUsageCopySrc
	}
	if usage&gpucore.BufferUsageCopyDst != 0 {
		result |= wgpu.BufferUsageCopyDst
	}
	if usage&gpucore.BufferUsageVertex != 0 {
		result |= wgpu.BufferUsageVertex
	}
	if usage&gpucore.BufferUsageUniform != 0 {
		result |= wgpu.BufferUsageUniform
	}

	return result
}
