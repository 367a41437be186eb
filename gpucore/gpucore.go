package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Context
// implementation maintains a mapping between IDs and actual backend
// resources. IDs are uint64 to accommodate various backend handle
// sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 0

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 1

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 2

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 3
)

// Context abstracts GPU buffer management.
//
// Resource lifecycle:
//   - Buffers are created via CreateBuffer.
//   - Buffers must be explicitly destroyed via DestroyBuffer.
//   - Destroying a buffer while in use is undefined behavior.
//   - IDs become invalid after destruction and must not be reused.
//
// All methods must be called on the thread holding the active
// graphics context.
type Context interface {
	// CreateBuffer creates a GPU buffer.
	//
	// Parameters:
	//   - size: buffer size in bytes
	//   - usage: buffer usage flags (bitmask of BufferUsage*)
	//
	// Returns the buffer ID or an error if allocation fails.
	CreateBuffer(size int, usage BufferUsage) (BufferID, error)

	// WriteBuffer writes data to a buffer.
	// The data is copied to the GPU immediately or staged for later
	// upload.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// DestroyBuffer releases a GPU buffer. Destroying InvalidID is a
	// no-op.
	DestroyBuffer(id BufferID)
}

// UniformSetter writes per-draw-call uniform values by name.
//
// Implementations typically stage the values into a uniform buffer
// bound to the active program; the name-to-offset mapping comes from
// the shader variant selected by the configuration cache key.
type UniformSetter interface {
	// SetFloat writes a scalar uniform.
	SetFloat(name string, v float32)

	// SetFloat2 writes a two-component uniform.
	SetFloat2(name string, x, y float32)

	// SetFloat4 writes a four-component uniform.
	SetFloat4(name string, x, y, z, w float32)
}
