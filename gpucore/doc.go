// Package gpucore defines the narrow graphics-context surface the
// paint binding machinery draws against.
//
// GPU resources are referred to by opaque IDs ([BufferID],
// [TextureID]). A [Context] implementation owns the mapping between
// IDs and actual backend resources; see backend/gogpu for an
// implementation over the gogpu framework.
//
// # Threading
//
// Paint arrays are populated on a worker context, but Context and
// UniformSetter calls must run on the thread holding the active
// graphics context. Buffers are exclusively owned by their creator
// and destroyed at most once.
package gpucore
