package program

import (
	"math"

	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
	"github.com/gogpu/tilepaint/tile"
)

// TileUniformInputs carries the per-draw-call tile state consumed by
// setTileSpecificUniforms. Only pattern binders read it.
type TileUniformInputs struct {
	// Tile identifies the tile being drawn.
	Tile tile.ID

	// TileSize is the tile size in pixels.
	TileSize float64

	// Zoom is the current map zoom.
	Zoom float64

	// Crossfade describes the active pattern cross-fade.
	Crossfade tilepaint.CrossfadeParameters

	// TexWidth, TexHeight are the atlas texture dimensions.
	TexWidth, TexHeight int

	// Positions resolves pattern names to atlas rectangles.
	Positions atlas.PositionMap
}

// binder is the per-property binding strategy. The variant set is
// closed: constant, cross-faded constant, source expression,
// composite expression, and cross-faded composite. Every variant
// implements every operation; no-ops are valid implementations.
type binder interface {
	// populatePaintArray evaluates the property for feature and
	// appends encoded values until the paint array length reaches
	// newLength.
	populatePaintArray(newLength int, feature *tilepaint.Feature, positions atlas.PositionMap)

	// updatePaintArray re-evaluates with feature state and overwrites
	// [start, end) in place.
	updatePaintArray(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState, positions atlas.PositionMap)

	// upload realizes GPU buffers from the accumulated arrays.
	upload(ctx gpucore.Context) error

	// destroy releases any realized buffers, exactly once.
	destroy()

	// defines returns shader compile-time flags for uniform-bound
	// properties.
	defines() []string

	// setUniforms writes per-draw-call uniform values.
	setUniforms(u gpucore.UniformSetter, layer *tilepaint.Layer, globals tilepaint.EvaluationParams)

	// setTileSpecificUniforms writes uniforms that depend on tile
	// identity and cross-fade state.
	setTileSpecificUniforms(u gpucore.UniformSetter, in TileUniformInputs)

	// selectPatternBuffer resolves which buffer a cross-faded binder
	// exposes for the current draw call.
	selectPatternBuffer(crossfade tilepaint.CrossfadeParameters)

	// vertexBuffers returns the realized buffers this binder exposes
	// for the current draw call, nil for uniform-bound variants.
	vertexBuffers() []gpucore.BufferID

	// stateDependent reports whether feature-state updates can change
	// this binder's output.
	stateDependent() bool

	// refreshExpression re-reads the expression reference from the
	// live property value so updates pick up style changes.
	refreshExpression(v tilepaint.PropertyValue)

	// maxValue returns the maximum numeric value seen, -Inf when none.
	maxValue() float64

	// transferArrays returns the paint arrays that cross the
	// worker-to-render boundary; realized GPU buffers never do.
	transferArrays() []*PaintVertexArray

	// adoptState installs a transferred snapshot, replacing the local
	// paint arrays and running statistics.
	adoptState(snap BinderSnapshot)
}

// paintBuffer is a realized GPU vertex buffer exclusively owned by
// one binder.
type paintBuffer struct {
	ctx  gpucore.Context
	id   gpucore.BufferID
	size int
}

// syncPaintBuffer uploads the array into buf, creating or recreating
// the buffer as needed. An empty array produces no buffer.
func syncPaintBuffer(ctx gpucore.Context, buf *paintBuffer, arr *PaintVertexArray) (*paintBuffer, error) {
	data := arr.Bytes()
	if len(data) == 0 {
		return buf, nil
	}
	if buf != nil && len(data) <= buf.size {
		buf.ctx.WriteBuffer(buf.id, 0, data)
		return buf, nil
	}
	buf.destroy()
	id, err := ctx.CreateBuffer(len(data), gpucore.BufferUsageVertex|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	ctx.WriteBuffer(id, 0, data)
	return &paintBuffer{ctx: ctx, id: id, size: len(data)}, nil
}

// destroy releases the buffer. Safe on nil receivers and after a
// prior destroy.
func (b *paintBuffer) destroy() {
	if b == nil || b.id == gpucore.InvalidID {
		return
	}
	b.ctx.DestroyBuffer(b.id)
	b.id = gpucore.InvalidID
}

// bufferID returns the realized buffer id, InvalidID when absent.
func (b *paintBuffer) bufferID() gpucore.BufferID {
	if b == nil {
		return gpucore.InvalidID
	}
	return b.id
}

// setPatternUniforms writes the pattern uniforms shared by both
// cross-faded binder variants: the atlas texture size, the fade
// factor, the pattern scales, and the tile's pixel-space origin split
// into upper/lower 16-bit halves (the shader reassembles them; a
// single float32 cannot hold world pixel coordinates at high zoom
// without precision loss).
func setPatternUniforms(u gpucore.UniformSetter, in TileUniformInputs) {
	u.SetFloat2("u_texsize", float32(in.TexWidth), float32(in.TexHeight))
	u.SetFloat("u_fade", float32(in.Crossfade.T))
	u.SetFloat("u_scale_from", float32(in.Crossfade.FromScale))
	u.SetFloat("u_scale_to", float32(in.Crossfade.ToScale))

	px, py := in.Tile.PixelOrigin(in.TileSize)
	u.SetFloat2("u_pixel_coord_upper", float32(px>>16), float32(py>>16))
	u.SetFloat2("u_pixel_coord_lower", float32(px&0xFFFF), float32(py&0xFFFF))
}

// negInf is the initial statistics.max of every numeric binder.
var negInf = math.Inf(-1)
