package program

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// mockContext implements gpucore.Context with an in-memory byte
// store per buffer.
type mockContext struct {
	nextID    gpucore.BufferID
	buffers   map[gpucore.BufferID][]byte
	created   int
	destroyed int
	failNext  bool
}

func newMockContext() *mockContext {
	return &mockContext{buffers: make(map[gpucore.BufferID][]byte)}
}

func (c *mockContext) CreateBuffer(size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if c.failNext {
		c.failNext = false
		return gpucore.InvalidID, fmt.Errorf("mock: buffer creation failed")
	}
	c.nextID++
	c.created++
	c.buffers[c.nextID] = make([]byte, size)
	return c.nextID, nil
}

func (c *mockContext) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	buf, ok := c.buffers[id]
	if !ok {
		return
	}
	copy(buf[offset:], data)
}

func (c *mockContext) DestroyBuffer(id gpucore.BufferID) {
	if _, ok := c.buffers[id]; ok {
		c.destroyed++
		delete(c.buffers, id)
	}
}

// floats decodes a stored buffer back into float32 values.
func (c *mockContext) floats(id gpucore.BufferID) []float32 {
	data := c.buffers[id]
	out := make([]float32, len(data)/4)
	for i := range out {
		bits := uint32(data[4*i]) |
			uint32(data[4*i+1])<<8 |
			uint32(data[4*i+2])<<16 |
			uint32(data[4*i+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// recordingUniforms implements gpucore.UniformSetter and records
// every value written.
type recordingUniforms struct {
	values map[string][]float32
}

func newRecordingUniforms() *recordingUniforms {
	return &recordingUniforms{values: make(map[string][]float32)}
}

func (u *recordingUniforms) SetFloat(name string, v float32) {
	u.values[name] = []float32{v}
}

func (u *recordingUniforms) SetFloat2(name string, x, y float32) {
	u.values[name] = []float32{x, y}
}

func (u *recordingUniforms) SetFloat4(name string, x, y, z, w float32) {
	u.values[name] = []float32{x, y, z, w}
}

// propExpr evaluates a numeric feature property, preferring feature
// state when present.
type propExpr struct {
	key      string
	fallback float64
}

func (e propExpr) Kind() tilepaint.ValueKind { return tilepaint.KindNumber }
func (e propExpr) IsStateDependent() bool    { return true }

func (e propExpr) Evaluate(_ tilepaint.EvaluationParams, feature *tilepaint.Feature, state tilepaint.FeatureState) tilepaint.Value {
	if v, ok := state[e.key].(float64); ok {
		return tilepaint.NumberValue(v)
	}
	if feature != nil {
		if v, ok := feature.Properties[e.key].(float64); ok {
			return tilepaint.NumberValue(v)
		}
	}
	return tilepaint.NumberValue(e.fallback)
}

// zoomExpr evaluates to the zoom itself, f(z) = z.
type zoomExpr struct{}

func (zoomExpr) Kind() tilepaint.ValueKind { return tilepaint.KindNumber }
func (zoomExpr) IsStateDependent() bool    { return false }

func (zoomExpr) Evaluate(params tilepaint.EvaluationParams, _ *tilepaint.Feature, _ tilepaint.FeatureState) tilepaint.Value {
	return tilepaint.NumberValue(params.Zoom)
}

// colorExpr evaluates to a fixed color.
type colorExpr struct {
	c tilepaint.Color
}

func (e colorExpr) Kind() tilepaint.ValueKind { return tilepaint.KindColor }
func (e colorExpr) IsStateDependent() bool    { return false }

func (e colorExpr) Evaluate(tilepaint.EvaluationParams, *tilepaint.Feature, tilepaint.FeatureState) tilepaint.Value {
	return tilepaint.ColorValue(e.c)
}

// zoomPattern yields a pattern name per integer zoom, falling back to
// def for unmapped zooms.
type zoomPattern struct {
	names map[float64]string
	def   string
}

func (p zoomPattern) IsStateDependent() bool { return false }

func (p zoomPattern) Evaluate(params tilepaint.EvaluationParams, _ *tilepaint.Feature, _ tilepaint.FeatureState) string {
	if name, ok := p.names[params.Zoom]; ok {
		return name
	}
	return p.def
}

// sliceSource implements tilepaint.FeatureSource over a slice.
type sliceSource []*tilepaint.Feature

func (s sliceSource) FeatureByIndex(index int) *tilepaint.Feature {
	if index < 0 || index >= len(s) {
		return nil
	}
	return s[index]
}

// testPositions builds an atlas position map with one 8x8 content
// rectangle per name, laid out left to right.
func testPositions(names ...string) atlas.PositionMap {
	positions := make(atlas.PositionMap, len(names))
	x := 0
	for _, name := range names {
		positions[name] = atlas.ImagePosition{
			Rect:       image.Rect(x, 0, x+8+2*atlas.Padding, 8+2*atlas.Padding),
			PixelRatio: 1,
		}
		x += 8 + 2*atlas.Padding
	}
	return positions
}
