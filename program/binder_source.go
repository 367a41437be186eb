package program

import (
	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// sourceExpressionBinder binds a per-feature, zoom-independent
// property as a vertex attribute. Each feature is evaluated once at
// zoom 0; colors pack as two floats, scalars as one.
type sourceExpressionBinder struct {
	property   string
	name       string
	expression tilepaint.Expression
	kind       tilepaint.ValueKind
	array      *PaintVertexArray
	max        float64
	buf        *paintBuffer
}

func newSourceExpressionBinder(property, attrName string, e tilepaint.Expression) *sourceExpressionBinder {
	kind := e.Kind()
	return &sourceExpressionBinder{
		property:   property,
		name:       attrName,
		expression: e,
		kind:       kind,
		array:      NewPaintVertexArray(PackedComponents(kind, tilepaint.BindSource, false)),
		max:        negInf,
	}
}

func (b *sourceExpressionBinder) populatePaintArray(newLength int, feature *tilepaint.Feature, _ atlas.PositionMap) {
	start := b.array.Len()
	b.array.Resize(newLength)
	b.setValues(start, newLength, feature, nil)
}

func (b *sourceExpressionBinder) updatePaintArray(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState, _ atlas.PositionMap) {
	b.setValues(start, end, feature, state)
}

func (b *sourceExpressionBinder) setValues(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState) {
	value := b.expression.Evaluate(tilepaint.EvaluationParams{Zoom: 0}, feature, state)
	if b.kind == tilepaint.KindColor {
		packed := PackColor(value.Color)
		for i := start; i < end; i++ {
			b.array.Set(i, packed[0], packed[1])
		}
		return
	}
	v := value.Number
	if v > b.max {
		b.max = v
	}
	for i := start; i < end; i++ {
		b.array.Set(i, float32(v))
	}
}

func (b *sourceExpressionBinder) upload(ctx gpucore.Context) error {
	buf, err := syncPaintBuffer(ctx, b.buf, b.array)
	if err != nil {
		return err
	}
	b.buf = buf
	return nil
}

func (b *sourceExpressionBinder) destroy() {
	b.buf.destroy()
	b.buf = nil
}

func (b *sourceExpressionBinder) defines() []string { return nil }

func (b *sourceExpressionBinder) setUniforms(u gpucore.UniformSetter, _ *tilepaint.Layer, _ tilepaint.EvaluationParams) {
	// The attribute carries the value; the interpolation uniform is
	// pinned to the low end.
	u.SetFloat("u_"+b.name+"_t", 0)
}

func (b *sourceExpressionBinder) setTileSpecificUniforms(gpucore.UniformSetter, TileUniformInputs) {}

func (b *sourceExpressionBinder) selectPatternBuffer(tilepaint.CrossfadeParameters) {}

func (b *sourceExpressionBinder) vertexBuffers() []gpucore.BufferID {
	if id := b.buf.bufferID(); id != gpucore.InvalidID {
		return []gpucore.BufferID{id}
	}
	return nil
}

func (b *sourceExpressionBinder) stateDependent() bool {
	return b.expression.IsStateDependent()
}

func (b *sourceExpressionBinder) refreshExpression(v tilepaint.PropertyValue) {
	if v.Expression != nil {
		b.expression = v.Expression
	}
}

func (b *sourceExpressionBinder) maxValue() float64 { return b.max }

func (b *sourceExpressionBinder) transferArrays() []*PaintVertexArray {
	return []*PaintVertexArray{b.array.Clone()}
}

func (b *sourceExpressionBinder) adoptState(snap BinderSnapshot) {
	if len(snap.Arrays) == 1 && snap.Arrays[0].Components() == b.array.Components() {
		b.array = snap.Arrays[0]
		b.max = snap.MaxValue
	}
}
