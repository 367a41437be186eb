package program

import (
	"math"

	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// compositeExpressionBinder binds a per-feature, zoom-dependent
// property as a vertex attribute holding a min/max sample pair,
// evaluated at the tile zoom and one level above it. The shader
// interpolates between the pair with a factor computed at draw time.
type compositeExpressionBinder struct {
	property       string
	name           string
	expression     tilepaint.Expression
	kind           tilepaint.ValueKind
	zoom           float64
	useIntegerZoom bool
	array          *PaintVertexArray
	max            float64
	buf            *paintBuffer
}

func newCompositeExpressionBinder(property, attrName string, e tilepaint.Expression, zoom float64, useIntegerZoom bool) *compositeExpressionBinder {
	kind := e.Kind()
	return &compositeExpressionBinder{
		property:       property,
		name:           attrName,
		expression:     e,
		kind:           kind,
		zoom:           zoom,
		useIntegerZoom: useIntegerZoom,
		array:          NewPaintVertexArray(PackedComponents(kind, tilepaint.BindComposite, false)),
		max:            negInf,
	}
}

func (b *compositeExpressionBinder) populatePaintArray(newLength int, feature *tilepaint.Feature, _ atlas.PositionMap) {
	start := b.array.Len()
	b.array.Resize(newLength)
	b.setValues(start, newLength, feature, nil)
}

func (b *compositeExpressionBinder) updatePaintArray(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState, _ atlas.PositionMap) {
	b.setValues(start, end, feature, state)
}

func (b *compositeExpressionBinder) setValues(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState) {
	vMin := b.expression.Evaluate(tilepaint.EvaluationParams{Zoom: b.zoom}, feature, state)
	vMax := b.expression.Evaluate(tilepaint.EvaluationParams{Zoom: b.zoom + 1}, feature, state)
	if b.kind == tilepaint.KindColor {
		packedMin := PackColor(vMin.Color)
		packedMax := PackColor(vMax.Color)
		for i := start; i < end; i++ {
			b.array.Set(i, packedMin[0], packedMin[1], packedMax[0], packedMax[1])
		}
		return
	}
	if vMin.Number > b.max {
		b.max = vMin.Number
	}
	if vMax.Number > b.max {
		b.max = vMax.Number
	}
	for i := start; i < end; i++ {
		b.array.Set(i, float32(vMin.Number), float32(vMax.Number))
	}
}

// interpolationFactor returns the blend between the stored min/max
// samples for the current zoom, in [0, 1].
func (b *compositeExpressionBinder) interpolationFactor(currentZoom float64) float64 {
	z := currentZoom
	if b.useIntegerZoom {
		z = math.Floor(z)
	}
	t := z - b.zoom
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func (b *compositeExpressionBinder) upload(ctx gpucore.Context) error {
	buf, err := syncPaintBuffer(ctx, b.buf, b.array)
	if err != nil {
		return err
	}
	b.buf = buf
	return nil
}

func (b *compositeExpressionBinder) destroy() {
	b.buf.destroy()
	b.buf = nil
}

func (b *compositeExpressionBinder) defines() []string { return nil }

func (b *compositeExpressionBinder) setUniforms(u gpucore.UniformSetter, _ *tilepaint.Layer, globals tilepaint.EvaluationParams) {
	u.SetFloat("u_"+b.name+"_t", float32(b.interpolationFactor(globals.Zoom)))
}

func (b *compositeExpressionBinder) setTileSpecificUniforms(gpucore.UniformSetter, TileUniformInputs) {
}

func (b *compositeExpressionBinder) selectPatternBuffer(tilepaint.CrossfadeParameters) {}

func (b *compositeExpressionBinder) vertexBuffers() []gpucore.BufferID {
	if id := b.buf.bufferID(); id != gpucore.InvalidID {
		return []gpucore.BufferID{id}
	}
	return nil
}

func (b *compositeExpressionBinder) stateDependent() bool {
	return b.expression.IsStateDependent()
}

func (b *compositeExpressionBinder) refreshExpression(v tilepaint.PropertyValue) {
	if v.Expression != nil {
		b.expression = v.Expression
	}
}

func (b *compositeExpressionBinder) maxValue() float64 { return b.max }

func (b *compositeExpressionBinder) transferArrays() []*PaintVertexArray {
	return []*PaintVertexArray{b.array.Clone()}
}

func (b *compositeExpressionBinder) adoptState(snap BinderSnapshot) {
	if len(snap.Arrays) == 1 && snap.Arrays[0].Components() == b.array.Components() {
		b.array = snap.Arrays[0]
		b.max = snap.MaxValue
	}
}
