package program

import (
	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// constantBinder binds a fixed-value property as a shader uniform.
// It owns no storage; colors split into four uniform channels,
// scalars into one.
type constantBinder struct {
	property string
	name     string
	value    tilepaint.Value
}

func newConstantBinder(property, attrName string, value tilepaint.Value) *constantBinder {
	return &constantBinder{property: property, name: attrName, value: value}
}

func (b *constantBinder) populatePaintArray(int, *tilepaint.Feature, atlas.PositionMap) {}

func (b *constantBinder) updatePaintArray(int, int, *tilepaint.Feature, tilepaint.FeatureState, atlas.PositionMap) {
}

func (b *constantBinder) upload(gpucore.Context) error { return nil }

func (b *constantBinder) destroy() {}

func (b *constantBinder) defines() []string {
	return []string{"HAS_UNIFORM_u_" + b.name}
}

func (b *constantBinder) setUniforms(u gpucore.UniformSetter, layer *tilepaint.Layer, _ tilepaint.EvaluationParams) {
	value := b.value
	if layer != nil {
		if override, ok := layer.PaintOverrides[b.property]; ok {
			value = override
		}
	}
	switch value.Kind {
	case tilepaint.KindColor:
		c := value.Color
		u.SetFloat4("u_"+b.name, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	default:
		u.SetFloat("u_"+b.name, float32(value.Number))
	}
}

func (b *constantBinder) setTileSpecificUniforms(gpucore.UniformSetter, TileUniformInputs) {}

func (b *constantBinder) selectPatternBuffer(tilepaint.CrossfadeParameters) {}

func (b *constantBinder) vertexBuffers() []gpucore.BufferID { return nil }

func (b *constantBinder) stateDependent() bool { return false }

func (b *constantBinder) refreshExpression(v tilepaint.PropertyValue) {
	b.value = v.Constant
}

func (b *constantBinder) maxValue() float64 { return negInf }

func (b *constantBinder) transferArrays() []*PaintVertexArray { return nil }

func (b *constantBinder) adoptState(BinderSnapshot) {}

// crossFadedConstantBinder binds a fixed pattern pair as uniforms:
// the {from, to} names resolve through the image atlas into rectangle
// and pixel-ratio uniforms at draw time.
type crossFadedConstantBinder struct {
	property string
	patterns tilepaint.CrossFadedPattern
}

func newCrossFadedConstantBinder(property string, patterns tilepaint.CrossFadedPattern) *crossFadedConstantBinder {
	return &crossFadedConstantBinder{property: property, patterns: patterns}
}

func (b *crossFadedConstantBinder) populatePaintArray(int, *tilepaint.Feature, atlas.PositionMap) {}

func (b *crossFadedConstantBinder) updatePaintArray(int, int, *tilepaint.Feature, tilepaint.FeatureState, atlas.PositionMap) {
}

func (b *crossFadedConstantBinder) upload(gpucore.Context) error { return nil }

func (b *crossFadedConstantBinder) destroy() {}

func (b *crossFadedConstantBinder) defines() []string {
	return []string{"HAS_UNIFORM_u_pattern_to", "HAS_UNIFORM_u_pattern_from"}
}

func (b *crossFadedConstantBinder) setUniforms(gpucore.UniformSetter, *tilepaint.Layer, tilepaint.EvaluationParams) {
}

func (b *crossFadedConstantBinder) setTileSpecificUniforms(u gpucore.UniformSetter, in TileUniformInputs) {
	from, okFrom := in.Positions[b.patterns.From]
	to, okTo := in.Positions[b.patterns.To]
	if !okFrom || !okTo {
		// Missing atlas entry. Best effort: emit nothing for this
		// draw rather than half a pattern.
		return
	}

	setRectUniform(u, "u_pattern_to", to)
	setRectUniform(u, "u_pattern_from", from)
	u.SetFloat("u_pixel_ratio_to", float32(to.PixelRatio))
	u.SetFloat("u_pixel_ratio_from", float32(from.PixelRatio))
	setPatternUniforms(u, in)
}

func (b *crossFadedConstantBinder) selectPatternBuffer(tilepaint.CrossfadeParameters) {}

func (b *crossFadedConstantBinder) vertexBuffers() []gpucore.BufferID { return nil }

func (b *crossFadedConstantBinder) stateDependent() bool { return false }

func (b *crossFadedConstantBinder) refreshExpression(v tilepaint.PropertyValue) {
	b.patterns = v.ConstantPattern
}

func (b *crossFadedConstantBinder) maxValue() float64 { return negInf }

func (b *crossFadedConstantBinder) transferArrays() []*PaintVertexArray { return nil }

func (b *crossFadedConstantBinder) adoptState(BinderSnapshot) {}

// setRectUniform writes a pattern content rectangle as a vec4
// (tl.x, tl.y, br.x, br.y).
func setRectUniform(u gpucore.UniformSetter, name string, pos atlas.ImagePosition) {
	tl, br := pos.TL(), pos.BR()
	u.SetFloat4(name, tl[0], tl[1], br[0], br[1])
}
