package program

import (
	"sort"
	"strings"

	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// PropertyFilter selects which paint properties of a layer are bound.
// A nil filter accepts everything.
type PropertyFilter func(property string) bool

// ProgramConfiguration aggregates the binders of one layer for one
// tile at one zoom. It tracks a feature-id-to-vertex-range map for
// partial updates and exposes batch operations over all its binders.
//
// A configuration is single-owner: population and update run on the
// tile worker, upload and uniform setting on the thread holding the
// graphics context, never concurrently.
type ProgramConfiguration struct {
	binders    map[string]binder
	properties []string // sorted, for deterministic iteration
	cacheKey   string

	featureMap   *FeaturePositionMap
	bufferOffset int

	buffers     []gpucore.BufferID
	needsUpload bool
}

// NewDynamic builds the binder set for a layer at the given zoom.
// Every paint property passing the filter whose schema permits
// per-feature values receives a binder; the variant follows from the
// property's bind kind and cross-fade flag.
func NewDynamic(layer *tilepaint.Layer, zoom float64, filter PropertyFilter) *ProgramConfiguration {
	pc := &ProgramConfiguration{
		binders:    make(map[string]binder),
		featureMap: NewFeaturePositionMap(),
	}

	var keys []string
	for property, value := range layer.Paint {
		if filter != nil && !filter(property) {
			continue
		}
		if !value.DataDriven {
			continue
		}

		names := PaintAttributeNames(property, layer.Type)
		switch {
		case value.CrossFaded && value.Kind == tilepaint.BindConstant:
			pc.binders[property] = newCrossFadedConstantBinder(property, value.ConstantPattern)
			keys = append(keys, "/u_"+property)
		case value.CrossFaded:
			pc.binders[property] = newCrossFadedCompositeBinder(property, value.Pattern, zoom)
			keys = append(keys, "/z_"+property)
		case value.Kind == tilepaint.BindConstant:
			pc.binders[property] = newConstantBinder(property, names[0], value.Constant)
			keys = append(keys, "/u_"+property)
		case value.Kind == tilepaint.BindSource:
			pc.binders[property] = newSourceExpressionBinder(property, names[0], value.Expression)
			keys = append(keys, "/a_"+property)
		default:
			pc.binders[property] = newCompositeExpressionBinder(property, names[0], value.Expression, zoom, value.UseIntegerZoom)
			keys = append(keys, "/z_"+property)
		}
		pc.properties = append(pc.properties, property)
	}

	sort.Strings(keys)
	sort.Strings(pc.properties)
	pc.cacheKey = strings.Join(keys, "")
	return pc
}

// CacheKey returns the deterministic key identifying which shader
// variant this configuration needs. It depends only on the set of
// (property, binding mode) pairs, not on declaration order.
func (pc *ProgramConfiguration) CacheKey() string {
	return pc.cacheKey
}

// PopulatePaintArrays appends encoded paint values for one feature to
// every binder until their arrays reach newLength vertices. index is
// the feature's position within its tile layer. Features carrying a
// stable id additionally record their vertex range for later
// state-driven updates.
func (pc *ProgramConfiguration) PopulatePaintArrays(newLength int, feature *tilepaint.Feature, index int, positions atlas.PositionMap) {
	for _, b := range pc.binders {
		b.populatePaintArray(newLength, feature, positions)
	}
	if feature.HasID() {
		pc.featureMap.Add(feature.ID, index, pc.bufferOffset, newLength)
	}
	pc.bufferOffset = newLength
	pc.needsUpload = true
}

// UpdatePaintArrays overwrites the recorded vertex ranges of every
// feature id present in states, re-evaluating state-dependent binders
// only. The expression reference is refreshed from the live layer
// first so style changes since population are picked up. Ids without
// a recorded range are skipped. Reports whether any binder was
// touched.
func (pc *ProgramConfiguration) UpdatePaintArrays(states tilepaint.FeatureStates, source tilepaint.FeatureSource, layer *tilepaint.Layer, positions atlas.PositionMap) bool {
	dirty := false
	for id, state := range states {
		for _, pos := range pc.featureMap.Positions(id) {
			feature := source.FeatureByIndex(pos.Index)
			if feature == nil {
				continue
			}
			for _, property := range pc.properties {
				b := pc.binders[property]
				if !b.stateDependent() {
					continue
				}
				if value, ok := layer.Paint[property]; ok {
					b.refreshExpression(value)
				}
				b.updatePaintArray(pos.Start, pos.End, feature, state, positions)
				dirty = true
			}
		}
	}
	if dirty {
		pc.needsUpload = true
	}
	return dirty
}

// Defines returns the shader compile-time flags of all binders, in
// deterministic property order.
func (pc *ProgramConfiguration) Defines() []string {
	var out []string
	for _, property := range pc.properties {
		out = append(out, pc.binders[property].defines()...)
	}
	return out
}

// Upload realizes GPU buffers for every binder and recomputes the
// exposed buffer list. Binders of the constant family contribute no
// buffers.
func (pc *ProgramConfiguration) Upload(ctx gpucore.Context) error {
	for _, property := range pc.properties {
		if err := pc.binders[property].upload(ctx); err != nil {
			return err
		}
	}
	pc.refreshBufferList()
	pc.needsUpload = false
	return nil
}

// Destroy releases all realized GPU buffers. Safe to call more than
// once.
func (pc *ProgramConfiguration) Destroy() {
	for _, b := range pc.binders {
		b.destroy()
	}
	pc.buffers = nil
}

// SetUniforms writes the per-draw-call uniform values of every
// binder: constant values for uniform-bound properties and
// interpolation factors for zoom-composite ones.
func (pc *ProgramConfiguration) SetUniforms(u gpucore.UniformSetter, layer *tilepaint.Layer, globals tilepaint.EvaluationParams) {
	for _, property := range pc.properties {
		pc.binders[property].setUniforms(u, layer, globals)
	}
}

// SetTileSpecificUniforms writes the uniforms that depend on tile
// identity and cross-fade state; only pattern binders emit any.
func (pc *ProgramConfiguration) SetTileSpecificUniforms(u gpucore.UniformSetter, in TileUniformInputs) {
	for _, property := range pc.properties {
		pc.binders[property].setTileSpecificUniforms(u, in)
	}
}

// UpdatePatternPaintBuffers resolves which buffer each cross-faded
// binder exposes for the current draw call and refreshes the exposed
// buffer list accordingly.
func (pc *ProgramConfiguration) UpdatePatternPaintBuffers(crossfade tilepaint.CrossfadeParameters) {
	for _, b := range pc.binders {
		b.selectPatternBuffer(crossfade)
	}
	pc.refreshBufferList()
}

// PaintVertexBuffers returns the realized vertex buffers of all
// attribute-bound binders, in deterministic property order. The
// returned list is never mutated by later Upload or
// UpdatePatternPaintBuffers calls; callers may hold it across draw
// calls.
func (pc *ProgramConfiguration) PaintVertexBuffers() []gpucore.BufferID {
	return pc.buffers
}

// MaxValue returns the maximum numeric value seen by the property's
// binder, -Inf when the property is unbound or never saw a number.
func (pc *ProgramConfiguration) MaxValue(property string) float64 {
	if b, ok := pc.binders[property]; ok {
		return b.maxValue()
	}
	return negInf
}

// NeedsUpload reports whether any population or update has happened
// since the last Upload.
func (pc *ProgramConfiguration) NeedsUpload() bool {
	return pc.needsUpload
}

// refreshBufferList rebuilds the exposed buffer list into a fresh
// slice. Lists handed out by PaintVertexBuffers must keep their
// contents after a pattern buffer switch, so the old backing array is
// never reused.
func (pc *ProgramConfiguration) refreshBufferList() {
	var buffers []gpucore.BufferID
	for _, property := range pc.properties {
		buffers = append(buffers, pc.binders[property].vertexBuffers()...)
	}
	pc.buffers = buffers
}
