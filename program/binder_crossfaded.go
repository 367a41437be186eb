package program

import (
	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// crossFadedCompositeBinder binds a per-feature pattern property.
//
// The pattern name is evaluated at one zoom level below the tile, at
// the tile zoom, and one level above; each name resolves through the
// image atlas. Because the cross-fade direction is unknown while the
// tile is being populated, two parallel arrays are built: the zoom-in
// array pairs the mid pattern with the min one, the zoom-out array
// pairs it with the max one. Draw time selects whichever matches the
// cross-fade direction.
type crossFadedCompositeBinder struct {
	property string
	pattern  tilepaint.PatternExpression
	zoom     float64

	zoomInArray  *PaintVertexArray
	zoomOutArray *PaintVertexArray
	zoomInBuf    *paintBuffer
	zoomOutBuf   *paintBuffer
	useZoomIn    bool
}

// crossFadedArrayComponents is pattern_to plus pattern_from, four
// packed floats each.
const crossFadedArrayComponents = 2 * patternComponents

func newCrossFadedCompositeBinder(property string, p tilepaint.PatternExpression, zoom float64) *crossFadedCompositeBinder {
	return &crossFadedCompositeBinder{
		property:     property,
		pattern:      p,
		zoom:         zoom,
		zoomInArray:  NewPaintVertexArray(crossFadedArrayComponents),
		zoomOutArray: NewPaintVertexArray(crossFadedArrayComponents),
	}
}

func (b *crossFadedCompositeBinder) populatePaintArray(newLength int, feature *tilepaint.Feature, positions atlas.PositionMap) {
	start := b.zoomInArray.Len()
	b.zoomInArray.Resize(newLength)
	b.zoomOutArray.Resize(newLength)
	b.setPaintValues(start, newLength, feature, nil, positions)
}

func (b *crossFadedCompositeBinder) updatePaintArray(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState, positions atlas.PositionMap) {
	b.setPaintValues(start, end, feature, state, positions)
}

func (b *crossFadedCompositeBinder) setPaintValues(start, end int, feature *tilepaint.Feature, state tilepaint.FeatureState, positions atlas.PositionMap) {
	minName := b.pattern.Evaluate(tilepaint.EvaluationParams{Zoom: b.zoom - 1}, feature, state)
	midName := b.pattern.Evaluate(tilepaint.EvaluationParams{Zoom: b.zoom}, feature, state)
	maxName := b.pattern.Evaluate(tilepaint.EvaluationParams{Zoom: b.zoom + 1}, feature, state)

	imageMin, okMin := positions[minName]
	imageMid, okMid := positions[midName]
	imageMax, okMax := positions[maxName]
	if !okMin || !okMid || !okMax {
		// Any missing atlas entry skips the whole range, leaving
		// prior contents in place. Best effort, not a failure.
		return
	}

	for i := start; i < end; i++ {
		setPatternVertex(b.zoomInArray, i, imageMid, imageMin)
		setPatternVertex(b.zoomOutArray, i, imageMid, imageMax)
	}
}

// setPatternVertex writes one vertex as pattern_to rectangle followed
// by pattern_from rectangle.
func setPatternVertex(arr *PaintVertexArray, i int, to, from atlas.ImagePosition) {
	toTL, toBR := to.TL(), to.BR()
	fromTL, fromBR := from.TL(), from.BR()
	arr.Set(i,
		toTL[0], toTL[1], toBR[0], toBR[1],
		fromTL[0], fromTL[1], fromBR[0], fromBR[1],
	)
}

func (b *crossFadedCompositeBinder) upload(ctx gpucore.Context) error {
	zoomIn, err := syncPaintBuffer(ctx, b.zoomInBuf, b.zoomInArray)
	if err != nil {
		return err
	}
	b.zoomInBuf = zoomIn
	zoomOut, err := syncPaintBuffer(ctx, b.zoomOutBuf, b.zoomOutArray)
	if err != nil {
		return err
	}
	b.zoomOutBuf = zoomOut
	return nil
}

func (b *crossFadedCompositeBinder) destroy() {
	b.zoomInBuf.destroy()
	b.zoomOutBuf.destroy()
	b.zoomInBuf = nil
	b.zoomOutBuf = nil
}

func (b *crossFadedCompositeBinder) defines() []string { return nil }

func (b *crossFadedCompositeBinder) setUniforms(gpucore.UniformSetter, *tilepaint.Layer, tilepaint.EvaluationParams) {
}

func (b *crossFadedCompositeBinder) setTileSpecificUniforms(u gpucore.UniformSetter, in TileUniformInputs) {
	setPatternUniforms(u, in)
}

func (b *crossFadedCompositeBinder) selectPatternBuffer(crossfade tilepaint.CrossfadeParameters) {
	b.useZoomIn = crossfade.FromScale == 2
}

func (b *crossFadedCompositeBinder) vertexBuffers() []gpucore.BufferID {
	buf := b.zoomOutBuf
	if b.useZoomIn {
		buf = b.zoomInBuf
	}
	if id := buf.bufferID(); id != gpucore.InvalidID {
		return []gpucore.BufferID{id}
	}
	return nil
}

func (b *crossFadedCompositeBinder) stateDependent() bool {
	return b.pattern.IsStateDependent()
}

func (b *crossFadedCompositeBinder) refreshExpression(v tilepaint.PropertyValue) {
	if v.Pattern != nil {
		b.pattern = v.Pattern
	}
}

func (b *crossFadedCompositeBinder) maxValue() float64 { return negInf }

func (b *crossFadedCompositeBinder) transferArrays() []*PaintVertexArray {
	return []*PaintVertexArray{b.zoomInArray.Clone(), b.zoomOutArray.Clone()}
}

func (b *crossFadedCompositeBinder) adoptState(snap BinderSnapshot) {
	if len(snap.Arrays) == 2 &&
		snap.Arrays[0].Components() == crossFadedArrayComponents &&
		snap.Arrays[1].Components() == crossFadedArrayComponents {
		b.zoomInArray = snap.Arrays[0]
		b.zoomOutArray = snap.Arrays[1]
	}
}
