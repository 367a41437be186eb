package program

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/gpucore"
	"github.com/gogpu/tilepaint/tile"
)

func fillLayer(paint map[string]tilepaint.PropertyValue) *tilepaint.Layer {
	return &tilepaint.Layer{ID: "water", Type: "fill", Paint: paint}
}

func TestConstantColorBinder(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-color": tilepaint.ConstantProperty(tilepaint.ColorValue(tilepaint.RGB(1, 0, 0))),
	})
	pc := NewDynamic(layer, 5, nil)

	if pc.CacheKey() != "/u_fill-color" {
		t.Errorf("CacheKey() = %q, want %q", pc.CacheKey(), "/u_fill-color")
	}
	if diff := cmp.Diff([]string{"HAS_UNIFORM_u_color"}, pc.Defines()); diff != "" {
		t.Errorf("Defines() mismatch (-want +got):\n%s", diff)
	}

	ctx := newMockContext()
	pc.PopulatePaintArrays(4, &tilepaint.Feature{}, 0, nil)
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if ctx.created != 0 {
		t.Errorf("constant binder created %d buffers, want 0", ctx.created)
	}
	if len(pc.PaintVertexBuffers()) != 0 {
		t.Errorf("PaintVertexBuffers() = %v, want empty", pc.PaintVertexBuffers())
	}

	u := newRecordingUniforms()
	pc.SetUniforms(u, layer, tilepaint.EvaluationParams{Zoom: 5})
	if diff := cmp.Diff([]float32{1, 0, 0, 1}, u.values["u_color"]); diff != "" {
		t.Errorf("u_color mismatch (-want +got):\n%s", diff)
	}
}

func TestConstantBinderPaintOverride(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.ConstantProperty(tilepaint.NumberValue(0.8)),
	})
	layer.PaintOverrides = map[string]tilepaint.Value{
		"fill-opacity": tilepaint.NumberValue(0.3),
	}
	pc := NewDynamic(layer, 0, nil)

	u := newRecordingUniforms()
	pc.SetUniforms(u, layer, tilepaint.EvaluationParams{})
	if diff := cmp.Diff([]float32{0.3}, u.values["u_opacity"]); diff != "" {
		t.Errorf("u_opacity mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	paint := map[string]tilepaint.PropertyValue{
		"fill-opacity":       tilepaint.SourceProperty(propExpr{key: "opacity"}),
		"fill-color":         tilepaint.ConstantProperty(tilepaint.ColorValue(tilepaint.Black)),
		"fill-outline-color": tilepaint.CompositeProperty(colorExpr{c: tilepaint.White}, false),
	}
	a := NewDynamic(fillLayer(paint), 3, nil)
	b := NewDynamic(fillLayer(paint), 3, nil)

	want := "/a_fill-opacity/u_fill-color/z_fill-outline-color"
	if a.CacheKey() != want {
		t.Errorf("CacheKey() = %q, want %q", a.CacheKey(), want)
	}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("cache keys differ for identical layers: %q vs %q", a.CacheKey(), b.CacheKey())
	}

	// A different binding mode for the same property changes the key.
	paint["fill-opacity"] = tilepaint.CompositeProperty(propExpr{key: "opacity"}, false)
	c := NewDynamic(fillLayer(paint), 3, nil)
	if c.CacheKey() == a.CacheKey() {
		t.Errorf("cache key unchanged across binding modes: %q", c.CacheKey())
	}
}

func TestNonDataDrivenAndFilteredSkipped(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-antialias": tilepaint.FixedProperty(tilepaint.NumberValue(1)),
		"fill-opacity":   tilepaint.SourceProperty(propExpr{key: "opacity"}),
		"fill-color":     tilepaint.SourceProperty(colorExpr{c: tilepaint.Black}),
	})

	pc := NewDynamic(layer, 0, func(property string) bool {
		return property != "fill-color"
	})

	if pc.CacheKey() != "/a_fill-opacity" {
		t.Errorf("CacheKey() = %q, want only the unfiltered data-driven property", pc.CacheKey())
	}
}

func TestSourceBinderPopulateAndUpload(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)

	features := []*tilepaint.Feature{
		{ID: "1", Properties: map[string]any{"opacity": 0.25}},
		{ID: "2", Properties: map[string]any{"opacity": 0.75}},
		{Properties: map[string]any{"opacity": 0.5}}, // no id
	}
	pc.PopulatePaintArrays(2, features[0], 0, nil)
	pc.PopulatePaintArrays(5, features[1], 1, nil)
	pc.PopulatePaintArrays(9, features[2], 2, nil)

	if !pc.NeedsUpload() {
		t.Fatal("NeedsUpload() = false after population")
	}
	if got := pc.MaxValue("fill-opacity"); got != 0.75 {
		t.Errorf("MaxValue() = %g, want 0.75", got)
	}
	if got := pc.MaxValue("fill-color"); !math.IsInf(got, -1) {
		t.Errorf("MaxValue(unbound) = %g, want -Inf", got)
	}

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if pc.NeedsUpload() {
		t.Error("NeedsUpload() = true after Upload")
	}

	ids := pc.PaintVertexBuffers()
	if len(ids) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(ids))
	}
	want := []float32{0.25, 0.25, 0.75, 0.75, 0.75, 0.5, 0.5, 0.5, 0.5}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("uploaded buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdatePaintArraysUnknownID(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)

	feature := &tilepaint.Feature{ID: "1", Properties: map[string]any{"opacity": 0.5}}
	pc.PopulatePaintArrays(3, feature, 0, nil)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	dirty := pc.UpdatePaintArrays(
		tilepaint.FeatureStates{"999": {"opacity": 1.0}},
		sliceSource{feature}, layer, nil,
	)
	if dirty {
		t.Error("UpdatePaintArrays with unknown id reported dirty")
	}
	if pc.NeedsUpload() {
		t.Error("NeedsUpload() = true after no-op update")
	}
}

func TestUpdatePaintArraysMutatesOnlyRecordedRange(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)

	features := sliceSource{
		{ID: "1", Properties: map[string]any{"opacity": 0.2}},
		{ID: "2", Properties: map[string]any{"opacity": 0.4}},
	}
	pc.PopulatePaintArrays(2, features[0], 0, nil)
	pc.PopulatePaintArrays(5, features[1], 1, nil)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	dirty := pc.UpdatePaintArrays(
		tilepaint.FeatureStates{"1": {"opacity": 0.9}},
		features, layer, nil,
	)
	if !dirty {
		t.Fatal("UpdatePaintArrays = false, want true")
	}
	if !pc.NeedsUpload() {
		t.Fatal("NeedsUpload() = false after update")
	}

	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}
	ids := pc.PaintVertexBuffers()
	want := []float32{0.9, 0.9, 0.4, 0.4, 0.4}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("buffer after update mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositeBinderStoresZoomPair(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.CompositeProperty(zoomExpr{}, false),
	})
	pc := NewDynamic(layer, 5, nil)

	pc.PopulatePaintArrays(2, &tilepaint.Feature{}, 0, nil)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	ids := pc.PaintVertexBuffers()
	if len(ids) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(ids))
	}
	// f(z) = z stores the samples at the tile zoom and one above it.
	want := []float32{5, 6, 5, 6}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("composite buffer mismatch (-want +got):\n%s", diff)
	}
	if got := pc.MaxValue("fill-opacity"); got != 6 {
		t.Errorf("MaxValue() = %g, want 6", got)
	}
}

func TestCompositeInterpolationFactor(t *testing.T) {
	tests := []struct {
		name           string
		useIntegerZoom bool
		zoom           float64
		want           float32
	}{
		{"midway", false, 5.5, 0.5},
		{"below clamps to 0", false, 4, 0},
		{"above clamps to 1", false, 7, 1},
		{"at tile zoom", false, 5, 0},
		{"integer zoom floors", true, 5.5, 0},
		{"integer zoom next level", true, 6.25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := fillLayer(map[string]tilepaint.PropertyValue{
				"fill-opacity": tilepaint.CompositeProperty(zoomExpr{}, tt.useIntegerZoom),
			})
			pc := NewDynamic(layer, 5, nil)

			u := newRecordingUniforms()
			pc.SetUniforms(u, layer, tilepaint.EvaluationParams{Zoom: tt.zoom})
			if diff := cmp.Diff([]float32{tt.want}, u.values["u_opacity_t"]); diff != "" {
				t.Errorf("u_opacity_t mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompositeColorPacksMinMaxPairs(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-color": tilepaint.CompositeProperty(colorExpr{c: tilepaint.RGB(1, 0, 0)}, false),
	})
	pc := NewDynamic(layer, 2, nil)
	pc.PopulatePaintArrays(1, &tilepaint.Feature{}, 0, nil)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	ids := pc.PaintVertexBuffers()
	packed := PackColor(tilepaint.RGB(1, 0, 0))
	want := []float32{packed[0], packed[1], packed[0], packed[1]}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("composite color buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossFadedCompositeBinder(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-pattern": tilepaint.CrossFadedCompositeProperty(zoomPattern{
			names: map[float64]string{4: "dots8", 5: "dots16", 6: "dots32"},
		}),
	})
	pc := NewDynamic(layer, 5, nil)
	if pc.CacheKey() != "/z_fill-pattern" {
		t.Errorf("CacheKey() = %q, want %q", pc.CacheKey(), "/z_fill-pattern")
	}

	positions := testPositions("dots8", "dots16", "dots32")
	pc.PopulatePaintArrays(2, &tilepaint.Feature{ID: "1"}, 0, positions)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if ctx.created != 2 {
		t.Fatalf("created %d buffers, want zoom-in and zoom-out pair", ctx.created)
	}

	// dots8 content: (1,1)-(9,9); dots16: (11,1)-(19,9); dots32: (21,1)-(29,9).
	zoomInVertex := []float32{11, 1, 19, 9, 1, 1, 9, 9}
	zoomOutVertex := []float32{11, 1, 19, 9, 21, 1, 29, 9}

	// Zooming in: the outgoing pattern is the double-scale one.
	pc.UpdatePatternPaintBuffers(tilepaint.CrossfadeForZoom(0.5, true))
	in := pc.PaintVertexBuffers()
	if len(in) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(in))
	}
	wantIn := append(append([]float32{}, zoomInVertex...), zoomInVertex...)
	if diff := cmp.Diff(wantIn, ctx.floats(in[0])); diff != "" {
		t.Errorf("zoom-in buffer mismatch (-want +got):\n%s", diff)
	}

	pc.UpdatePatternPaintBuffers(tilepaint.CrossfadeForZoom(0.5, false))
	out := pc.PaintVertexBuffers()
	if len(out) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(out))
	}
	if out[0] == in[0] {
		t.Error("zoom direction change did not switch pattern buffers")
	}
	wantOut := append(append([]float32{}, zoomOutVertex...), zoomOutVertex...)
	if diff := cmp.Diff(wantOut, ctx.floats(out[0])); diff != "" {
		t.Errorf("zoom-out buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestPaintVertexBuffersListIsStable(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-pattern": tilepaint.CrossFadedCompositeProperty(zoomPattern{
			names: map[float64]string{4: "dots8", 5: "dots16", 6: "dots32"},
		}),
	})
	pc := NewDynamic(layer, 5, nil)
	pc.PopulatePaintArrays(1, &tilepaint.Feature{ID: "1"}, 0, testPositions("dots8", "dots16", "dots32"))

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	pc.UpdatePatternPaintBuffers(tilepaint.CrossfadeForZoom(0.5, true))
	held := pc.PaintVertexBuffers()
	want := append([]gpucore.BufferID(nil), held...)

	// A later buffer switch must not rewrite a list the caller holds.
	pc.UpdatePatternPaintBuffers(tilepaint.CrossfadeForZoom(0.5, false))
	if diff := cmp.Diff(want, held); diff != "" {
		t.Errorf("held buffer list changed (-want +got):\n%s", diff)
	}
}

func TestCrossFadedMissingAtlasEntrySkipsRange(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-pattern": tilepaint.CrossFadedCompositeProperty(zoomPattern{
			names: map[float64]string{4: "dots8", 5: "dots16", 6: "missing"},
		}),
	})
	pc := NewDynamic(layer, 5, nil)

	positions := testPositions("dots8", "dots16")
	pc.PopulatePaintArrays(2, &tilepaint.Feature{}, 0, positions)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	pc.UpdatePatternPaintBuffers(tilepaint.CrossfadeForZoom(0, true))
	ids := pc.PaintVertexBuffers()
	if len(ids) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(ids))
	}
	for i, v := range ctx.floats(ids[0]) {
		if v != 0 {
			t.Fatalf("float %d = %g, want zeros for skipped range", i, v)
		}
	}
}

func TestCrossFadedConstantUniforms(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-pattern": tilepaint.CrossFadedConstantProperty("dots8", "dots16"),
	})
	pc := NewDynamic(layer, 5, nil)

	if pc.CacheKey() != "/u_fill-pattern" {
		t.Errorf("CacheKey() = %q, want %q", pc.CacheKey(), "/u_fill-pattern")
	}
	wantDefines := []string{"HAS_UNIFORM_u_pattern_to", "HAS_UNIFORM_u_pattern_from"}
	if diff := cmp.Diff(wantDefines, pc.Defines()); diff != "" {
		t.Errorf("Defines() mismatch (-want +got):\n%s", diff)
	}

	in := TileUniformInputs{
		Tile:      tile.ID{Z: 1, X: 1, Y: 0},
		TileSize:  512,
		Zoom:      5.25,
		Crossfade: tilepaint.CrossfadeForZoom(0.25, true),
		TexWidth:  64,
		TexHeight: 32,
		Positions: testPositions("dots8", "dots16"),
	}
	u := newRecordingUniforms()
	pc.SetTileSpecificUniforms(u, in)

	wants := map[string][]float32{
		"u_pattern_to":        {11, 1, 19, 9},
		"u_pattern_from":      {1, 1, 9, 9},
		"u_pixel_ratio_to":    {1},
		"u_pixel_ratio_from":  {1},
		"u_texsize":           {64, 32},
		"u_fade":              {0.25},
		"u_scale_from":        {2},
		"u_scale_to":          {1},
		"u_pixel_coord_upper": {0, 0},
		"u_pixel_coord_lower": {512, 0},
	}
	for name, want := range wants {
		if diff := cmp.Diff(want, u.values[name]); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestCrossFadedConstantMissingEntryEmitsNothing(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-pattern": tilepaint.CrossFadedConstantProperty("dots8", "missing"),
	})
	pc := NewDynamic(layer, 5, nil)

	u := newRecordingUniforms()
	pc.SetTileSpecificUniforms(u, TileUniformInputs{
		TileSize:  512,
		Positions: testPositions("dots8"),
	})
	if len(u.values) != 0 {
		t.Errorf("uniforms written for missing atlas entry: %v", u.values)
	}
}

func TestMixedLayerScenario(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-color":   tilepaint.ConstantProperty(tilepaint.ColorValue(tilepaint.Black)),
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)

	features := []*tilepaint.Feature{
		{ID: "1", Properties: map[string]any{"opacity": 0.1}},
		{ID: "2", Properties: map[string]any{"opacity": 0.2}},
		{ID: "3", Properties: map[string]any{"opacity": 0.3}},
	}
	length := 0
	for i, f := range features {
		length += 2
		pc.PopulatePaintArrays(length, f, i, nil)
	}

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got := pc.Defines(); len(got) != 1 {
		t.Errorf("Defines() = %v, want the constant binder's flag only", got)
	}
	if got := pc.PaintVertexBuffers(); len(got) != 1 {
		t.Errorf("PaintVertexBuffers() returned %d buffers, want 1", len(got))
	}

	u := newRecordingUniforms()
	pc.SetUniforms(u, layer, tilepaint.EvaluationParams{Zoom: 3})
	if diff := cmp.Diff([]float32{0, 0, 0, 1}, u.values["u_color"]); diff != "" {
		t.Errorf("u_color mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float32{0}, u.values["u_opacity_t"]); diff != "" {
		t.Errorf("u_opacity_t mismatch (-want +got):\n%s", diff)
	}
}

func TestDestroyReleasesBuffers(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)
	pc.PopulatePaintArrays(3, &tilepaint.Feature{}, 0, nil)

	ctx := newMockContext()
	if err := pc.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	pc.Destroy()
	pc.Destroy() // idempotent

	if ctx.destroyed != ctx.created {
		t.Errorf("destroyed %d of %d buffers", ctx.destroyed, ctx.created)
	}
	if len(pc.PaintVertexBuffers()) != 0 {
		t.Errorf("PaintVertexBuffers() after Destroy = %v, want empty", pc.PaintVertexBuffers())
	}
}

func TestUploadErrorPropagates(t *testing.T) {
	layer := fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
	})
	pc := NewDynamic(layer, 0, nil)
	pc.PopulatePaintArrays(1, &tilepaint.Feature{}, 0, nil)

	ctx := newMockContext()
	ctx.failNext = true
	if err := pc.Upload(ctx); err == nil {
		t.Fatal("Upload() error = nil, want buffer creation failure")
	}
}
