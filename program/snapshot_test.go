package program

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/tilepaint"
)

func snapshotLayer() *tilepaint.Layer {
	return fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.SourceProperty(propExpr{key: "opacity"}),
		"fill-color":   tilepaint.ConstantProperty(tilepaint.ColorValue(tilepaint.Black)),
	})
}

func TestSnapshotAdoption(t *testing.T) {
	worker := NewDynamic(snapshotLayer(), 4, nil)
	worker.PopulatePaintArrays(3, &tilepaint.Feature{Properties: map[string]any{"opacity": 0.5}}, 0, nil)

	snap := worker.Snapshot()
	if snap.CacheKey != worker.CacheKey() {
		t.Fatalf("snapshot CacheKey = %q, want %q", snap.CacheKey, worker.CacheKey())
	}

	render := NewDynamic(snapshotLayer(), 4, nil)
	if !render.AdoptSnapshot(snap) {
		t.Fatal("AdoptSnapshot = false for matching configuration")
	}
	if !render.NeedsUpload() {
		t.Error("NeedsUpload() = false after adoption")
	}
	if got := render.MaxValue("fill-opacity"); got != 0.5 {
		t.Errorf("adopted MaxValue = %g, want 0.5", got)
	}

	ctx := newMockContext()
	if err := render.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	ids := render.PaintVertexBuffers()
	if len(ids) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(ids))
	}
	want := []float32{0.5, 0.5, 0.5}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("adopted buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	worker := NewDynamic(snapshotLayer(), 4, nil)
	worker.PopulatePaintArrays(1, &tilepaint.Feature{Properties: map[string]any{"opacity": 0.5}}, 0, nil)

	snap := worker.Snapshot()

	// The worker keeps populating after the handoff.
	worker.PopulatePaintArrays(4, &tilepaint.Feature{Properties: map[string]any{"opacity": 0.9}}, 1, nil)

	for _, bs := range snap.Binders {
		for _, arr := range bs.Arrays {
			if arr.Len() != 1 {
				t.Errorf("snapshot array for %s has %d vertices, want 1", bs.Property, arr.Len())
			}
		}
	}
}

func TestAdoptedConfigurationServicesStateUpdates(t *testing.T) {
	feature := &tilepaint.Feature{ID: "7", Properties: map[string]any{"opacity": 0.5}}

	worker := NewDynamic(snapshotLayer(), 4, nil)
	worker.PopulatePaintArrays(3, feature, 0, nil)

	render := NewDynamic(snapshotLayer(), 4, nil)
	if !render.AdoptSnapshot(worker.Snapshot()) {
		t.Fatal("AdoptSnapshot = false for matching configuration")
	}

	// The feature positions travel with the snapshot, so the adopting
	// side can re-evaluate recorded ranges against new feature state.
	states := tilepaint.FeatureStates{"7": {"opacity": 0.9}}
	if !render.UpdatePaintArrays(states, sliceSource{feature}, snapshotLayer(), nil) {
		t.Fatal("UpdatePaintArrays = false after adoption")
	}

	ctx := newMockContext()
	if err := render.Upload(ctx); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	ids := render.PaintVertexBuffers()
	if len(ids) != 1 {
		t.Fatalf("PaintVertexBuffers() returned %d buffers, want 1", len(ids))
	}
	want := []float32{0.9, 0.9, 0.9}
	if diff := cmp.Diff(want, ctx.floats(ids[0])); diff != "" {
		t.Errorf("updated adopted buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestAdoptSnapshotRejectsMismatch(t *testing.T) {
	worker := NewDynamic(snapshotLayer(), 4, nil)
	snap := worker.Snapshot()

	other := NewDynamic(fillLayer(map[string]tilepaint.PropertyValue{
		"fill-opacity": tilepaint.CompositeProperty(propExpr{key: "opacity"}, false),
	}), 4, nil)

	if other.AdoptSnapshot(snap) {
		t.Error("AdoptSnapshot accepted a cache-key mismatch")
	}
	if other.AdoptSnapshot(nil) {
		t.Error("AdoptSnapshot accepted nil")
	}
}
