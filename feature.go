package tilepaint

// Feature is one vector-tile feature as seen by paint evaluation.
// Geometry is irrelevant here; only identity and the property bag
// expressions read from are carried.
type Feature struct {
	// ID is the stringified stable feature id, empty when the source
	// feature carries none. Features without ids cannot receive
	// state-driven updates.
	ID string

	// Properties is the feature's attribute bag, read by expressions.
	Properties map[string]any
}

// HasID reports whether the feature carries a stable id.
func (f *Feature) HasID() bool {
	return f.ID != ""
}

// FeatureSource looks up features by their index within a tile layer,
// used when feature-state changes require re-evaluating stored ranges.
type FeatureSource interface {
	// FeatureByIndex returns the feature at the given tile-layer
	// index, or nil if the index is out of range.
	FeatureByIndex(index int) *Feature
}
