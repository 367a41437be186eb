package program

// FeatureRange identifies the contiguous vertex slice written for one
// feature during population.
type FeatureRange struct {
	// Index is the feature's index within its tile layer.
	Index int

	// Start is the first vertex of the slice.
	Start int

	// End is one past the last vertex of the slice.
	End int
}

// FeaturePositionMap records which vertex ranges belong to which
// feature id. Range records live in a flat arena in population order;
// the string-keyed index is a secondary lookup holding arena offsets,
// so per-feature updates cost no per-range allocations.
//
// Entries exist only for features carrying a stable id; features
// without ids cannot receive later state-driven updates.
type FeaturePositionMap struct {
	ranges []FeatureRange
	index  map[string][]int32
}

// NewFeaturePositionMap creates an empty map.
func NewFeaturePositionMap() *FeaturePositionMap {
	return &FeaturePositionMap{index: make(map[string][]int32)}
}

// Add records the vertex range [start, end) written for the feature
// with the given id and tile-layer index. Range ends are
// non-decreasing across successive calls within one tile.
func (m *FeaturePositionMap) Add(id string, index, start, end int) {
	m.index[id] = append(m.index[id], int32(len(m.ranges)))
	m.ranges = append(m.ranges, FeatureRange{Index: index, Start: start, End: end})
}

// Positions returns the recorded ranges for a feature id in
// population order, or nil when the id was never seen.
func (m *FeaturePositionMap) Positions(id string) []FeatureRange {
	offsets := m.index[id]
	if len(offsets) == 0 {
		return nil
	}
	out := make([]FeatureRange, len(offsets))
	for i, off := range offsets {
		out[i] = m.ranges[off]
	}
	return out
}

// Contains reports whether any range is recorded for the id.
func (m *FeaturePositionMap) Contains(id string) bool {
	return len(m.index[id]) > 0
}

// Len returns the total number of recorded ranges.
func (m *FeaturePositionMap) Len() int {
	return len(m.ranges)
}

// Clone returns a deep copy of the map.
func (m *FeaturePositionMap) Clone() *FeaturePositionMap {
	out := &FeaturePositionMap{
		ranges: append([]FeatureRange(nil), m.ranges...),
		index:  make(map[string][]int32, len(m.index)),
	}
	for id, offsets := range m.index {
		out.index[id] = append([]int32(nil), offsets...)
	}
	return out
}
