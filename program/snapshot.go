package program

// Worker handoff.
//
// Tiles are populated on a worker context; the render thread uploads.
// Only the accumulated paint arrays and statistics cross that
// boundary — realized GPU buffers never do. The render side builds
// its own configuration from the same layer and adopts the arrays.

// BinderSnapshot is the transferable subset of one binder's state.
type BinderSnapshot struct {
	// Property is the paint property the binder serves.
	Property string

	// Arrays holds deep copies of the binder's paint arrays, empty
	// for the constant family.
	Arrays []*PaintVertexArray

	// MaxValue is the binder's running numeric maximum.
	MaxValue float64
}

// ConfigurationSnapshot is an immutable value-transfer descriptor for
// one ProgramConfiguration.
type ConfigurationSnapshot struct {
	// CacheKey identifies the shader variant the arrays were built
	// for. Adoption requires an identical key.
	CacheKey string

	// Binders holds one snapshot per bound property.
	Binders []BinderSnapshot

	// Positions maps feature ids to the vertex ranges recorded during
	// population, so the adopting side can service state-driven
	// updates.
	Positions *FeaturePositionMap

	// BufferOffset is the total vertex count written so far.
	BufferOffset int
}

// Snapshot captures the paint arrays, statistics, and feature
// positions for worker-to-render handoff. The copies are deep; the
// worker may keep mutating its own state afterwards.
func (pc *ProgramConfiguration) Snapshot() *ConfigurationSnapshot {
	snap := &ConfigurationSnapshot{
		CacheKey:     pc.cacheKey,
		Positions:    pc.featureMap.Clone(),
		BufferOffset: pc.bufferOffset,
	}
	for _, property := range pc.properties {
		b := pc.binders[property]
		snap.Binders = append(snap.Binders, BinderSnapshot{
			Property: property,
			Arrays:   b.transferArrays(),
			MaxValue: b.maxValue(),
		})
	}
	return snap
}

// AdoptSnapshot installs a snapshot's paint arrays, statistics, and
// feature positions into this configuration. The receiving
// configuration must have been built from the same layer at the same
// zoom; a cache-key mismatch is rejected.
func (pc *ProgramConfiguration) AdoptSnapshot(snap *ConfigurationSnapshot) bool {
	if snap == nil || snap.CacheKey != pc.cacheKey {
		return false
	}
	for _, bs := range snap.Binders {
		if b, ok := pc.binders[bs.Property]; ok {
			b.adoptState(bs)
		}
	}
	if snap.Positions != nil {
		pc.featureMap = snap.Positions
		pc.bufferOffset = snap.BufferOffset
	}
	pc.needsUpload = true
	return true
}
