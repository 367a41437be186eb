package program

import (
	"github.com/gogpu/tilepaint"
	"github.com/gogpu/tilepaint/atlas"
	"github.com/gogpu/tilepaint/gpucore"
)

// ProgramConfigurationSet fans paint-array operations out across the
// layers sharing one tile, keyed by layer id. It is built once per
// (source, zoom) batch. A single dirty flag coalesces upload
// scheduling: one upload pass covers every touched layer, and the
// pass is skipped entirely when nothing changed.
type ProgramConfigurationSet struct {
	configurations map[string]*ProgramConfiguration
	needsUpload    bool
}

// NewSet builds one configuration per layer at the given zoom.
func NewSet(layers []*tilepaint.Layer, zoom float64, filter PropertyFilter) *ProgramConfigurationSet {
	set := &ProgramConfigurationSet{
		configurations: make(map[string]*ProgramConfiguration, len(layers)),
	}
	for _, layer := range layers {
		set.configurations[layer.ID] = NewDynamic(layer, zoom, filter)
	}
	return set
}

// Get returns the configuration for a layer id, nil when the layer is
// not part of the set.
func (s *ProgramConfigurationSet) Get(layerID string) *ProgramConfiguration {
	return s.configurations[layerID]
}

// PopulatePaintArrays broadcasts one feature's population to every
// member configuration.
func (s *ProgramConfigurationSet) PopulatePaintArrays(newLength int, feature *tilepaint.Feature, index int, positions atlas.PositionMap) {
	for _, pc := range s.configurations {
		pc.PopulatePaintArrays(newLength, feature, index, positions)
	}
	s.needsUpload = true
}

// UpdatePaintArrays applies feature-state changes to every member
// layer. Reports whether anything changed.
func (s *ProgramConfigurationSet) UpdatePaintArrays(states tilepaint.FeatureStates, source tilepaint.FeatureSource, layers []*tilepaint.Layer, positions atlas.PositionMap) bool {
	dirty := false
	for _, layer := range layers {
		pc := s.configurations[layer.ID]
		if pc == nil {
			continue
		}
		if pc.UpdatePaintArrays(states, source, layer, positions) {
			dirty = true
		}
	}
	if dirty {
		s.needsUpload = true
	}
	return dirty
}

// NeedsUpload reports whether any member was touched since the last
// Upload.
func (s *ProgramConfigurationSet) NeedsUpload() bool {
	return s.needsUpload
}

// Upload materializes dirty buffers across all member configurations
// in one pass. A clean set returns immediately.
func (s *ProgramConfigurationSet) Upload(ctx gpucore.Context) error {
	if !s.needsUpload {
		return nil
	}
	for _, pc := range s.configurations {
		if err := pc.Upload(ctx); err != nil {
			return err
		}
	}
	s.needsUpload = false
	return nil
}

// Destroy releases the GPU buffers of every member configuration.
func (s *ProgramConfigurationSet) Destroy() {
	for _, pc := range s.configurations {
		pc.Destroy()
	}
}
