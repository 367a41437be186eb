// Package tilepaint translates a map layer's declarative paint
// properties into the inputs a GPU rendering pipeline consumes.
//
// # Overview
//
// A style layer declares paint properties (color, width, opacity,
// pattern). Each property may be a fixed value, a per-feature
// data-driven value, or a zoom-interpolated composite value. tilepaint
// selects a binding strategy per property and produces either shader
// uniform values or per-vertex attribute buffers, incrementally
// populated as tile geometry is parsed and partially re-populated when
// feature state (hover, selection) changes.
//
// # Packages
//
//   - tilepaint (this package): the style-facing data model — colors,
//     evaluated values, property values, layers, features, and the
//     expression interfaces through which evaluation is consumed.
//   - tile: tile identity (canonical coordinates, wrap, zoom).
//   - atlas: pattern image positions and a minimal atlas builder.
//   - gpucore: the narrow graphics-context surface (buffers, uniforms).
//   - program: binders, ProgramConfiguration, ProgramConfigurationSet.
//   - shader: shader variant assembly and compilation cache.
//   - backend/gogpu, backend/wgpu: graphics-context adapters.
//
// # Quick Start
//
//	layer := &tilepaint.Layer{
//	    ID:   "roads",
//	    Type: "line",
//	    Paint: map[string]tilepaint.PropertyValue{
//	        "line-color": tilepaint.ConstantProperty(tilepaint.ColorValue(tilepaint.Black)),
//	        "line-width": tilepaint.SourceProperty(widthExpr),
//	    },
//	}
//
//	pc := program.NewDynamic(layer, zoom, nil)
//	for i, feature := range features {
//	    pc.PopulatePaintArrays(vertexCount(i), feature, i, positions)
//	}
//	pc.Upload(ctx)
//
// Expression evaluation, vector-tile parsing, and atlas packing
// policy are external collaborators; tilepaint consumes them through
// the interfaces declared here.
package tilepaint
