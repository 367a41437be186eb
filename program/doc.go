// Package program binds layer paint properties to GPU inputs.
//
// For every data-driven-capable paint property of a layer, a binder
// strategy is selected from the shape of the property's value:
//
//	constant               -> shader uniform
//	constant cross-faded   -> pattern uniforms from the image atlas
//	source expression      -> one vertex attribute buffer
//	composite expression   -> min/max attribute pairs plus a draw-time
//	                          interpolation factor
//	cross-faded composite  -> two parallel buffers, one selected per
//	                          draw by the cross-fade direction
//
// [ProgramConfiguration] aggregates the binders of one layer for one
// tile, tracks which vertex ranges belong to which feature id, and
// exposes batch populate/update/upload operations.
// [ProgramConfigurationSet] fans those out across the layers sharing
// a tile.
//
// Population runs feature by feature during tile parsing; feature
// state changes later rewrite only the recorded ranges of
// state-dependent binders. A configuration instance is single-owner
// and never mutated concurrently; see [ProgramConfiguration.Snapshot]
// for the worker-to-render handoff.
package program
