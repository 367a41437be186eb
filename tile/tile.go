// Package tile provides tile identity types shared by the paint
// binding machinery.
package tile

import "fmt"

// ID represents tile coordinates in the XYZ scheme (tiled web map)
// plus a world copy offset for maps that wrap horizontally.
type ID struct {
	// Z is the zoom level.
	Z uint8

	// X, Y are the canonical tile coordinates at zoom Z.
	X, Y uint32

	// Wrap is the world copy the tile is rendered in: 0 for the
	// primary world, negative west of it, positive east of it.
	Wrap int32
}

// Valid reports whether the canonical coordinates are inside the tile
// pyramid.
func (id ID) Valid() bool {
	return id.Z < 32 && id.X < (1<<id.Z) && id.Y < (1<<id.Z)
}

// NumTiles returns the number of tiles along one axis at the id's
// zoom level.
func (id ID) NumTiles() uint32 {
	return 1 << id.Z
}

// PixelOrigin returns the pixel-space origin of the tile for the
// given tile size, with the wrap offset folded into X. Pattern
// binders split these into 16-bit halves for shader consumption.
func (id ID) PixelOrigin(tileSize float64) (x, y int64) {
	n := int64(id.NumTiles())
	x = int64(tileSize * float64(int64(id.X)+int64(id.Wrap)*n))
	y = int64(tileSize * float64(id.Y))
	return x, y
}

// String returns the id in z/x/y form, with a wrap suffix when the
// tile is outside the primary world.
func (id ID) String() string {
	if id.Wrap != 0 {
		return fmt.Sprintf("%d/%d/%d(w%+d)", id.Z, id.X, id.Y, id.Wrap)
	}
	return fmt.Sprintf("%d/%d/%d", id.Z, id.X, id.Y)
}
