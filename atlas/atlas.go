// Package atlas provides pattern image positions within a packed
// image atlas, a minimal shelf-packing builder, and GPU texture
// upload.
//
// Atlas packing policy is not owned by this module; renderers with
// their own packer only need to produce a [PositionMap]. The
// [Builder] exists so the pattern pipeline can be exercised end to
// end without an external packer.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// Padding is the pixel padding added around each packed image. The
// padding keeps bilinear sampling of one pattern from bleeding into
// its neighbors.
const Padding = 1

// ImagePosition locates one named image inside the atlas bitmap.
type ImagePosition struct {
	// Rect is the padded rectangle occupied by the image, in atlas
	// pixels. The image content starts Padding pixels inside it.
	Rect image.Rectangle

	// PixelRatio is the source image's device pixel ratio.
	PixelRatio float64
}

// TL returns the top-left corner of the image content, excluding
// padding.
func (p ImagePosition) TL() [2]float32 {
	return [2]float32{
		float32(p.Rect.Min.X + Padding),
		float32(p.Rect.Min.Y + Padding),
	}
}

// BR returns the bottom-right corner of the image content, excluding
// padding.
func (p ImagePosition) BR() [2]float32 {
	return [2]float32{
		float32(p.Rect.Max.X - Padding),
		float32(p.Rect.Max.Y - Padding),
	}
}

// DisplaySize returns the image content size in CSS pixels.
func (p ImagePosition) DisplaySize() [2]float32 {
	tl, br := p.TL(), p.BR()
	return [2]float32{
		(br[0] - tl[0]) / float32(p.PixelRatio),
		(br[1] - tl[1]) / float32(p.PixelRatio),
	}
}

// PositionMap maps pattern image names to their atlas positions.
type PositionMap map[string]ImagePosition

// Atlas is a packed image atlas: one RGBA bitmap plus the positions
// of every packed image.
type Atlas struct {
	// Image is the packed atlas bitmap.
	Image *image.RGBA

	// Positions locates each packed image by name.
	Positions PositionMap
}

// Size returns the atlas bitmap dimensions in pixels.
func (a *Atlas) Size() (w, h int) {
	b := a.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Builder shelf-packs named images into a single RGBA atlas.
type Builder struct {
	width  int
	images []builderEntry
}

type builderEntry struct {
	name       string
	img        image.Image
	pixelRatio float64
}

// DefaultWidth is the atlas width used when none is configured.
const DefaultWidth = 512

// NewBuilder creates an atlas builder with the given fixed atlas
// width in pixels. A width of 0 selects DefaultWidth.
func NewBuilder(width int) *Builder {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Builder{width: width}
}

// Add registers a named image for packing. pixelRatio values of 0
// default to 1. Adding the same name twice replaces the earlier
// image.
func (b *Builder) Add(name string, img image.Image, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	for i := range b.images {
		if b.images[i].name == name {
			b.images[i] = builderEntry{name, img, pixelRatio}
			return
		}
	}
	b.images = append(b.images, builderEntry{name, img, pixelRatio})
}

// ErrImageTooWide is returned when a source image, plus padding, does
// not fit the configured atlas width.
var ErrImageTooWide = errors.New("atlas: image exceeds atlas width")

// Build packs all registered images into an atlas. Images are placed
// on shelves in order of decreasing height; each padded rectangle is
// disjoint from every other.
func (b *Builder) Build() (*Atlas, error) {
	entries := make([]builderEntry, len(b.images))
	copy(entries, b.images)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].img.Bounds().Dy() > entries[j].img.Bounds().Dy()
	})

	positions := make(PositionMap, len(entries))
	x, y := 0, 0
	shelfHeight := 0
	for _, e := range entries {
		bounds := e.img.Bounds()
		w := bounds.Dx() + 2*Padding
		h := bounds.Dy() + 2*Padding
		if w > b.width {
			return nil, fmt.Errorf("%w: %q is %dpx, atlas is %dpx",
				ErrImageTooWide, e.name, bounds.Dx(), b.width)
		}
		if x+w > b.width {
			x = 0
			y += shelfHeight
			shelfHeight = 0
		}
		positions[e.name] = ImagePosition{
			Rect:       image.Rect(x, y, x+w, y+h),
			PixelRatio: e.pixelRatio,
		}
		x += w
		if h > shelfHeight {
			shelfHeight = h
		}
	}

	height := y + shelfHeight
	if height == 0 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.width, height))
	for _, e := range entries {
		pos := positions[e.name]
		dp := image.Point{X: pos.Rect.Min.X + Padding, Y: pos.Rect.Min.Y + Padding}
		xdraw.Copy(dst, dp, e.img, e.img.Bounds(), xdraw.Src, nil)
	}

	return &Atlas{Image: dst, Positions: positions}, nil
}
