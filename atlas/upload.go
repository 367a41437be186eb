// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package atlas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Upload errors.
var (
	// ErrInvalidDrawContext is returned when the draw context exposes
	// no gpucontext.TextureCreator.
	ErrInvalidDrawContext = errors.New("atlas: dc exposes no gpucontext.TextureCreator")

	// ErrNoImage is returned when uploading an atlas that was never
	// built.
	ErrNoImage = errors.New("atlas: no image to upload")
)

// Texture pairs the uploaded GPU texture with the atlas geometry the
// pattern binders need at draw time.
type Texture struct {
	// Handle is the backend texture handle.
	Handle gpucontext.Texture

	// Width, Height are the atlas dimensions in pixels, bound as the
	// u_texsize uniform.
	Width, Height int

	format gputypes.TextureFormat
	raw    any
}

// Format returns the texture format the atlas was uploaded as.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.format
}

// Destroy releases the GPU texture. Safe to call more than once.
func (t *Texture) Destroy() {
	if destroyer, ok := t.raw.(interface{ Destroy() }); ok {
		destroyer.Destroy()
	}
	t.raw = nil
	t.Handle = nil
}

// Upload creates a GPU texture holding the atlas bitmap through the
// draw context's texture creator. The atlas bitmap is straight-alpha
// RGBA; it is uploaded as RGBA8.
func (a *Atlas) Upload(dc gpucontext.TextureDrawer) (*Texture, error) {
	if a.Image == nil {
		return nil, ErrNoImage
	}
	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidDrawContext
	}

	w, h := a.Size()
	raw, err := creator.NewTextureFromRGBA(w, h, a.Image.Pix)
	if err != nil {
		return nil, fmt.Errorf("atlas: NewTextureFromRGBA failed: %w", err)
	}

	tex := &Texture{
		Width:  w,
		Height: h,
		format: gputypes.TextureFormatRGBA8Unorm,
		raw:    raw,
	}
	if gpuTex, ok := raw.(gpucontext.Texture); ok {
		tex.Handle = gpuTex
	}
	return tex, nil
}

// Update re-uploads the atlas bitmap into an existing texture, if the
// backend supports in-place updates. It returns false when the
// texture must be recreated instead.
func (a *Atlas) Update(t *Texture) (bool, error) {
	if a.Image == nil {
		return false, ErrNoImage
	}
	w, h := a.Size()
	if w != t.Width || h != t.Height {
		return false, nil
	}
	updater, ok := t.raw.(gpucontext.TextureUpdater)
	if !ok {
		return false, nil
	}
	if err := updater.UpdateData(a.Image.Pix); err != nil {
		return false, fmt.Errorf("atlas: texture update failed: %w", err)
	}
	return true, nil
}
