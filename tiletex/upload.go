// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tiletex

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/gpucontext"
)

var (
	// ErrNilCreator is returned when a CreatorUploader has no creator.
	ErrNilCreator = errors.New("tiletex: nil texture creator")

	// ErrNilUploader is returned by NewLoader without an uploader.
	ErrNilUploader = errors.New("tiletex: nil uploader")

	// ErrNoImage is returned when a tile has no image to upload.
	ErrNoImage = errors.New("tiletex: tile has no image")
)

// Uploader turns a tile image into a texture.
type Uploader interface {
	Upload(img image.Image, gutter int) (Entry, error)
}

// SoftwareUploader keeps textures in memory as *image.RGBA handles.
type SoftwareUploader struct{}

// Upload copies img into a tightly packed RGBA image.
func (SoftwareUploader) Upload(img image.Image, gutter int) (Entry, error) {
	if img == nil {
		return Entry{}, ErrNoImage
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	return Entry{Handle: rgba, Width: b.Dx(), Height: b.Dy(), Gutter: gutter}, nil
}

// CreatorUploader uploads through a gpucontext.TextureCreator.
type CreatorUploader struct {
	creator gpucontext.TextureCreator
}

// NewCreatorUploader wraps creator.
func NewCreatorUploader(creator gpucontext.TextureCreator) (*CreatorUploader, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &CreatorUploader{creator: creator}, nil
}

// Upload creates a GPU texture from the RGBA pixels of img. The entry keeps
// the pixels alongside the handle.
func (u *CreatorUploader) Upload(img image.Image, gutter int) (Entry, error) {
	if img == nil {
		return Entry{}, ErrNoImage
	}
	rgba := toRGBA(img)
	b := rgba.Bounds()
	tex, err := u.creator.NewTextureFromRGBA(b.Dx(), b.Dy(), rgba.Pix)
	if err != nil {
		return Entry{}, fmt.Errorf("tiletex: NewTextureFromRGBA failed: %w", err)
	}
	return Entry{Handle: tex, Pixels: rgba, Width: b.Dx(), Height: b.Dy(), Gutter: gutter}, nil
}

// toRGBA returns img as an RGBA image with origin (0, 0) and stride 4*w.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		out := &image.RGBA{Pix: make([]byte, len(rgba.Pix)), Stride: rgba.Stride, Rect: rgba.Rect}
		copy(out.Pix, rgba.Pix)
		return out
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
