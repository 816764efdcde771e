package larch

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend submits batches to an *ebiten.Image with one DrawTriangles32
// (or DrawTrianglesShader32 for styled batches) call per batch.
type EbitenBackend struct {
	target *ebiten.Image
	verts  []ebiten.Vertex
	draws  int
}

// NewEbitenBackend creates a backend drawing into target.
func NewEbitenBackend(target *ebiten.Image) *EbitenBackend {
	return &EbitenBackend{target: target}
}

// SetTarget changes the destination image. Run calls it once per frame with
// the screen image.
func (e *EbitenBackend) SetTarget(target *ebiten.Image) {
	e.target = target
}

// Target returns the destination image.
func (e *EbitenBackend) Target() *ebiten.Image {
	return e.target
}

// Draws returns the total number of draw calls issued so far.
func (e *EbitenBackend) Draws() int {
	return e.draws
}

// Submit draws b into the target.
func (e *EbitenBackend) Submit(b *Batch) error {
	if e.target == nil {
		return fmt.Errorf("larch: ebiten backend has no target")
	}

	src, texW, texH, err := sourceImage(b.Texture)
	if err != nil {
		return err
	}
	e.verts = b.ebitenVertices(e.verts, texW, texH)

	if b.Style != nil && b.Style.Shader != nil {
		var op ebiten.DrawTrianglesShaderOptions
		op.Blend = b.BlendMode.EbitenBlend()
		op.Images[0] = src
		op.Uniforms = b.Style.Uniforms
		e.target.DrawTrianglesShader32(e.verts, b.Indices, b.Style.Shader, &op)
		e.draws++
		return nil
	}

	var op ebiten.DrawTrianglesOptions
	op.Blend = b.BlendMode.EbitenBlend()
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	if b.Texture != nil {
		if b.Texture.Smoothing() {
			op.Filter = ebiten.FilterLinear
		} else {
			op.Filter = ebiten.FilterNearest
		}
		if b.Texture.Repeat() {
			op.Address = ebiten.AddressRepeat
		}
	}
	e.target.DrawTriangles32(e.verts, b.Indices, src, &op)
	e.draws++
	return nil
}

// sourceImage resolves the image and pixel size a batch samples from.
// Untextured batches sample a single white pixel at its center.
func sourceImage(t Texture) (*ebiten.Image, float64, float64, error) {
	if t == nil {
		return ensureWhitePixel(), 0.5, 0.5, nil
	}
	is, ok := t.(ImageSource)
	if !ok || is.Image() == nil {
		return nil, 0, 0, fmt.Errorf("larch: texture %q has no ebiten image", t.Name())
	}
	return is.Image(), t.NativeWidth(), t.NativeHeight(), nil
}

// --- White pixel singleton (single-threaded, no sync.Once) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily created 1x1 white image used for
// untextured geometry.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
