package larch

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is an image that geometry can sample from. Sizes are in points
// (pixels divided by Scale). Implementations are either root textures that
// own GPU storage, or views such as SubTexture that remap coordinates into a
// parent without copying pixels.
//
// The batch compiler compares textures with ==, so implementations must be
// comparable; pointer types such as *ImageTexture and *SubTexture are.
type Texture interface {
	// Width and Height are the size of the texture content in points.
	Width() float64
	Height() float64
	// NativeWidth and NativeHeight are the size in pixels.
	NativeWidth() float64
	NativeHeight() float64
	// FrameWidth and FrameHeight are the nominal size used when the content
	// is trimmed; equal to Width and Height when there is no frame.
	FrameWidth() float64
	FrameHeight() float64
	// Frame places trimmed content inside its nominal rectangle. Nil when the
	// texture is not trimmed.
	Frame() *Rect
	Scale() float64
	PremultipliedAlpha() bool
	MipMapping() bool
	Repeat() bool
	SetRepeat(repeat bool)
	Smoothing() bool
	SetSmoothing(smoothing bool)
	// Name identifies the texture in diagnostics.
	Name() string
}

// ImageSource is implemented by root textures backed by an ebiten.Image.
type ImageSource interface {
	Image() *ebiten.Image
}

// --- ImageTexture ---

var textureIDCounter uint32

// ImageTexture is a root texture owning an *ebiten.Image.
type ImageTexture struct {
	id            uint32
	name          string
	image         *ebiten.Image
	scale         float64
	premultiplied bool
	mipMapping    bool
	repeat        bool
	smoothing     bool
}

// NewImageTexture wraps img as a texture. scale is the content scale factor
// (2 for a @2x asset); values <= 0 mean 1. Ebitengine images store
// premultiplied alpha.
func NewImageTexture(img *ebiten.Image, scale float64) *ImageTexture {
	if scale <= 0 {
		scale = 1
	}
	textureIDCounter++
	return &ImageTexture{
		id:            textureIDCounter,
		name:          fmt.Sprintf("texture-%d", textureIDCounter),
		image:         img,
		scale:         scale,
		premultiplied: true,
		smoothing:     true,
	}
}

// NewEmptyTexture allocates a blank width × height pixel texture.
func NewEmptyTexture(width, height int) *ImageTexture {
	return NewImageTexture(ebiten.NewImage(width, height), 1)
}

// ID returns the texture's unique handle.
func (t *ImageTexture) ID() uint32 { return t.id }

// Image returns the underlying GPU image.
func (t *ImageTexture) Image() *ebiten.Image { return t.image }

// SetName renames the texture.
func (t *ImageTexture) SetName(name string) { t.name = name }

// SetMipMapping records whether the texture was uploaded with mipmaps.
func (t *ImageTexture) SetMipMapping(enabled bool) { t.mipMapping = enabled }

func (t *ImageTexture) Name() string { return t.name }

func (t *ImageTexture) NativeWidth() float64 {
	if t.image == nil {
		return 0
	}
	return float64(t.image.Bounds().Dx())
}

func (t *ImageTexture) NativeHeight() float64 {
	if t.image == nil {
		return 0
	}
	return float64(t.image.Bounds().Dy())
}

func (t *ImageTexture) Width() float64              { return t.NativeWidth() / t.scale }
func (t *ImageTexture) Height() float64             { return t.NativeHeight() / t.scale }
func (t *ImageTexture) FrameWidth() float64         { return t.Width() }
func (t *ImageTexture) FrameHeight() float64        { return t.Height() }
func (t *ImageTexture) Frame() *Rect                { return nil }
func (t *ImageTexture) Scale() float64              { return t.scale }
func (t *ImageTexture) PremultipliedAlpha() bool    { return t.premultiplied }
func (t *ImageTexture) MipMapping() bool            { return t.mipMapping }
func (t *ImageTexture) Repeat() bool                { return t.repeat }
func (t *ImageTexture) SetRepeat(repeat bool)       { t.repeat = repeat }
func (t *ImageTexture) Smoothing() bool             { return t.smoothing }
func (t *ImageTexture) SetSmoothing(smoothing bool) { t.smoothing = smoothing }

// --- SubTexture ---

// SubTexture is a region of a parent texture. It shares the parent's pixels;
// only texture coordinates are remapped. The parent must outlive every
// region derived from it.
type SubTexture struct {
	parent  Texture
	region  Rect // in the parent's points; the stored (possibly rotated) rect
	frame   *Rect
	rotated bool
	name    string

	// transform maps the region's [0,1]² coordinates into the parent's.
	transform Matrix
}

// NewSubTexture creates a view of region within parent. A nil region covers
// the whole parent. frame, when non-nil, is the nominal untrimmed rectangle
// relative to the region (X and Y are usually <= 0). rotated marks content
// stored turned 90° clockwise inside region.
func NewSubTexture(parent Texture, region *Rect, frame *Rect, rotated bool) *SubTexture {
	s := &SubTexture{parent: parent, rotated: rotated}
	if region != nil {
		s.region = *region
	} else {
		s.region = Rect{Width: parent.Width(), Height: parent.Height()}
	}
	if frame != nil {
		f := *frame
		s.frame = &f
	}
	s.name = parent.Name()

	m := IdentityMatrix()
	if rotated {
		m.Translate(0, -1)
		m.Rotate(math.Pi / 2)
	}
	m.Scale(s.region.Width/parent.Width(), s.region.Height/parent.Height())
	m.Translate(s.region.X/parent.Width(), s.region.Y/parent.Height())
	s.transform = m
	return s
}

// Parent returns the texture this region views.
func (s *SubTexture) Parent() Texture { return s.parent }

// Region returns the viewed rectangle in the parent's points.
func (s *SubTexture) Region() Rect { return s.region }

// Rotated reports whether the content is stored rotated in the parent.
func (s *SubTexture) Rotated() bool { return s.rotated }

// Transform returns the matrix from this region's normalized coordinates to
// the parent's normalized coordinates.
func (s *SubTexture) Transform() Matrix { return s.transform }

// SetName renames the region.
func (s *SubTexture) SetName(name string) { s.name = name }

func (s *SubTexture) Name() string { return s.name }

func (s *SubTexture) Width() float64 {
	if s.rotated {
		return s.region.Height
	}
	return s.region.Width
}

func (s *SubTexture) Height() float64 {
	if s.rotated {
		return s.region.Width
	}
	return s.region.Height
}

func (s *SubTexture) FrameWidth() float64 {
	if s.frame != nil {
		return s.frame.Width
	}
	return s.Width()
}

func (s *SubTexture) FrameHeight() float64 {
	if s.frame != nil {
		return s.frame.Height
	}
	return s.Height()
}

func (s *SubTexture) Frame() *Rect {
	if s.frame == nil {
		return nil
	}
	f := *s.frame
	return &f
}

func (s *SubTexture) NativeWidth() float64        { return s.Width() * s.Scale() }
func (s *SubTexture) NativeHeight() float64       { return s.Height() * s.Scale() }
func (s *SubTexture) Scale() float64              { return s.parent.Scale() }
func (s *SubTexture) PremultipliedAlpha() bool    { return s.parent.PremultipliedAlpha() }
func (s *SubTexture) MipMapping() bool            { return s.parent.MipMapping() }
func (s *SubTexture) Repeat() bool                { return s.parent.Repeat() }
func (s *SubTexture) SetRepeat(repeat bool)       { s.parent.SetRepeat(repeat) }
func (s *SubTexture) Smoothing() bool             { return s.parent.Smoothing() }
func (s *SubTexture) SetSmoothing(smoothing bool) { s.parent.SetSmoothing(smoothing) }

// --- Chain helpers ---

// RootTexture follows SubTexture parents to the texture that owns storage.
// Nil in, nil out.
func RootTexture(t Texture) Texture {
	for {
		sub, ok := t.(*SubTexture)
		if !ok {
			return t
		}
		t = sub.parent
	}
}

// TexCoordTransform composes every region transform from t up to its root
// texture, mapping t's normalized coordinates to the root's.
func TexCoordTransform(t Texture) Matrix {
	m := IdentityMatrix()
	for {
		sub, ok := t.(*SubTexture)
		if !ok {
			return m
		}
		m.Append(sub.transform)
		t = sub.parent
	}
}

// AdjustTexCoords remaps the texture coordinates of count vertices starting
// at from through the full region chain of t.
func AdjustTexCoords(t Texture, vd *VertexData, from, count int) {
	if _, ok := t.(*SubTexture); !ok {
		return
	}
	m := AcquireMatrix()
	*m = TexCoordTransform(t)
	vd.TransformTexCoords(*m, from, count)
	ReleaseMatrix(m)
}

// AdjustPositions moves the corners of a quad so trimmed content sits at its
// place inside the nominal frame. Without a frame it does nothing. With a
// frame, count must be exactly 4 (TL, TR, BL, BR) or ErrInvalidGeometry is
// returned.
func AdjustPositions(t Texture, vd *VertexData, from, count int) error {
	frame := t.Frame()
	if frame == nil {
		return nil
	}
	if count != 4 {
		return fmt.Errorf("larch: frame of %q applied to %d vertices: %w", t.Name(), count, ErrInvalidGeometry)
	}
	if from < 0 || from+count > len(vd.Vertices) {
		return fmt.Errorf("larch: frame of %q applied past %d vertices: %w", t.Name(), len(vd.Vertices), ErrInvalidGeometry)
	}
	deltaRight := frame.Width + frame.X - t.Width()
	deltaBottom := frame.Height + frame.Y - t.Height()
	vd.TranslateVertex(from, -frame.X, -frame.Y)
	vd.TranslateVertex(from+1, -deltaRight, -frame.Y)
	vd.TranslateVertex(from+2, -frame.X, -deltaBottom)
	vd.TranslateVertex(from+3, -deltaRight, -deltaBottom)
	return nil
}
