package larch

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// stubTexture is a root texture without GPU storage.
type stubTexture struct {
	w, h   float64
	scale  float64
	repeat bool
	smooth bool
}

func (s *stubTexture) Width() float64              { return s.w }
func (s *stubTexture) Height() float64             { return s.h }
func (s *stubTexture) NativeWidth() float64        { return s.w }
func (s *stubTexture) NativeHeight() float64       { return s.h }
func (s *stubTexture) FrameWidth() float64         { return s.w }
func (s *stubTexture) FrameHeight() float64        { return s.h }
func (s *stubTexture) Frame() *Rect                { return nil }
func (s *stubTexture) PremultipliedAlpha() bool    { return true }
func (s *stubTexture) MipMapping() bool            { return false }
func (s *stubTexture) Repeat() bool                { return s.repeat }
func (s *stubTexture) SetRepeat(repeat bool)       { s.repeat = repeat }
func (s *stubTexture) Smoothing() bool             { return s.smooth }
func (s *stubTexture) SetSmoothing(smoothing bool) { s.smooth = smoothing }
func (s *stubTexture) Name() string                { return "stub" }

func (s *stubTexture) Scale() float64 {
	if s.scale == 0 {
		return 1
	}
	return s.scale
}

func TestImageTextureScale(t *testing.T) {
	tex := NewImageTexture(ebiten.NewImage(100, 60), 2)
	assertNear(t, "Width", tex.Width(), 50)
	assertNear(t, "Height", tex.Height(), 30)
	assertNear(t, "NativeWidth", tex.NativeWidth(), 100)
	if !tex.PremultipliedAlpha() {
		t.Error("ebiten images are premultiplied")
	}

	def := NewImageTexture(ebiten.NewImage(10, 10), 0)
	assertNear(t, "default scale", def.Scale(), 1)
}

func TestSubTextureRegion(t *testing.T) {
	page := NewImageTexture(ebiten.NewImage(100, 100), 1)
	sub := NewSubTexture(page, &Rect{X: 10, Y: 10, Width: 50, Height: 50}, nil, false)

	assertNear(t, "Width", sub.Width(), 50)
	assertNear(t, "Height", sub.Height(), 50)
	assertNear(t, "NativeWidth", sub.NativeWidth(), 50)
	assertMatrix(t, "Transform", sub.Transform(), NewMatrix(0.5, 0, 0, 0.5, 0.1, 0.1))
	if sub.Frame() != nil {
		t.Error("Frame should be nil")
	}
	if RootTexture(sub) != page {
		t.Error("RootTexture should be the page")
	}
}

func TestSubTextureNilRegionCoversParent(t *testing.T) {
	parent := &stubTexture{w: 64, h: 32}
	sub := NewSubTexture(parent, nil, nil, false)
	assertNear(t, "Width", sub.Width(), 64)
	assertNear(t, "Height", sub.Height(), 32)
	assertMatrix(t, "Transform", sub.Transform(), IdentityMatrix())
}

func TestSubTextureRotated(t *testing.T) {
	parent := &stubTexture{w: 100, h: 100}
	sub := NewSubTexture(parent, &Rect{X: 0, Y: 0, Width: 20, Height: 40}, nil, true)

	// Rotated content swaps the reported dimensions.
	assertNear(t, "Width", sub.Width(), 40)
	assertNear(t, "Height", sub.Height(), 20)

	m := sub.Transform()
	assertVec(t, "TL", m.TransformPoint(0, 0), Vec2{0.2, 0})
	assertVec(t, "BR", m.TransformPoint(1, 1), Vec2{0, 0.4})
	assertVec(t, "TR", m.TransformPoint(1, 0), Vec2{0.2, 0.4})
}

func TestSubTextureChain(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	outer := NewSubTexture(page, &Rect{X: 50, Y: 50, Width: 50, Height: 50}, nil, false)
	inner := NewSubTexture(outer, &Rect{X: 0, Y: 0, Width: 25, Height: 25}, nil, false)

	if RootTexture(inner) != Texture(page) {
		t.Error("RootTexture should follow the chain to the page")
	}
	if inner.Parent() != Texture(outer) {
		t.Error("Parent should be the outer region")
	}
	m := TexCoordTransform(inner)
	assertVec(t, "TL", m.TransformPoint(0, 0), Vec2{0.5, 0.5})
	assertVec(t, "BR", m.TransformPoint(1, 1), Vec2{0.75, 0.75})

	assertMatrix(t, "root transform", TexCoordTransform(page), IdentityMatrix())
	if RootTexture(nil) != nil {
		t.Error("RootTexture(nil) should be nil")
	}
}

func TestSubTextureForwardsSampling(t *testing.T) {
	page := &stubTexture{w: 8, h: 8}
	sub := NewSubTexture(page, nil, nil, false)
	sub.SetRepeat(true)
	sub.SetSmoothing(true)
	if !page.repeat || !page.smooth {
		t.Error("sampling flags should be set on the parent")
	}
}

func TestAdjustTexCoords(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	sub := NewSubTexture(page, &Rect{X: 10, Y: 20, Width: 30, Height: 40}, nil, false)
	vd := NewQuadVertexData(30, 40, ColorWhite)
	AdjustTexCoords(sub, vd, 0, 4)
	assertVec(t, "TL", vd.Vertices[0].TexCoords, Vec2{0.1, 0.2})
	assertVec(t, "BR", vd.Vertices[3].TexCoords, Vec2{0.4, 0.6})

	// Root textures leave coordinates alone.
	plain := NewQuadVertexData(1, 1, ColorWhite)
	AdjustTexCoords(page, plain, 0, 4)
	assertVec(t, "BR", plain.Vertices[3].TexCoords, Vec2{1, 1})
}

func TestAdjustPositionsWithFrame(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	sub := NewSubTexture(page, &Rect{Width: 20, Height: 20}, &Rect{X: -5, Y: -5, Width: 30, Height: 30}, false)
	assertNear(t, "FrameWidth", sub.FrameWidth(), 30)

	vd := NewQuadVertexData(sub.FrameWidth(), sub.FrameHeight(), ColorWhite)
	if err := AdjustPositions(sub, vd, 0, 4); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "TL", vd.Vertices[0].Position, Vec2{5, 5})
	assertVec(t, "TR", vd.Vertices[1].Position, Vec2{25, 5})
	assertVec(t, "BL", vd.Vertices[2].Position, Vec2{5, 25})
	assertVec(t, "BR", vd.Vertices[3].Position, Vec2{25, 25})
}

func TestAdjustPositionsWrongVertexCount(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	sub := NewSubTexture(page, &Rect{Width: 20, Height: 20}, &Rect{X: -1, Y: -1, Width: 22, Height: 22}, false)
	vd := NewQuadVertexData(22, 22, ColorWhite)
	err := AdjustPositions(sub, vd, 0, 3)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("err = %v, want ErrInvalidGeometry", err)
	}
}

func TestAdjustPositionsWithoutFrame(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	vd := NewQuadVertexData(10, 10, ColorWhite)
	if err := AdjustPositions(page, vd, 0, 3); err != nil {
		t.Errorf("no frame should be a no-op, got %v", err)
	}
	assertVec(t, "BR", vd.Vertices[3].Position, Vec2{10, 10})
}

func TestImageNodeUsesFrame(t *testing.T) {
	page := &stubTexture{w: 100, h: 100}
	sub := NewSubTexture(page, &Rect{Width: 20, Height: 10}, &Rect{X: -2, Y: -4, Width: 24, Height: 20}, false)
	img := NewImage("img", sub)

	if w, h := img.Size(); w != 24 || h != 20 {
		t.Errorf("Size = (%v, %v), want (24, 20)", w, h)
	}
	r, err := img.Bounds(img)
	if err != nil {
		t.Fatal(err)
	}
	assertRect(t, "content", r, Rect{X: 2, Y: 4, Width: 20, Height: 10})
}

func TestSetTextureRebuildsGeometry(t *testing.T) {
	img := NewImage("img", &stubTexture{w: 10, h: 10})
	if r, _ := img.Bounds(img); r.Width != 10 {
		t.Fatalf("Width = %v, want 10", r.Width)
	}
	img.SetTexture(&stubTexture{w: 40, h: 10})
	if r, _ := img.Bounds(img); r.Width != 40 {
		t.Errorf("Width after SetTexture = %v, want 40", r.Width)
	}
}
