package larch

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Style is a material identity. Geometry with different styles is never
// merged into one batch; identity is the pointer, so share one *Style
// between nodes that should batch together. A style may carry a Kage shader
// that the ebiten backend uses instead of the default textured-triangle
// pipeline. Shaders sample the source image themselves, so the texture's
// Smoothing and Repeat settings do not apply to styled batches.
type Style struct {
	Name     string
	Shader   *ebiten.Shader
	Uniforms map[string]any

	matrix [20]float32 // backing store for color-matrix styles
}

// SetUniform sets a shader uniform. Changes apply from the next frame.
func (s *Style) SetUniform(name string, v any) {
	if s.Uniforms == nil {
		s.Uniforms = make(map[string]any)
	}
	s.Uniforms[name] = v
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha; shaders un-premultiply before processing
// and re-premultiply output where needed.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Apply 4x5 color matrix (row-major, offset in elements 4,9,14,19).
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	// Clamp, re-premultiply, then apply the premultiplied vertex tint.
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a) * color
}
`

// --- Lazy shader compilation (single-threaded, no sync.Once) ---

var colorMatrixShader *ebiten.Shader

func ensureColorMatrixShader() (*ebiten.Shader, error) {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			return nil, fmt.Errorf("larch: compile color matrix shader: %w", err)
		}
		colorMatrixShader = s
	}
	return colorMatrixShader, nil
}

// NewColorMatrixStyle creates a style whose geometry is recolored by a 4x5
// color matrix in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
func NewColorMatrixStyle(name string, m [20]float64) (*Style, error) {
	shader, err := ensureColorMatrixShader()
	if err != nil {
		return nil, err
	}
	s := &Style{Name: name, Shader: shader}
	s.SetColorMatrix(m)
	return s, nil
}

// SetColorMatrix replaces the matrix of a color-matrix style.
func (s *Style) SetColorMatrix(m [20]float64) {
	for i, v := range m {
		s.matrix[i] = float32(v)
	}
	s.SetUniform("Matrix", s.matrix[:])
}

// IdentityColorMatrix leaves colors unchanged.
func IdentityColorMatrix() [20]float64 {
	return [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// BrightnessColorMatrix adjusts brightness by the given offset [-1, 1].
func BrightnessColorMatrix(b float64) [20]float64 {
	return [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// ContrastColorMatrix adjusts contrast. c=1 is normal, 0=gray, >1 is higher.
func ContrastColorMatrix(c float64) [20]float64 {
	t := (1.0 - c) / 2.0
	return [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

// SaturationColorMatrix adjusts saturation. s=1 is normal, 0=grayscale.
func SaturationColorMatrix(s float64) [20]float64 {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	return [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}
