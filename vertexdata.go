package larch

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Vertex is a single mesh vertex. Position is in the owning node's local
// space; TexCoords are normalized to the node's texture ([0, 1] for the full
// texture or region). Color is a straight-alpha tint and Alpha an extra
// opacity multiplier.
type Vertex struct {
	Position  Vec2
	TexCoords Vec2
	Color     Color
	Alpha     float64
}

// VertexData is an ordered vertex list plus a triangle index list. A
// VertexData is owned by exactly one node or batch; merging copies vertices.
type VertexData struct {
	Vertices []Vertex
	Indices  []uint32
}

// NewQuadVertexData returns the four-vertex, two-triangle quad covering
// (0, 0)-(width, height). Vertex order is TL, TR, BL, BR.
func NewQuadVertexData(width, height float64, c Color) *VertexData {
	vd := &VertexData{}
	vd.SetQuad(width, height, c)
	return vd
}

// SetQuad replaces the contents with a single quad, reusing storage.
func (vd *VertexData) SetQuad(width, height float64, c Color) {
	vd.Reset()
	vd.AppendQuad(0, 0, width, height, c)
}

// AppendQuad adds a quad covering (x, y)-(x+width, y+height) after the
// existing geometry, with full-range texture coordinates.
func (vd *VertexData) AppendQuad(x, y, width, height float64, c Color) {
	base := uint32(len(vd.Vertices))
	vd.Vertices = append(vd.Vertices,
		Vertex{Position: Vec2{x, y}, TexCoords: Vec2{0, 0}, Color: c, Alpha: 1},
		Vertex{Position: Vec2{x + width, y}, TexCoords: Vec2{1, 0}, Color: c, Alpha: 1},
		Vertex{Position: Vec2{x, y + height}, TexCoords: Vec2{0, 1}, Color: c, Alpha: 1},
		Vertex{Position: Vec2{x + width, y + height}, TexCoords: Vec2{1, 1}, Color: c, Alpha: 1},
	)
	// Two triangles: TL-TR-BL, TR-BR-BL
	vd.Indices = append(vd.Indices,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// NumVertices returns the vertex count.
func (vd *VertexData) NumVertices() int {
	return len(vd.Vertices)
}

// NumTriangles returns the triangle count.
func (vd *VertexData) NumTriangles() int {
	return len(vd.Indices) / 3
}

// Reset empties the buffers while keeping their capacity.
func (vd *VertexData) Reset() {
	vd.Vertices = vd.Vertices[:0]
	vd.Indices = vd.Indices[:0]
}

// Clone returns a deep copy.
func (vd *VertexData) Clone() *VertexData {
	return &VertexData{
		Vertices: append([]Vertex(nil), vd.Vertices...),
		Indices:  append([]uint32(nil), vd.Indices...),
	}
}

// Validate checks that every index refers to an existing vertex and that the
// index count describes whole triangles.
func (vd *VertexData) Validate() error {
	if len(vd.Indices)%3 != 0 {
		return fmt.Errorf("larch: %d indices do not form whole triangles: %w", len(vd.Indices), ErrInvalidGeometry)
	}
	n := uint32(len(vd.Vertices))
	for i, idx := range vd.Indices {
		if idx >= n {
			return fmt.Errorf("larch: index %d (=%d) exceeds %d vertices: %w", i, idx, n, ErrInvalidGeometry)
		}
	}
	return nil
}

// TranslateVertex moves the position of vertex i by (dx, dy).
func (vd *VertexData) TranslateVertex(i int, dx, dy float64) {
	vd.Vertices[i].Position.X += dx
	vd.Vertices[i].Position.Y += dy
}

// TransformPositions applies m to the positions of count vertices starting at from.
func (vd *VertexData) TransformPositions(m Matrix, from, count int) {
	for i := from; i < from+count; i++ {
		p := &vd.Vertices[i].Position
		*p = m.TransformPoint(p.X, p.Y)
	}
}

// TransformTexCoords applies m to the texture coordinates of count vertices
// starting at from.
func (vd *VertexData) TransformTexCoords(m Matrix, from, count int) {
	for i := from; i < from+count; i++ {
		uv := &vd.Vertices[i].TexCoords
		*uv = m.TransformPoint(uv.X, uv.Y)
	}
}

// SetColor sets the tint of every vertex.
func (vd *VertexData) SetColor(c Color) {
	for i := range vd.Vertices {
		vd.Vertices[i].Color = c
	}
}

// Append copies src's vertices into vd, transforming positions by m and
// multiplying colors by tint and alpha. Indices are rebased.
//
// Matrix layout: newX = a*x + c*y + tx, newY = b*x + d*y + ty
func (vd *VertexData) Append(src *VertexData, m Matrix, tint Color, alpha float64) {
	base := uint32(len(vd.Vertices))
	a, b, c, d, tx, ty := m.A, m.B, m.C, m.D, m.Tx, m.Ty

	for i := range src.Vertices {
		s := &src.Vertices[i]
		x, y := s.Position.X, s.Position.Y
		vd.Vertices = append(vd.Vertices, Vertex{
			Position:  Vec2{a*x + c*y + tx, b*x + d*y + ty},
			TexCoords: s.TexCoords,
			Color:     s.Color.Mul(tint),
			Alpha:     s.Alpha * alpha,
		})
	}
	for _, idx := range src.Indices {
		vd.Indices = append(vd.Indices, base+idx)
	}
}

// Bounds returns the axis-aligned bounds of the positions after applying m.
func (vd *VertexData) Bounds(m Matrix) Rect {
	if len(vd.Vertices) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range vd.Vertices {
		p := vd.Vertices[i].Position
		q := m.TransformPoint(p.X, p.Y)
		minX = math.Min(minX, q.X)
		minY = math.Min(minY, q.Y)
		maxX = math.Max(maxX, q.X)
		maxY = math.Max(maxY, q.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ebitenVertices writes vd into dst as ebiten vertices. Texture coordinates
// are scaled from normalized to source pixels by (texW, texH); colors are
// premultiplied.
func (vd *VertexData) ebitenVertices(dst []ebiten.Vertex, texW, texH float64) []ebiten.Vertex {
	dst = dst[:0]
	for i := range vd.Vertices {
		v := &vd.Vertices[i]
		a := float32(v.Color.A * v.Alpha)
		dst = append(dst, ebiten.Vertex{
			DstX:   float32(v.Position.X),
			DstY:   float32(v.Position.Y),
			SrcX:   float32(v.TexCoords.X * texW),
			SrcY:   float32(v.TexCoords.Y * texH),
			ColorR: float32(v.Color.R) * a,
			ColorG: float32(v.Color.G) * a,
			ColorB: float32(v.Color.B) * a,
			ColorA: a,
		})
	}
	return dst
}
