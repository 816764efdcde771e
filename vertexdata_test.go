package larch

import (
	"errors"
	"testing"
)

func TestQuadVertexLayout(t *testing.T) {
	vd := NewQuadVertexData(10, 20, ColorWhite)
	if vd.NumVertices() != 4 || vd.NumTriangles() != 2 {
		t.Fatalf("got %d vertices / %d triangles, want 4 / 2", vd.NumVertices(), vd.NumTriangles())
	}
	wantPos := []Vec2{{0, 0}, {10, 0}, {0, 20}, {10, 20}}
	wantUV := []Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	for i, v := range vd.Vertices {
		assertVec(t, "position", v.Position, wantPos[i])
		assertVec(t, "texcoords", v.TexCoords, wantUV[i])
		if v.Alpha != 1 {
			t.Errorf("vertex %d alpha = %v, want 1", i, v.Alpha)
		}
	}
	if err := vd.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestAppendQuadRebasesIndices(t *testing.T) {
	var vd VertexData
	vd.AppendQuad(0, 0, 1, 1, ColorWhite)
	vd.AppendQuad(5, 5, 1, 1, ColorWhite)
	want := []uint32{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	if len(vd.Indices) != len(want) {
		t.Fatalf("indices = %v", vd.Indices)
	}
	for i := range want {
		if vd.Indices[i] != want[i] {
			t.Fatalf("indices = %v, want %v", vd.Indices, want)
		}
	}
	assertVec(t, "second TL", vd.Vertices[4].Position, Vec2{5, 5})
}

func TestSetQuadReusesStorage(t *testing.T) {
	vd := NewQuadVertexData(1, 1, ColorWhite)
	vd.AppendQuad(2, 2, 1, 1, ColorWhite)
	vd.SetQuad(3, 3, ColorWhite)
	if vd.NumVertices() != 4 {
		t.Errorf("NumVertices = %d, want 4", vd.NumVertices())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		vd   VertexData
		ok   bool
	}{
		{"empty", VertexData{}, true},
		{"partial triangle", VertexData{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1}}, false},
		{"index out of range", VertexData{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}}, false},
		{"ok", VertexData{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 2}}, true},
	}
	for _, tt := range tests {
		err := tt.vd.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("%s: err = %v, want ErrInvalidGeometry", tt.name, err)
		}
	}
}

func TestVertexDataAppendTransforms(t *testing.T) {
	src := NewQuadVertexData(1, 1, Color{1, 1, 1, 0.5})
	var dst VertexData
	dst.AppendQuad(0, 0, 1, 1, ColorWhite)

	m := IdentityMatrix()
	m.Scale(10, 10)
	m.Translate(100, 0)
	dst.Append(src, m, Color{0.5, 1, 1, 1}, 0.5)

	if dst.NumVertices() != 8 {
		t.Fatalf("NumVertices = %d, want 8", dst.NumVertices())
	}
	assertVec(t, "BR", dst.Vertices[7].Position, Vec2{110, 10})
	if dst.Indices[6] != 4 {
		t.Errorf("appended indices not rebased: %v", dst.Indices[6:])
	}
	v := dst.Vertices[4]
	if v.Color != (Color{0.5, 1, 1, 0.5}) {
		t.Errorf("color = %v", v.Color)
	}
	assertNear(t, "alpha", v.Alpha, 0.5)
}

func TestVertexDataBounds(t *testing.T) {
	vd := NewQuadVertexData(10, 10, ColorWhite)
	m := IdentityMatrix()
	m.Translate(-5, 3)
	assertRect(t, "bounds", vd.Bounds(m), Rect{X: -5, Y: 3, Width: 10, Height: 10})
	assertRect(t, "empty", (&VertexData{}).Bounds(m), Rect{})
}

func TestVertexDataCloneIsDeep(t *testing.T) {
	vd := NewQuadVertexData(1, 1, ColorWhite)
	c := vd.Clone()
	c.Vertices[0].Position.X = 99
	c.Indices[0] = 3
	if vd.Vertices[0].Position.X != 0 || vd.Indices[0] != 0 {
		t.Error("Clone shares storage with the original")
	}
}

func TestSetColorAndTransforms(t *testing.T) {
	vd := NewQuadVertexData(2, 2, ColorWhite)
	red := Color{1, 0, 0, 1}
	vd.SetColor(red)
	for i, v := range vd.Vertices {
		if v.Color != red {
			t.Errorf("vertex %d color = %v", i, v.Color)
		}
	}

	m := IdentityMatrix()
	m.Translate(1, 1)
	vd.TransformPositions(m, 2, 2)
	assertVec(t, "untouched", vd.Vertices[0].Position, Vec2{0, 0})
	assertVec(t, "moved", vd.Vertices[3].Position, Vec2{3, 3})

	vd.TransformTexCoords(m, 0, 1)
	assertVec(t, "uv", vd.Vertices[0].TexCoords, Vec2{1, 1})
}
