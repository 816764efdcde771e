package larch

import (
	"fmt"
	"math"
)

// Components returns the node's local transform properties.
func (n *Node) Components() TransformComponents {
	return TransformComponents{
		X:        n.X,
		Y:        n.Y,
		PivotX:   n.PivotX,
		PivotY:   n.PivotY,
		ScaleX:   n.ScaleX,
		ScaleY:   n.ScaleY,
		Rotation: n.Rotation,
		SkewX:    n.SkewX,
		SkewY:    n.SkewY,
	}
}

// LocalTransform returns the matrix mapping this node's coordinates into its
// parent's. It is cached and rebuilt only after the node was marked dirty.
func (n *Node) LocalTransform() Matrix {
	if n.transformDirty {
		n.localTransform = n.Components().Matrix()
		n.transformDirty = false
	}
	return n.localTransform
}

// SetLocalTransform sets the transform properties so that LocalTransform
// equals m. The pivot is kept; rotation, scale and skew come from the
// canonical decomposition of m.
func (n *Node) SetLocalTransform(m Matrix) {
	tc := m.Decompose()
	n.ScaleX, n.ScaleY = tc.ScaleX, tc.ScaleY
	n.Rotation = tc.Rotation
	n.SkewX, n.SkewY = tc.SkewX, tc.SkewY
	n.X = m.Tx + n.PivotX*m.A + n.PivotY*m.C
	n.Y = m.Ty + n.PivotX*m.B + n.PivotY*m.D
	n.localTransform = m
	n.transformDirty = false
}

// TransformationMatrix returns the matrix that maps this node's local
// coordinates into target's coordinate space. A nil target means global
// space (every ancestor's transform, the root's included). target must be
// n or one of its ancestors; otherwise ErrUnresolvedAncestor is returned.
func (n *Node) TransformationMatrix(target *Node) (Matrix, error) {
	m := IdentityMatrix()
	for p := n; p != target; p = p.Parent {
		if p == nil {
			return IdentityMatrix(), fmt.Errorf("larch: transform %q relative to %q: %w",
				n.Name, target.Name, ErrUnresolvedAncestor)
		}
		m.Append(p.LocalTransform())
	}
	return m, nil
}

// WorldTransform returns the transform from local to global space.
func (n *Node) WorldTransform() Matrix {
	m, _ := n.TransformationMatrix(nil)
	return m
}

// WorldAlpha returns the product of this node's alpha and all ancestors'.
func (n *Node) WorldAlpha() float64 {
	a := 1.0
	for p := n; p != nil; p = p.Parent {
		a *= p.Alpha
	}
	return a
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformDirty = true
}

// SetRotation sets the node's rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = normalizeAngle(r)
	n.transformDirty = true
}

// SetSkew sets the node's SkewX and SkewY and marks it dirty.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX = sx
	n.SkewY = sy
	n.transformDirty = true
}

// SetPivot sets the node's PivotX and PivotY and marks it dirty.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.transformDirty = true
}

// SetAlpha sets the node's alpha, clamped to [0, 1].
func (n *Node) SetAlpha(a float64) {
	n.Alpha = clamp01(a)
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next read. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// LocalToGlobal converts a local-space point to global space.
func (n *Node) LocalToGlobal(p Vec2) Vec2 {
	m := AcquireMatrix()
	*m = n.WorldTransform()
	out := m.TransformPoint(p.X, p.Y)
	ReleaseMatrix(m)
	return out
}

// GlobalToLocal converts a global-space point to this node's local space.
// It fails with ErrSingularMatrix when the node is collapsed (zero scale).
func (n *Node) GlobalToLocal(p Vec2) (Vec2, error) {
	m := AcquireMatrix()
	defer ReleaseMatrix(m)
	*m = n.WorldTransform()
	if err := m.Invert(); err != nil {
		return Vec2{}, fmt.Errorf("larch: global to local on %q: %w", n.Name, err)
	}
	return m.TransformPoint(p.X, p.Y), nil
}

// --- Bounds ---

// Bounds returns the axis-aligned bounds of this node's geometry (its whole
// subtree for containers) in target's coordinate space. A nil target means
// global space.
func (n *Node) Bounds(target *Node) (Rect, error) {
	m, err := n.TransformationMatrix(target)
	if err != nil {
		return Rect{}, err
	}
	return n.boundsIn(m)
}

// boundsIn computes bounds given the matrix from n's space to the target space.
func (n *Node) boundsIn(m Matrix) (Rect, error) {
	if n.Type != NodeTypeContainer {
		vd, err := n.vertexData()
		if err != nil {
			return Rect{}, err
		}
		if len(vd.Vertices) == 0 {
			p := m.TransformPoint(0, 0)
			return Rect{X: p.X, Y: p.Y}, nil
		}
		return vd.Bounds(m), nil
	}
	if len(n.children) == 0 {
		p := m.TransformPoint(0, 0)
		return Rect{X: p.X, Y: p.Y}, nil
	}

	childM := AcquireMatrix()
	defer ReleaseMatrix(childM)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range n.children {
		*childM = c.LocalTransform()
		childM.Append(m)
		r, err := c.boundsIn(*childM)
		if err != nil {
			return Rect{}, err
		}
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}
