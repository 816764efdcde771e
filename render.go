package larch

import "fmt"

// minVisibleAlpha is the alpha below which a node is treated as invisible.
const minVisibleAlpha = 0.001

// RenderSupport compiles a scene tree into batches. It walks the tree
// depth-first in paint order, keeping a transform stack, an alpha stack and a
// blend-mode stack, and merges consecutive geometry with the same texture,
// blend mode and style. Geometry is never reordered to merge: a batch only
// absorbs geometry that directly follows it in paint order.
//
// A RenderSupport is single-threaded and reused across frames.
type RenderSupport struct {
	backend Backend

	matrices []*Matrix // pooled; top is the current world transform
	alphas   []float64
	blends   []BlendMode

	batches batchList
	current *Batch

	drawCount   int
	vertexCount int
	nodeCount   int
}

// NewRenderSupport creates a compiler submitting to backend.
func NewRenderSupport(backend Backend) *RenderSupport {
	return &RenderSupport{backend: backend}
}

// SetBackend replaces the backend used by subsequent frames.
func (rs *RenderSupport) SetBackend(b Backend) {
	rs.backend = b
}

// DrawCount returns the number of draw calls submitted by the last frame.
func (rs *RenderSupport) DrawCount() int {
	return rs.drawCount
}

// VertexCount returns the number of vertices submitted by the last frame.
func (rs *RenderSupport) VertexCount() int {
	return rs.vertexCount
}

// Batches returns the batches built by the last frame, in submission order.
// They are valid until the next call to Render.
func (rs *RenderSupport) Batches() []*Batch {
	return rs.batches.all()
}

// StackDepth returns the current depth of the state stacks. It is zero
// outside of Render.
func (rs *RenderSupport) StackDepth() int {
	return len(rs.matrices)
}

// Render compiles root and submits every batch to the backend. On error the
// state stacks are already unwound and the unsubmitted batch is discarded,
// so the next call starts clean.
func (rs *RenderSupport) Render(root *Node) error {
	rs.Reset()
	if root == nil {
		return nil
	}
	if err := rs.renderNode(root); err != nil {
		rs.current = nil
		return err
	}
	return rs.finishBatch()
}

// Reset clears per-frame counters, batches and stacks.
func (rs *RenderSupport) Reset() {
	for len(rs.matrices) > 0 {
		rs.popState()
	}
	rs.batches.reset()
	rs.current = nil
	rs.drawCount = 0
	rs.vertexCount = 0
	rs.nodeCount = 0
}

// renderNode visits n and its subtree. State pushed for n is popped on every
// return path.
func (rs *RenderSupport) renderNode(n *Node) error {
	if !n.Visible || n.Alpha < minVisibleAlpha {
		return nil
	}
	rs.pushState(n)
	defer rs.popState()
	if rs.alphas[len(rs.alphas)-1] < minVisibleAlpha {
		return nil
	}
	rs.nodeCount++

	if n.ExcludeFromCache {
		if err := rs.finishBatch(); err != nil {
			return err
		}
	}

	if n.Type == NodeTypeContainer {
		for _, child := range n.children {
			if err := rs.renderNode(child); err != nil {
				return err
			}
		}
	} else if err := rs.addGeometry(n); err != nil {
		return err
	}

	if n.ExcludeFromCache {
		return rs.finishBatch()
	}
	return nil
}

// pushState pushes n's transform, alpha and blend mode combined with the
// current top of stack.
func (rs *RenderSupport) pushState(n *Node) {
	m := AcquireMatrix()
	*m = n.LocalTransform()
	alpha := n.Alpha
	blend := n.BlendMode
	if top := len(rs.matrices) - 1; top >= 0 {
		m.Append(*rs.matrices[top])
		alpha *= rs.alphas[top]
		if blend == BlendAuto {
			blend = rs.blends[top]
		}
	} else if blend == BlendAuto {
		blend = BlendNormal
	}
	rs.matrices = append(rs.matrices, m)
	rs.alphas = append(rs.alphas, alpha)
	rs.blends = append(rs.blends, blend)
}

func (rs *RenderSupport) popState() {
	top := len(rs.matrices) - 1
	ReleaseMatrix(rs.matrices[top])
	rs.matrices[top] = nil
	rs.matrices = rs.matrices[:top]
	rs.alphas = rs.alphas[:top]
	rs.blends = rs.blends[:top]
}

// addGeometry appends a leaf's geometry, in world space, to the open batch
// or to a new one when the state key changes.
func (rs *RenderSupport) addGeometry(n *Node) error {
	vd, err := n.vertexData()
	if err != nil {
		return fmt.Errorf("larch: render %q: %w", n.Name, err)
	}
	if len(vd.Indices) == 0 {
		return nil
	}

	top := len(rs.matrices) - 1
	key := batchKey{
		texture: RootTexture(n.texture),
		blend:   rs.blends[top],
		style:   n.Style,
	}
	if rs.current == nil || rs.current.key() != key {
		if err := rs.finishBatch(); err != nil {
			return err
		}
		rs.current = rs.batches.open(key)
	}
	rs.current.Append(vd, *rs.matrices[top], n.Color, rs.alphas[top])
	return nil
}

// finishBatch submits the open batch, if any.
func (rs *RenderSupport) finishBatch() error {
	b := rs.current
	rs.current = nil
	if b == nil || len(b.Indices) == 0 {
		return nil
	}
	rs.drawCount++
	rs.vertexCount += len(b.Vertices)
	if rs.backend == nil {
		return nil
	}
	if err := rs.backend.Submit(b); err != nil {
		return fmt.Errorf("larch: submit batch %d: %w", rs.drawCount, err)
	}
	return nil
}
