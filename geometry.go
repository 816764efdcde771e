package larch

import "fmt"

// Texture returns the node's texture, or nil.
func (n *Node) Texture() Texture {
	return n.texture
}

// SetTexture replaces the texture of an Image or Mesh node. Image nodes take
// the new texture's frame size.
func (n *Node) SetTexture(t Texture) {
	if n.texture == t {
		return
	}
	n.texture = t
	n.geometryDirty = true
}

// Size returns the unscaled size of a Quad or Image node.
func (n *Node) Size() (width, height float64) {
	switch n.Type {
	case NodeTypeImage:
		if n.texture == nil {
			return 0, 0
		}
		return n.texture.FrameWidth(), n.texture.FrameHeight()
	case NodeTypeText:
		if n.text != nil {
			return n.text.width, n.text.height
		}
	}
	return n.width, n.height
}

// SetSize sets the unscaled size of a Quad node, or the box of a Text node.
func (n *Node) SetSize(width, height float64) {
	switch n.Type {
	case NodeTypeQuad:
		n.width, n.height = width, height
		n.geometryDirty = true
	case NodeTypeText:
		n.text.SetBox(width, height)
	}
}

// VertexData returns the caller-owned vertex data of a Mesh node. Call
// InvalidateGeometry after modifying it.
func (n *Node) VertexData() *VertexData {
	return n.mesh
}

// SetVertexData replaces the vertex data of a Mesh node.
func (n *Node) SetVertexData(vd *VertexData) {
	if vd == nil {
		vd = &VertexData{}
	}
	n.mesh = vd
	n.geometryDirty = true
}

// InvalidateGeometry forces the node's render geometry to be rebuilt before
// its next use.
func (n *Node) InvalidateGeometry() {
	n.geometryDirty = true
}

// TextField returns the text state of a Text node, or nil.
func (n *Node) TextField() *TextField {
	return n.text
}

// vertexData returns the node's geometry in local space with texture
// coordinates already mapped to the root texture. It is rebuilt lazily.
func (n *Node) vertexData() (*VertexData, error) {
	if n.Type == NodeTypeText {
		if err := n.text.regenerate(); err != nil {
			return nil, err
		}
		return &n.geometry, nil
	}
	if !n.geometryDirty {
		return &n.geometry, nil
	}

	switch n.Type {
	case NodeTypeQuad:
		n.geometry.SetQuad(n.width, n.height, ColorWhite)
	case NodeTypeImage:
		if n.texture == nil {
			n.geometry.Reset()
			break
		}
		n.geometry.SetQuad(n.texture.FrameWidth(), n.texture.FrameHeight(), ColorWhite)
		if err := AdjustPositions(n.texture, &n.geometry, 0, 4); err != nil {
			return nil, err
		}
		AdjustTexCoords(n.texture, &n.geometry, 0, 4)
	case NodeTypeMesh:
		if err := n.mesh.Validate(); err != nil {
			return nil, fmt.Errorf("larch: mesh %q: %w", n.Name, err)
		}
		n.geometry.Vertices = append(n.geometry.Vertices[:0], n.mesh.Vertices...)
		n.geometry.Indices = append(n.geometry.Indices[:0], n.mesh.Indices...)
		if n.texture != nil {
			if err := AdjustPositions(n.texture, &n.geometry, 0, len(n.geometry.Vertices)); err != nil {
				return nil, fmt.Errorf("larch: mesh %q: %w", n.Name, err)
			}
			AdjustTexCoords(n.texture, &n.geometry, 0, len(n.geometry.Vertices))
		}
	default:
		n.geometry.Reset()
	}
	n.geometryDirty = false
	return &n.geometry, nil
}
