package larch

import "fmt"

// nodeIDCounter is a plain counter (single-threaded, no atomic).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path; Type selects
// how geometry is produced.
//
// Transform fields may be written directly, but MarkDirty must be called
// afterwards so the cached local matrix is rebuilt. The Set* methods do this
// automatically.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy. Parent is a non-owning back-reference; the parent's child
	// list is what keeps a node reachable.
	Parent   *Node
	children []*Node
	scene    *Scene // set on a scene's root only

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	localTransform Matrix
	transformDirty bool

	// Visibility & state
	Alpha     float64
	Visible   bool
	Touchable bool
	BlendMode BlendMode
	Color     Color
	Style     *Style

	// ExcludeFromCache forces this node's geometry (its whole subtree for
	// containers) into batches of its own, so its draw-call count does not
	// depend on what its siblings render.
	ExcludeFromCache bool

	// Metadata
	UserData any
	EntityID uint32

	// Geometry (Quad, Image, Mesh, Text)
	width, height float64 // quad size
	texture       Texture
	mesh          *VertexData
	geometry      VertexData
	geometryDirty bool

	// Text fields (NodeTypeText)
	text *TextField

	// Callbacks
	enterFrame         []enterFrameListener
	nextListenerID     int
	OnAddedToScene     func(n *Node)
	OnRemovedFromScene func(n *Node)

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.Touchable = true
	n.transformDirty = true
	n.geometryDirty = true
}

// NewContainer creates a container node with no geometry of its own.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewQuad creates a solid-color rectangle of the given size.
func NewQuad(name string, width, height float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeQuad, width: width, height: height}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewImage creates a textured quad sized to the texture's frame.
func NewImage(name string, tex Texture) *Node {
	n := &Node{Name: name, Type: NodeTypeImage, texture: tex}
	nodeDefaults(n)
	return n
}

// NewMesh creates a node that renders caller-supplied vertex data, optionally
// textured. The node takes ownership of data.
func NewMesh(name string, tex Texture, data *VertexData) *Node {
	if data == nil {
		data = &VertexData{}
	}
	n := &Node{Name: name, Type: NodeTypeMesh, texture: tex, mesh: data}
	nodeDefaults(n)
	return n
}

// NewTextField creates a text node that lays out glyph quads from the named
// bitmap font inside a width × height box.
func NewTextField(name string, width, height float64, content, fontName string) *Node {
	n := &Node{Name: name, Type: NodeTypeText}
	nodeDefaults(n)
	n.text = newTextField(n, width, height, content, fontName)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this container's children.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at the given index. Adding a node that is already
// a child of n moves it to index. Adding a node owned by another container
// fails with ErrAlreadyParented; adding n or one of its ancestors fails with
// ErrCycleDetected. The tree is left unchanged on error.
func (n *Node) AddChildAt(child *Node, index int) error {
	if child == nil {
		return fmt.Errorf("larch: add child to %q: %w", n.Name, ErrNilNode)
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if n.Type != NodeTypeContainer {
		return fmt.Errorf("larch: add child %q to %s %q: %w", child.Name, n.Type, n.Name, ErrNotContainer)
	}
	if isAncestor(child, n) {
		return fmt.Errorf("larch: add child %q to %q: %w", child.Name, n.Name, ErrCycleDetected)
	}
	if child.Parent == n {
		if index < 0 || index > len(n.children) {
			return fmt.Errorf("larch: add child %q at %d: %w", child.Name, index, ErrIndexOutOfRange)
		}
		if index == len(n.children) {
			index--
		}
		return n.SetChildIndex(child, index)
	}
	if child.Parent != nil {
		return fmt.Errorf("larch: add child %q to %q (parent %q): %w",
			child.Name, n.Name, child.Parent.Name, ErrAlreadyParented)
	}
	if index < 0 || index > len(n.children) {
		return fmt.Errorf("larch: add child %q at %d: %w", child.Name, index, ErrIndexOutOfRange)
	}

	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	if s := n.Scene(); s != nil {
		s.dispatchAdded(child)
	}
	return nil
}

// RemoveChild detaches child from this container. Children are not disposed.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("larch: remove child from %q: %w", n.Name, ErrNilNode)
	}
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
	}
	if child.Parent != n {
		return fmt.Errorf("larch: remove %q from %q: %w", child.Name, n.Name, ErrNotChild)
	}
	_, err := n.RemoveChildAt(n.ChildIndex(child))
	return err
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) (*Node, error) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		return nil, fmt.Errorf("larch: remove child at %d from %q: %w", index, n.Name, ErrIndexOutOfRange)
	}
	child := n.children[index]
	s := n.Scene()
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	if s != nil {
		s.dispatchRemoved(child)
	}
	return child, nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	_ = n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this container.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		_, _ = n.RemoveChildAt(len(n.children) - 1)
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index, or nil when out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// ChildIndex returns the index of child, or -1 if it is not a child of n.
func (n *Node) ChildIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// ChildByName returns the first direct child with the given name.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Contains reports whether node is n itself or one of its descendants.
func (n *Node) Contains(node *Node) bool {
	return isAncestor(n, node)
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) error {
	if child == nil || child.Parent != n {
		return fmt.Errorf("larch: set child index on %q: %w", n.Name, ErrNotChild)
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		return fmt.Errorf("larch: set child index %d on %q: %w", index, n.Name, ErrIndexOutOfRange)
	}
	oldIndex := n.ChildIndex(child)
	if oldIndex == index {
		return nil
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	return nil
}

// SwapChildrenAt exchanges the children at indices i and j.
func (n *Node) SwapChildrenAt(i, j int) error {
	nc := len(n.children)
	if i < 0 || i >= nc || j < 0 || j >= nc {
		return fmt.Errorf("larch: swap children %d and %d on %q: %w", i, j, n.Name, ErrIndexOutOfRange)
	}
	n.children[i], n.children[j] = n.children[j], n.children[i]
	return nil
}

// SwapChildren exchanges the positions of two children.
func (n *Node) SwapChildren(a, b *Node) error {
	i, j := n.ChildIndex(a), n.ChildIndex(b)
	if i < 0 || j < 0 {
		return fmt.Errorf("larch: swap children on %q: %w", n.Name, ErrNotChild)
	}
	return n.SwapChildrenAt(i, j)
}

// Root returns the topmost ancestor of n (n itself when it has no parent).
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Scene returns the scene whose tree contains n, or nil.
func (n *Node) Scene() *Scene {
	return n.Root().scene
}

// Depth returns the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.texture = nil
	n.mesh = nil
	n.geometry = VertexData{}
	n.text = nil
	n.Style = nil
	n.UserData = nil
	n.enterFrame = nil
	n.OnAddedToScene = nil
	n.OnRemovedFromScene = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}
