package larch

// EventSink receives scene lifecycle events. When set on a Scene, node
// additions and removals and every rendered frame are forwarded to it.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// SceneEventType identifies a SceneEvent.
type SceneEventType uint8

const (
	// EventAddedToScene fires for every node that becomes reachable from a
	// scene root, parents before children.
	EventAddedToScene SceneEventType = iota
	// EventRemovedFromScene fires for every node that stops being reachable
	// from a scene root, parents before children.
	EventRemovedFromScene
	// EventFrameRendered fires after each RenderFrame.
	EventFrameRendered
)

func (t SceneEventType) String() string {
	switch t {
	case EventAddedToScene:
		return "AddedToScene"
	case EventRemovedFromScene:
		return "RemovedFromScene"
	case EventFrameRendered:
		return "FrameRendered"
	default:
		return "Unknown"
	}
}

// SceneEvent carries lifecycle data for the event sink. NodeID and EntityID
// are zero for frame events; DrawCount is only set for frame events.
type SceneEvent struct {
	Type      SceneEventType
	NodeID    uint32
	EntityID  uint32
	Name      string
	DrawCount int
}

// enterFrameListener is a registered per-frame callback.
type enterFrameListener struct {
	id int
	fn func(dt float64)
}

// AddEnterFrame registers fn to run on every Scene.OnFrame while the node is
// in the scene. Listeners of one node run in registration order. The
// returned id is passed to RemoveEnterFrame.
func (n *Node) AddEnterFrame(fn func(dt float64)) int {
	n.nextListenerID++
	n.enterFrame = append(n.enterFrame, enterFrameListener{id: n.nextListenerID, fn: fn})
	return n.nextListenerID
}

// RemoveEnterFrame unregisters a listener. Unknown ids are ignored.
func (n *Node) RemoveEnterFrame(id int) {
	for i, l := range n.enterFrame {
		if l.id == id {
			n.enterFrame = append(n.enterFrame[:i], n.enterFrame[i+1:]...)
			return
		}
	}
}

// HasEnterFrame reports whether any enter-frame listener is registered.
func (n *Node) HasEnterFrame() bool {
	return len(n.enterFrame) > 0
}

// dispatchEnterFrame runs the enter-frame listeners of n's subtree in
// pre-order. Listeners may mutate the tree; the child list is snapshotted
// per node so that removals do not skip siblings.
func dispatchEnterFrame(n *Node, dt float64, buf *[]*Node) {
	if n.disposed {
		return
	}
	// Iterate over a copy so a listener removing itself does not skip the next.
	if k := len(n.enterFrame); k > 0 {
		ls := make([]enterFrameListener, k)
		copy(ls, n.enterFrame)
		for _, l := range ls {
			l.fn(dt)
		}
	}
	if len(n.children) == 0 {
		return
	}
	start := len(*buf)
	*buf = append(*buf, n.children...)
	end := len(*buf)
	for i := start; i < end; i++ {
		child := (*buf)[i]
		if child.Parent == n {
			dispatchEnterFrame(child, dt, buf)
		}
	}
	clear((*buf)[start:end])
	*buf = (*buf)[:start]
}

// dispatchAdded notifies n's subtree that it joined the scene.
func (s *Scene) dispatchAdded(n *Node) {
	if n.OnAddedToScene != nil {
		n.OnAddedToScene(n)
	}
	if s.sink != nil {
		s.sink.EmitEvent(SceneEvent{Type: EventAddedToScene, NodeID: n.ID, EntityID: n.EntityID, Name: n.Name})
	}
	for _, child := range n.children {
		s.dispatchAdded(child)
	}
}

// dispatchRemoved notifies n's subtree that it left the scene.
func (s *Scene) dispatchRemoved(n *Node) {
	if n.OnRemovedFromScene != nil {
		n.OnRemovedFromScene(n)
	}
	if s.sink != nil {
		s.sink.EmitEvent(SceneEvent{Type: EventRemovedFromScene, NodeID: n.ID, EntityID: n.EntityID, Name: n.Name})
	}
	for _, child := range n.children {
		s.dispatchRemoved(child)
	}
}
