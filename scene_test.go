package larch

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestNewScene(t *testing.T) {
	s := NewScene(nil)
	root := s.Root()
	if root == nil {
		t.Fatal("root should not be nil")
	}
	if root.Name != "root" || root.Type != NodeTypeContainer {
		t.Errorf("root = %q (%s), want container named root", root.Name, root.Type)
	}
	if root.Scene() != s {
		t.Error("root should know its scene")
	}
	if s.RenderSupport() == nil {
		t.Error("RenderSupport should not be nil")
	}
}

func TestNodeSceneLookup(t *testing.T) {
	s := NewScene(nil)
	child := NewContainer("c")
	if child.Scene() != nil {
		t.Error("detached node should have no scene")
	}
	_ = s.Root().AddChild(child)
	if child.Scene() != s {
		t.Error("attached node should report its scene")
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be true")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be false")
	}
}

// --- Enter-frame ---

func TestOnFramePreOrder(t *testing.T) {
	s := NewScene(nil)
	a := NewContainer("a")
	b := NewQuad("b", 1, 1, ColorWhite)
	c := NewQuad("c", 1, 1, ColorWhite)
	_ = s.Root().AddChild(a)
	_ = a.AddChild(b)
	_ = s.Root().AddChild(c)

	var order []string
	for _, n := range []*Node{c, b, a} {
		n.AddEnterFrame(func(dt float64) { order = append(order, n.Name) })
	}
	a.AddEnterFrame(func(dt float64) { order = append(order, "a2") })

	s.OnFrame(1.0 / 60)
	want := []string{"a", "a2", "b", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestOnFramePassesDelta(t *testing.T) {
	s := NewScene(nil)
	var got float64
	s.Root().AddEnterFrame(func(dt float64) { got = dt })
	s.OnFrame(0.25)
	assertNear(t, "dt", got, 0.25)
}

func TestRemoveEnterFrame(t *testing.T) {
	s := NewScene(nil)
	calls := 0
	id := s.Root().AddEnterFrame(func(float64) { calls++ })
	s.OnFrame(0.1)
	s.Root().RemoveEnterFrame(id)
	s.Root().RemoveEnterFrame(999) // unknown ids are ignored
	s.OnFrame(0.1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if s.Root().HasEnterFrame() {
		t.Error("HasEnterFrame should be false")
	}
}

func TestEnterFrameListenerRemovingSibling(t *testing.T) {
	s := NewScene(nil)
	a := NewQuad("a", 1, 1, ColorWhite)
	b := NewQuad("b", 1, 1, ColorWhite)
	c := NewQuad("c", 1, 1, ColorWhite)
	for _, n := range []*Node{a, b, c} {
		_ = s.Root().AddChild(n)
	}

	var ran []string
	a.AddEnterFrame(func(float64) {
		ran = append(ran, "a")
		b.RemoveFromParent()
	})
	b.AddEnterFrame(func(float64) { ran = append(ran, "b") })
	c.AddEnterFrame(func(float64) { ran = append(ran, "c") })

	s.OnFrame(0.1)
	want := []string{"a", "c"}
	if !reflect.DeepEqual(ran, want) {
		t.Errorf("ran = %v, want %v", ran, want)
	}
}

func TestEnterFrameSelfRemoval(t *testing.T) {
	s := NewScene(nil)
	calls := 0
	var id int
	id = s.Root().AddEnterFrame(func(float64) {
		calls++
		s.Root().RemoveEnterFrame(id)
	})
	other := 0
	s.Root().AddEnterFrame(func(float64) { other++ })

	s.OnFrame(0.1)
	s.OnFrame(0.1)
	if calls != 1 || other != 2 {
		t.Errorf("calls = %d, other = %d, want 1 and 2", calls, other)
	}
}

// --- Tweens ---

func TestSceneAdvancesTweens(t *testing.T) {
	s := NewScene(nil)
	n := NewQuad("q", 1, 1, ColorWhite)
	_ = s.Root().AddChild(n)

	s.AddTween(TweenPosition(n, 100, 0, 1, ease.Linear))
	s.AddTween(nil)
	if s.NumTweens() != 1 {
		t.Fatalf("NumTweens = %d, want 1", s.NumTweens())
	}
	s.OnFrame(0.5)
	assertNear(t, "X", n.X, 50)
	s.OnFrame(0.5)
	assertNear(t, "X", n.X, 100)
	if s.NumTweens() != 0 {
		t.Errorf("finished tween should be dropped, NumTweens = %d", s.NumTweens())
	}
}

func TestSceneTweenChainedFromOnComplete(t *testing.T) {
	s := NewScene(nil)
	n := NewQuad("q", 1, 1, ColorWhite)
	_ = s.Root().AddChild(n)

	first := TweenPosition(n, 10, 0, 1, ease.Linear)
	first.OnComplete = func() {
		s.AddTween(TweenPosition(n, 10, 10, 1, ease.Linear))
	}
	s.AddTween(first)

	s.OnFrame(1)
	if s.NumTweens() != 1 {
		t.Fatalf("NumTweens = %d, want the chained tween", s.NumTweens())
	}
	s.OnFrame(1)
	assertNear(t, "Y", n.Y, 10)
}

func TestSceneAddDoneTweenIgnored(t *testing.T) {
	s := NewScene(nil)
	g := TweenAlpha(NewQuad("q", 1, 1, ColorWhite), 0, 1, ease.Linear)
	g.Done = true
	s.AddTween(g)
	if s.NumTweens() != 0 {
		t.Errorf("NumTweens = %d, want 0", s.NumTweens())
	}
}

// --- Stats ---

func TestSceneStatsWindow(t *testing.T) {
	s := NewScene(nil)
	for i := 0; i < 3; i++ {
		_ = s.Root().AddChild(NewQuad("q", 1, 1, ColorWhite))
	}
	if _, err := s.RenderFrame(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		s.OnFrame(0.125)
	}
	if s.Stats() != (Stats{}) {
		t.Errorf("Stats updated early: %+v", s.Stats())
	}
	s.OnFrame(0.125)
	st := s.Stats()
	if st.DrawCount != 1 {
		t.Errorf("DrawCount = %d, want 1", st.DrawCount)
	}
	assertNear(t, "FPS", st.FPS, 8)
	if st.String() != "FPS: 8.0\nDRW: 1" {
		t.Errorf("String = %q", st.String())
	}
}

// --- RenderFrame ---

func TestRenderFrameCountsDraws(t *testing.T) {
	rb := &recordingBackend{}
	s := NewScene(rb)
	_ = s.Root().AddChild(NewQuad("a", 1, 1, ColorWhite))
	b := NewQuad("b", 1, 1, ColorWhite)
	b.BlendMode = BlendAdd
	_ = s.Root().AddChild(b)

	draws, err := s.RenderFrame()
	if err != nil {
		t.Fatal(err)
	}
	if draws != 2 || s.DrawCount() != 2 || len(rb.batches) != 2 {
		t.Errorf("draws = %d, DrawCount = %d, batches = %d, want 2", draws, s.DrawCount(), len(rb.batches))
	}
}

func TestRenderFrameErrorKeepsLastCount(t *testing.T) {
	s := NewScene(nil)
	_ = s.Root().AddChild(NewQuad("a", 1, 1, ColorWhite))
	if _, err := s.RenderFrame(); err != nil {
		t.Fatal(err)
	}
	_ = s.Root().AddChild(NewTextField("t", 10, 10, "x", "missing"))
	if _, err := s.RenderFrame(); !errors.Is(err, ErrMissingFont) {
		t.Fatalf("err = %v, want ErrMissingFont", err)
	}
	if s.DrawCount() != 1 {
		t.Errorf("DrawCount = %d, want 1 from the last good frame", s.DrawCount())
	}
	if s.RenderSupport().StackDepth() != 0 {
		t.Error("stacks not unwound")
	}
}

func TestSetBackend(t *testing.T) {
	s := NewScene(nil)
	_ = s.Root().AddChild(NewQuad("a", 1, 1, ColorWhite))
	rb := &recordingBackend{}
	s.SetBackend(rb)
	if _, err := s.RenderFrame(); err != nil {
		t.Fatal(err)
	}
	if len(rb.batches) != 1 {
		t.Errorf("batches = %d, want 1", len(rb.batches))
	}
}

// --- Events ---

type recordingSink struct {
	events []SceneEvent
}

func (r *recordingSink) EmitEvent(e SceneEvent) { r.events = append(r.events, e) }

func (r *recordingSink) types() []SceneEventType {
	out := make([]SceneEventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestSceneEventsForSubtree(t *testing.T) {
	s := NewScene(nil)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	group := NewContainer("group")
	group.EntityID = 7
	_ = group.AddChild(NewQuad("leaf", 1, 1, ColorWhite))
	_ = s.Root().AddChild(group)

	if len(sink.events) != 2 {
		t.Fatalf("events = %d, want 2", len(sink.events))
	}
	if sink.events[0].Name != "group" || sink.events[0].EntityID != 7 || sink.events[1].Name != "leaf" {
		t.Errorf("events = %+v", sink.events)
	}

	group.RemoveFromParent()
	_, _ = s.RenderFrame()
	want := []SceneEventType{
		EventAddedToScene, EventAddedToScene,
		EventRemovedFromScene, EventRemovedFromScene,
		EventFrameRendered,
	}
	if !reflect.DeepEqual(sink.types(), want) {
		t.Errorf("types = %v, want %v", sink.types(), want)
	}
}

func TestDetachedTreeEmitsNothing(t *testing.T) {
	s := NewScene(nil)
	sink := &recordingSink{}
	s.SetEventSink(sink)

	detached := NewContainer("detached")
	_ = detached.AddChild(NewContainer("child"))
	if len(sink.events) != 0 {
		t.Errorf("events = %d, want 0", len(sink.events))
	}
}

func TestAddedToSceneCallbacks(t *testing.T) {
	s := NewScene(nil)
	n := NewQuad("q", 1, 1, ColorWhite)
	var added, removed int
	n.OnAddedToScene = func(*Node) { added++ }
	n.OnRemovedFromScene = func(*Node) { removed++ }

	_ = s.Root().AddChild(n)
	n.RemoveFromParent()
	if added != 1 || removed != 1 {
		t.Errorf("added = %d, removed = %d, want 1 and 1", added, removed)
	}
}

func TestSceneEventTypeString(t *testing.T) {
	if EventFrameRendered.String() != "FrameRendered" || SceneEventType(9).String() != "Unknown" {
		t.Error("SceneEventType.String mismatch")
	}
}
