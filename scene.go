package larch

import "time"

// statsInterval is the simulated time between Stats refreshes, in seconds.
const statsInterval = 0.5

// Scene is the top-level object that owns the node tree, the batch compiler
// and the per-frame machinery (enter-frame listeners, tweens, stats).
type Scene struct {
	root   *Node
	render *RenderSupport
	sink   EventSink
	debug  bool

	tweens []*TweenGroup

	// Stats window
	stats        Stats
	statsElapsed float64
	statsFrames  int
	lastDraws    int

	frameBuf []*Node
}

// NewScene creates a new scene with a pre-created root container whose
// batches are submitted to backend. backend may be nil, in which case frames
// are compiled and counted but not drawn.
func NewScene(backend Backend) *Scene {
	root := NewContainer("root")
	s := &Scene{
		root:   root,
		render: NewRenderSupport(backend),
	}
	root.scene = s
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// RenderSupport returns the scene's batch compiler.
func (s *Scene) RenderSupport() *RenderSupport {
	return s.render
}

// SetBackend replaces the drawing backend.
func (s *Scene) SetBackend(b Backend) {
	s.render.SetBackend(b)
}

// OnFrame advances the scene by dt seconds: enter-frame listeners run in
// tree pre-order (registration order within a node), then tweens advance and
// finished ones are dropped, then the stats window advances.
func (s *Scene) OnFrame(dt float64) {
	dispatchEnterFrame(s.root, dt, &s.frameBuf)

	if len(s.tweens) > 0 {
		// Tweens added by OnComplete callbacks land in a fresh slice and
		// start advancing next frame.
		active := s.tweens
		s.tweens = nil
		live := active[:0]
		for _, g := range active {
			g.Update(float32(dt))
			if !g.Done {
				live = append(live, g)
			}
		}
		clear(active[len(live):])
		s.tweens = append(live, s.tweens...)
	}

	s.statsFrames++
	s.statsElapsed += dt
	if s.statsElapsed >= statsInterval {
		s.stats = Stats{
			FPS:       float64(s.statsFrames) / s.statsElapsed,
			DrawCount: s.lastDraws,
		}
		s.statsElapsed = 0
		s.statsFrames = 0
	}
}

// RenderFrame compiles the tree and submits its batches to the backend,
// returning the number of draw calls. After an error the compiler is reset
// and the next call starts from a clean state.
func (s *Scene) RenderFrame() (int, error) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	err := s.render.Render(s.root)
	draws := s.render.DrawCount()
	if err != nil {
		s.render.Reset()
		return draws, err
	}
	s.lastDraws = draws

	if s.debug {
		s.debugLog(debugStats{
			renderTime:    time.Since(t0),
			nodeCount:     s.render.nodeCount,
			vertexCount:   s.render.VertexCount(),
			drawCallCount: draws,
		})
	}
	if s.sink != nil {
		s.sink.EmitEvent(SceneEvent{Type: EventFrameRendered, DrawCount: draws})
	}
	return draws, nil
}

// DrawCount returns the draw calls issued by the last successful frame.
func (s *Scene) DrawCount() int {
	return s.lastDraws
}

// AddTween registers g to be advanced by OnFrame until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	s.tweens = append(s.tweens, g)
}

// NumTweens returns the number of running tweens.
func (s *Scene) NumTweens() int {
	return len(s.tweens)
}

// Stats returns the latest diagnostics snapshot. It is refreshed at most
// every 0.5 seconds of simulated time.
func (s *Scene) Stats() Stats {
	return s.stats
}

// SetEventSink sets the optional lifecycle event sink.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and per-frame
// timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
