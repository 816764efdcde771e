package larch

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Stats is a read-only diagnostics snapshot published by a Scene.
type Stats struct {
	// FPS is the measured rate of OnFrame calls over the last window.
	FPS float64
	// DrawCount is the number of draw calls of the last rendered frame.
	DrawCount int
}

func (s Stats) String() string {
	return fmt.Sprintf("FPS: %.1f\nDRW: %d", s.FPS, s.DrawCount)
}

// NewStatsDisplay creates a node that shows the scene's Stats. It is
// excluded from batching so its own draw call is stable no matter what is
// rendered around it, and it redraws its texture every ~0.5 seconds.
func NewStatsDisplay() *Node {
	// 100x32 is enough for two short lines of debug text
	img := ebiten.NewImage(100, 32)
	tex := NewImageTexture(img, 1)
	tex.SetName("stats")

	node := NewImage("stats_display", tex)
	node.ExcludeFromCache = true
	node.Touchable = false

	var elapsed float64
	redraw := func() {
		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		var st Stats
		if s := node.Scene(); s != nil {
			st = s.Stats()
		}
		ebitenutil.DebugPrint(img, st.String())
	}
	redraw()

	node.AddEnterFrame(func(dt float64) {
		elapsed += dt
		if elapsed < statsInterval {
			return
		}
		elapsed = 0
		redraw()
	})
	return node
}
