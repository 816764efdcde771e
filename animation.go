package larch

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenColor, ...)
// and either call Update(dt) yourself or hand it to Scene.AddTween. Values
// are written through the node's setters so cached transforms are
// invalidated. If the target node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	values [4]float64
	count  int
	apply  func(n *Node, v []float64)
	target *Node
	Done   bool

	// OnComplete runs once when every tween has finished.
	OnComplete func()
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, apply func(*Node, []float64), pairs ...[2]float64) *TweenGroup {
	g := &TweenGroup{target: node, apply: apply, count: len(pairs)}
	for i, p := range pairs {
		g.tweens[i] = gween.New(float32(p[0]), float32(p[1]), duration, fn)
		g.values[i] = p[0]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(g.target, g.values[:g.count])
	g.Done = allDone

	if g.Done && g.OnComplete != nil {
		g.OnComplete()
	}
}

// Reset rewinds every tween to its start.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
	}
	g.Done = false
}

// TweenPosition animates the node's position to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.SetPosition(v[0], v[1])
	}, [2]float64{node.X, toX}, [2]float64{node.Y, toY})
}

// TweenScale animates the node's scale to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.SetScale(v[0], v[1])
	}, [2]float64{node.ScaleX, toSX}, [2]float64{node.ScaleY, toSY})
}

// TweenRotation animates the node's rotation, in radians, to the target.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.SetRotation(v[0])
	}, [2]float64{node.Rotation, to})
}

// TweenSkew animates the node's skew to (toX, toY).
func TweenSkew(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.SetSkew(v[0], v[1])
	}, [2]float64{node.SkewX, toX}, [2]float64{node.SkewY, toY})
}

// TweenAlpha animates the node's alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.SetAlpha(v[0])
	}, [2]float64{node.Alpha, to})
}

// TweenColor animates all four components of the node's tint.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := node.Color
	return newTweenGroup(node, duration, fn, func(n *Node, v []float64) {
		n.Color = Color{R: v[0], G: v[1], B: v[2], A: v[3]}
	}, [2]float64{c.R, to.R}, [2]float64{c.G, to.G}, [2]float64{c.B, to.B}, [2]float64{c.A, to.A})
}
