// Package larch is a retained-mode 2D scene graph for [Ebitengine].
//
// Application code builds and mutates a tree of [Node] values; once per frame
// the tree is flattened into the fewest draw calls that preserve paint order.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := larch.NewScene(nil)
//	// ... add nodes ...
//	larch.Run(scene, larch.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself and drive the scene with
// [Scene.OnFrame] and [Scene.RenderFrame] against an [EbitenBackend]:
//
//	backend := larch.NewEbitenBackend(nil)
//	scene := larch.NewScene(backend)
//
//	func (g *Game) Update() error        { g.scene.OnFrame(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.backend.SetTarget(s); g.scene.RenderFrame() }
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]; a container exclusively owns its children, and children
// inherit their parent's transform, alpha and blend mode. Create nodes with
// [NewContainer], [NewQuad], [NewImage], [NewMesh] and [NewTextField].
//
//	ui := larch.NewContainer("ui")
//	scene.Root().AddChild(ui)
//
//	hero := larch.NewImage("hero", atlas.Texture("hero_idle"))
//	hero.SetPosition(100, 50)
//	ui.AddChild(hero)
//
// A node's local transform is composed as
// translate(x, y) · rotate · skew · scale · translate(-pivot). It is cached
// and rebuilt lazily after any setter (or [Node.MarkDirty]).
//
// # Batching
//
// [RenderSupport] walks the tree depth-first and merges consecutive geometry
// that shares root texture, blend mode and [Style] into one [Batch]. Geometry
// is never reordered to merge. Nodes marked ExcludeFromCache always get
// batches of their own.
//
// # Textures
//
// [ImageTexture] owns an ebiten image. [SubTexture] is a non-copying view of
// a region of another texture, possibly of another SubTexture; texture
// coordinates are remapped through the whole region chain. Atlases loaded with
// [LoadAtlas] and bitmap fonts loaded with [LoadBitmapFont] are built from
// SubTextures, so everything drawn from one page batches together.
//
// # Pooling
//
// Short-lived matrices, points and rectangles come from [Pool] free lists.
// Pooling can be switched off with [SetPoolingEnabled] without changing any
// result. Nothing in this package is safe for concurrent use.
//
// Tweens use [gween]; lifecycle events can be forwarded to a [Donburi] world
// with the adapter in larch/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package larch
