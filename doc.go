// Package arbor is a small retained-mode 2D scene graph for [Ebitengine].
//
// A [Scene] owns a tree of [Node] values. Each node has a local transform
// (position, rotation in degrees, scale, origin) and an ordered list of
// [Component] values that give it behavior and rendering. Children are drawn
// in their parent's coordinate frame.
//
// # Quick start
//
//	scene := arbor.NewScene()
//	rect := scene.CreateNode("rectangle", nil)
//	rect.SetPosition(320, 240)
//	rect.SetRotation(45)
//	rect.AddComponent(arbor.NewShapeComponent(arbor.NewRectangleShape(50, 50)))
//
//	arbor.Run(scene, arbor.RunConfig{Title: "demo", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call [Scene.Update]
// and [Scene.Draw] with an [ImageSurface]:
//
//	func (g *Game) Update() error        { g.scene.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.surface.SetTarget(s); g.scene.Draw(g.surface) }
//
// # Registry
//
// Every node reachable from [Scene.Root] is registered under an [EntityID]
// assigned when it first joins the tree. IDs start at 1, only grow, and are
// never reused. [Scene.GetNode] resolves an ID; [Scene.RemoveNode] detaches
// and destroys a subtree and erases all of its IDs. Detaching a node with
// [Node.RemoveChild] also unregisters its subtree, so the registry always
// matches the tree.
//
// # Behaviors
//
// A [Behavior] specializes a node without subclassing: Init runs once when the
// node joins a scene, Update runs every frame before the node's components
// and children.
//
// [Ebitengine]: https://ebitengine.org
package arbor
