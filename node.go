package arbor

import (
	"fmt"
	"slices"
	"strings"
)

// Behavior specializes a node's per-frame logic without subclassing.
//
// Init runs exactly once, after the Scene has assigned the node's ID and scene
// and registered it, and before the node is linked into its parent. Children
// may be added from Init with Node.AddChild or Scene.AddNode. Update runs
// every frame before the node's components and children are updated; the base
// traversal always runs afterwards, once.
type Behavior interface {
	Init(n *Node)
	Update(n *Node, dt float64)
}

// BaseBehavior implements Behavior with no-ops. Embed it and override the
// method you need.
type BaseBehavior struct{}

// Init does nothing.
func (BaseBehavior) Init(*Node) {}

// Update does nothing.
func (BaseBehavior) Update(*Node, float64) {}

// Node is the scene graph element. A node owns its children and components;
// its parent and scene are non-owning back references.
type Node struct {
	// Identity
	id   EntityID
	Name string

	// Local transform
	Transformable

	// Visible false skips this node and its subtree during Draw.
	// Update still runs.
	Visible bool

	// Behavior is the optional node specialization. Set it before the node
	// joins a scene so that Init runs.
	Behavior Behavior

	// UserData is free for application use.
	UserData any

	// Hierarchy
	scene      *Scene
	parent     *Node
	children   []*Node
	components []Component

	// Internal
	live        bool // reachable from its scene's root
	initialized bool
	disposed    bool

	// Set while an Update walk holds the current slice; mutations copy first.
	childrenShared   bool
	componentsShared bool
	updatedFrame     uint64
}

// NewNode creates a detached node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:          name,
		Transformable: NewTransformable(),
		Visible:       true,
	}
}

// NewBehaviorNode creates a detached node specialized by b.
func NewBehaviorNode(name string, b Behavior) *Node {
	n := NewNode(name)
	n.Behavior = b
	return n
}

// ID returns the node's EntityID, or InvalidEntityID if the node has never
// been part of a scene.
func (n *Node) ID() EntityID {
	return n.id
}

// Scene returns the scene that registered this node, or nil. The scene is
// set once, on first registration, and kept after the node is detached.
func (n *Node) Scene() *Scene {
	return n.scene
}

// Parent returns the parent node. It returns nil for a scene root and for
// detached nodes, so callers walking upwards must check for nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsLive reports whether the node is currently reachable from its scene's root.
func (n *Node) IsLive() bool {
	return n.live
}

// IsDisposed returns true if this node has been destroyed by Scene.RemoveNode.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Tree manipulation ---

// AddChild appends child to this node's children and returns it.
//
// Adding a node that is already a child of n is a no-op. If child has
// another parent, it is removed from that parent first. When n is live in a
// scene, child and its subtree are registered with that scene; when child
// moves out of a live tree it is unregistered.
//
// Panics if child is nil, either node is disposed, child is n or one of its
// ancestors (cycle), or the subtree holds nodes registered with another scene.
func (n *Node) AddChild(child *Node) *Node {
	return n.insertChild(child, -1)
}

// AddChildAt inserts child at the given index. If child is already a child
// of n it is moved to index, which must then be below NumChildren.
// Same reparenting and panic behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) *Node {
	if index < 0 {
		panic("arbor: child index out of range")
	}
	return n.insertChild(child, index)
}

func (n *Node) insertChild(child *Node, index int) *Node {
	n.checkAdoptable(child)
	if child.parent == n {
		if index >= 0 {
			n.moveChild(child, index)
		}
		return child
	}
	if index > len(n.children) {
		panic("arbor: child index out of range")
	}

	wasLive := child.live
	if old := child.parent; old != nil {
		old.unlinkChild(child)
		child.parent = nil
	}

	switch {
	case n.live && !wasLive:
		n.scene.register(child)
	case !n.live && wasLive:
		child.scene.unregister(child)
	}

	child.parent = n
	n.linkChild(child, index)

	if s := n.scene; s != nil && s.debug {
		s.debugCheckTreeDepth(child)
		s.debugCheckChildCount(n)
	}
	return child
}

// checkAdoptable panics if child cannot become a child of n.
func (n *Node) checkAdoptable(child *Node) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if n.disposed {
		panic("arbor: AddChild on disposed node " + n.describe())
	}
	if child.disposed {
		panic("arbor: cannot add disposed node " + child.describe())
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.scene != nil && child.scene.root == child {
		panic("arbor: cannot reparent a scene root")
	}
	if !n.live {
		return
	}
	child.Walk(func(d *Node) bool {
		if d.scene != nil && d.scene != n.scene {
			panic("arbor: node " + d.describe() + " belongs to another scene")
		}
		return true
	})
}

// RemoveChild detaches child from this node and returns it, transferring
// ownership to the caller. The removed subtree is unregistered from the scene
// but keeps its IDs. Returns nil if child is not a child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	if child == nil || child.parent != n {
		return nil
	}
	if !n.unlinkChild(child) {
		return nil
	}
	child.parent = nil
	if child.live {
		child.scene.unregister(child)
	}
	return child
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	return n.RemoveChild(n.children[index])
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// FindChild returns the first direct child with the given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Path returns the slash-separated names from the topmost ancestor to n.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil; p = p.parent {
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// --- Frame traversal ---

// Update runs the behavior, then every component in attachment order, then
// recurses into the children in order.
//
// The walk covers the components and children attached when it reaches them:
// anything removed before its turn is skipped, and anything added to a list
// already being walked first updates on the next call. Within one
// Scene.Update a node is updated at most once, even if it is moved into a
// subtree the walk has not reached yet. Components must be comparable
// (pointer types).
func (n *Node) Update(dt float64) {
	if s := n.scene; s != nil && s.updating {
		if n.updatedFrame == s.frame {
			return
		}
		n.updatedFrame = s.frame
	}
	if n.Behavior != nil {
		n.Behavior.Update(n, dt)
		if n.disposed {
			return
		}
	}

	prevComponents := n.componentsShared
	n.componentsShared = true
	for _, c := range n.components {
		// A cleared flag means the list was copied: c may have been removed.
		if !n.componentsShared && !slices.Contains(n.components, c) {
			continue
		}
		c.Update(dt)
	}
	n.componentsShared = prevComponents

	prevChildren := n.childrenShared
	n.childrenShared = true
	for _, child := range n.children {
		if child.parent != n {
			continue // removed earlier in this walk
		}
		child.Update(dt)
	}
	n.childrenShared = prevChildren

	if s := n.scene; s != nil && s.debug {
		s.stats.nodes++
		s.stats.components += len(n.components)
	}
}

// Draw composes parentFrame with the node's local matrix and draws every
// component, then every child, with the combined frame.
func (n *Node) Draw(dst Surface, parentFrame Affine) {
	if !n.Visible {
		return
	}
	frame := parentFrame.Multiply(n.Matrix())
	for _, c := range n.components {
		c.Draw(dst, frame)
	}
	for _, child := range n.children {
		child.Draw(dst, frame)
	}
}

// --- Disposal ---

// dispose marks n and its subtree destroyed and releases children and
// components. n must already be detached and unregistered.
func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	for _, c := range n.components {
		if b, ok := c.(nodeBinder); ok {
			b.unbind()
		}
	}
	n.children = nil
	n.components = nil
	n.childrenShared = false
	n.componentsShared = false
	n.parent = nil
	n.Behavior = nil
	n.UserData = nil
}

// --- Helpers ---

// moveChild repositions an existing child of n.
func (n *Node) moveChild(child *Node, index int) {
	if index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	if n.children[index] == child {
		return
	}
	n.unlinkChild(child)
	n.linkChild(child, index)
}

// linkChild inserts child into n.children at index, or appends when index is
// negative or past the end.
func (n *Node) linkChild(child *Node, index int) {
	n.ownChildren()
	if index < 0 || index >= len(n.children) {
		n.children = append(n.children, child)
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

// ownChildren gives n a private child slice when an Update walk is iterating
// the current one.
func (n *Node) ownChildren() {
	if n.childrenShared {
		n.children = slices.Clone(n.children)
		n.childrenShared = false
	}
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// unlinkChild removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a pointer in the backing array.
func (n *Node) unlinkChild(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.ownChildren()
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}

func (n *Node) describe() string {
	return fmt.Sprintf("%q (ID %d)", n.Name, n.id)
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%d %q)", n.id, n.Name)
}
