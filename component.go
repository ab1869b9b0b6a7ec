package arbor

import "slices"

// Component is a unit of per-node behavior or rendering. A component belongs to
// exactly one node; the node calls Update once per frame and Draw once per
// frame with the node's composed coordinate frame.
//
// Embed BaseComponent to get a no-op Update and access to the owning node.
type Component interface {
	Update(dt float64)
	Draw(dst Surface, frame Affine)
}

// nodeBinder is satisfied by components embedding BaseComponent.
type nodeBinder interface {
	bind(n *Node)
	unbind()
	boundNode() *Node
}

// BaseComponent provides the default Update and tracks the owning node.
// It does not implement Draw; embedders must.
type BaseComponent struct {
	node *Node
}

// Update does nothing.
func (c *BaseComponent) Update(dt float64) {}

// Node returns the node this component is attached to, or nil.
func (c *BaseComponent) Node() *Node {
	return c.node
}

func (c *BaseComponent) bind(n *Node)     { c.node = n }
func (c *BaseComponent) unbind()          { c.node = nil }
func (c *BaseComponent) boundNode() *Node { return c.node }

// funcComponent runs a function every frame and draws nothing.
type funcComponent struct {
	BaseComponent
	fn func(dt float64)
}

// UpdateFunc returns a component that calls fn once per frame.
func UpdateFunc(fn func(dt float64)) Component {
	return &funcComponent{fn: fn}
}

func (c *funcComponent) Update(dt float64) {
	if c.fn != nil {
		c.fn(dt)
	}
}

func (c *funcComponent) Draw(Surface, Affine) {}

// --- Component management ---

// AddComponent attaches c to n, taking ownership of it. Components update and
// draw in attachment order.
// Panics if c is nil or is already attached to another node.
func (n *Node) AddComponent(c Component) {
	if c == nil {
		panic("arbor: cannot add nil component")
	}
	if n.disposed {
		panic("arbor: AddComponent on disposed node " + n.describe())
	}
	if b, ok := c.(nodeBinder); ok {
		if owner := b.boundNode(); owner != nil {
			if owner == n {
				return
			}
			panic("arbor: component is already attached to node " + owner.describe())
		}
		b.bind(n)
	}
	n.components = append(n.components, c)
}

// RemoveComponent detaches c from n. Reports whether c was attached.
func (n *Node) RemoveComponent(c Component) bool {
	for i, existing := range n.components {
		if existing != c {
			continue
		}
		if n.componentsShared {
			n.components = slices.Clone(n.components)
			n.componentsShared = false
		}
		copy(n.components[i:], n.components[i+1:])
		n.components[len(n.components)-1] = nil
		n.components = n.components[:len(n.components)-1]
		if b, ok := c.(nodeBinder); ok {
			b.unbind()
		}
		return true
	}
	return false
}

// Components returns the attached components. The returned slice MUST NOT be
// mutated by the caller.
func (n *Node) Components() []Component {
	return n.components
}

// ComponentOf returns the first component of n with type T.
func ComponentOf[T Component](n *Node) (T, bool) {
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
