package arbor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kamstrup/intmap"
)

// NodeEventType identifies a registry lifecycle event.
type NodeEventType uint8

const (
	NodeAdded   NodeEventType = iota // node became reachable from the root and was registered
	NodeRemoved                      // node left the tree and was unregistered
)

func (t NodeEventType) String() string {
	switch t {
	case NodeAdded:
		return "added"
	case NodeRemoved:
		return "removed"
	default:
		return fmt.Sprintf("NodeEventType(%d)", uint8(t))
	}
}

// NodeEvent describes one registry change.
type NodeEvent struct {
	Type     NodeEventType
	EntityID EntityID
	Name     string
}

// EventSink receives registry lifecycle events. When set on a Scene, every
// registration and unregistration is forwarded to it.
type EventSink interface {
	EmitEvent(event NodeEvent)
}

const defaultRegistryCap = 64

// Scene is the top-level object that owns the root node and the EntityID
// registry, and drives per-frame update and draw traversal.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	root      *Node
	registry  *intmap.Map[EntityID, *Node]
	nextID    EntityID
	transform Affine
	sink      EventSink
	frame     uint64 // Update calls so far
	updating  bool

	// Debug state
	debug    bool
	debugOut io.Writer
	stats    debugStats
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	s := &Scene{
		registry:  intmap.New[EntityID, *Node](defaultRegistryCap),
		transform: IdentityAffine,
		debugOut:  os.Stderr,
	}
	root := NewNode("root")
	root.scene = s
	root.live = true
	root.initialized = true
	s.root = root
	return s
}

// Root returns the scene's root node. The root is never nil, has no ID and
// cannot be removed.
func (s *Scene) Root() *Node {
	return s.root
}

// Transform returns the scene's own transform, used as the initial frame for Draw.
func (s *Scene) Transform() Affine {
	return s.transform
}

// SetTransform sets the scene's own transform.
func (s *Scene) SetTransform(m Affine) {
	s.transform = m
}

// SetEventSink sets the optional registry event receiver. Pass nil to disable.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// --- Node management ---

// AddNode inserts node under parent, or under the root when parent is nil,
// and returns it. A fresh node receives the next EntityID, its scene and its
// Behavior's Init call before it is linked in. A node already live in this
// scene is moved under parent and keeps its ID.
//
// Panics if parent is not live in this scene, and for every condition
// Node.AddChild panics on.
func (s *Scene) AddNode(node *Node, parent *Node) *Node {
	if parent == nil {
		parent = s.root
	}
	if parent.scene != s || !parent.live {
		panic("arbor: parent " + parent.describe() + " is not in this scene")
	}
	return parent.AddChild(node)
}

// CreateNode creates a node named name under parent (root when nil) and returns it.
func (s *Scene) CreateNode(name string, parent *Node) *Node {
	return s.AddNode(NewNode(name), parent)
}

// GetNode returns the live node registered under id.
// The error wraps ErrNotFound when id is not registered.
func (s *Scene) GetNode(id EntityID) (*Node, error) {
	n, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("arbor: get node %d: %w", id, ErrNotFound)
	}
	return n, nil
}

// Contains reports whether id is registered.
func (s *Scene) Contains(id EntityID) bool {
	_, ok := s.registry.Get(id)
	return ok
}

// RemoveNode detaches the node registered under id, erases it and every
// descendant from the registry, and destroys the subtree. Reports whether id
// was registered.
func (s *Scene) RemoveNode(id EntityID) bool {
	n, ok := s.registry.Get(id)
	if !ok {
		return false
	}
	n.parent.RemoveChild(n)
	n.dispose()
	return true
}

// DetachNode detaches the node registered under id and returns it without
// destroying it. The subtree is unregistered but keeps its IDs; adding it back
// into this scene re-registers it under the same IDs.
// The error wraps ErrNotFound when id is not registered.
func (s *Scene) DetachNode(id EntityID) (*Node, error) {
	n, ok := s.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("arbor: detach node %d: %w", id, ErrNotFound)
	}
	return n.parent.RemoveChild(n), nil
}

// Len returns the number of registered nodes. The root is not counted.
func (s *Scene) Len() int {
	return s.registry.Len()
}

// Nodes calls fn for every registered node, in no particular order, until fn
// returns false.
func (s *Scene) Nodes(fn func(id EntityID, n *Node) bool) {
	s.registry.ForEach(fn)
}

// FindByName returns the first live node named name in tree order, or nil.
func (s *Scene) FindByName(name string) *Node {
	var found *Node
	s.root.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n != s.root && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Validate checks that the registry mirrors the tree: every node reachable
// from the root is registered under its ID, every registered node is
// reachable, and every parent/child link is mirrored.
func (s *Scene) Validate() error {
	var errs []error
	reachable := 0
	s.root.Walk(func(n *Node) bool {
		for _, c := range n.children {
			if c.parent != n {
				errs = append(errs, fmt.Errorf("arbor: %s is a child of %s but its parent is %v", c.describe(), n.describe(), c.parent))
			}
		}
		if n == s.root {
			return true
		}
		reachable++
		if n.id == InvalidEntityID {
			errs = append(errs, fmt.Errorf("arbor: %s is reachable without an ID", n.describe()))
		}
		if got, ok := s.registry.Get(n.id); !ok || got != n {
			errs = append(errs, fmt.Errorf("arbor: %s is reachable but not registered", n.describe()))
		}
		if !n.live || n.scene != s {
			errs = append(errs, fmt.Errorf("arbor: %s is reachable but not live in this scene", n.describe()))
		}
		return true
	})
	s.registry.ForEach(func(id EntityID, n *Node) bool {
		top := n
		for top.parent != nil {
			top = top.parent
		}
		if top != s.root {
			errs = append(errs, fmt.Errorf("arbor: registered ID %d (%s) is not reachable from the root", id, n.describe()))
		}
		return true
	})
	if reachable != s.registry.Len() {
		errs = append(errs, fmt.Errorf("arbor: %d reachable nodes but %d registered", reachable, s.registry.Len()))
	}
	return errors.Join(errs...)
}

// register assigns IDs, records and then initializes n and its subtree. n is
// live by the time Init runs, so Init may build the node's contents through
// either Node.AddChild or Scene.AddNode; children it adds are registered
// immediately and skipped by the walk below.
func (s *Scene) register(n *Node) {
	if n.id == InvalidEntityID {
		s.nextID++
		n.id = s.nextID
	}
	n.scene = s
	n.live = true
	s.registry.Put(n.id, n)
	s.emit(NodeAdded, n)
	if !n.initialized {
		n.initialized = true
		if n.Behavior != nil {
			n.Behavior.Init(n)
		}
	}
	for i := 0; i < len(n.children); i++ {
		if c := n.children[i]; !c.live {
			s.register(c)
		}
	}
}

// unregister erases n and its subtree from the registry.
func (s *Scene) unregister(n *Node) {
	for _, c := range n.children {
		s.unregister(c)
	}
	if n.live {
		n.live = false
		s.registry.Del(n.id)
		s.emit(NodeRemoved, n)
	}
}

func (s *Scene) emit(typ NodeEventType, n *Node) {
	if s.debug {
		s.debugf("%s %s", typ, n.describe())
	}
	if s.sink != nil {
		s.sink.EmitEvent(NodeEvent{Type: typ, EntityID: n.id, Name: n.Name})
	}
}

// --- Frame ---

// Update advances every behavior and component by dt seconds, depth-first
// from the root.
func (s *Scene) Update(dt float64) {
	s.frame++
	s.updating = true
	defer func() { s.updating = false }()
	if !s.debug {
		s.root.Update(dt)
		return
	}
	s.stats = debugStats{}
	t0 := time.Now()
	s.root.Update(dt)
	s.stats.updateTime = time.Since(t0)
}

// Draw renders the tree into dst, starting from the scene's transform.
func (s *Scene) Draw(dst Surface) {
	if !s.debug {
		s.root.Draw(dst, s.transform)
		return
	}
	t0 := time.Now()
	s.root.Draw(dst, s.transform)
	s.stats.drawTime = time.Since(t0)
	s.debugLog(s.stats)
}
