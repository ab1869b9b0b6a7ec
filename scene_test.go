package arbor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink collects registry events.
type recordSink struct {
	events []NodeEvent
}

func (r *recordSink) EmitEvent(e NodeEvent) {
	r.events = append(r.events, e)
}

// initBehavior records what the node looked like when Init ran.
type initBehavior struct {
	BaseBehavior
	inits        int
	idAtInit     EntityID
	sceneAtInit  *Scene
	parentAtInit *Node
	spawnChild   bool
}

func (b *initBehavior) Init(n *Node) {
	b.inits++
	b.idAtInit = n.ID()
	b.sceneAtInit = n.Scene()
	b.parentAtInit = n.Parent()
	if b.spawnChild {
		n.AddChild(NewNode(n.Name + "-child"))
	}
}

func TestNewSceneRoot(t *testing.T) {
	s := NewScene()
	root := s.Root()
	require.NotNil(t, root)
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, InvalidEntityID, root.ID())
	assert.Nil(t, root.Parent())
	assert.True(t, root.IsLive())
	assert.Same(t, s, root.Scene())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, IdentityAffine, s.Transform())
	assert.NoError(t, s.Validate())
}

func TestEntityIDsUniqueAndIncreasing(t *testing.T) {
	s := NewScene()
	seen := map[EntityID]bool{}
	var last EntityID
	parent := s.Root()
	for i := range 20 {
		n := s.CreateNode("n", nil)
		if i%3 == 0 {
			n = s.CreateNode("nested", parent)
		}
		require.NotEqual(t, InvalidEntityID, n.ID())
		require.False(t, seen[n.ID()], "ID %d assigned twice", n.ID())
		require.Greater(t, n.ID(), last)
		seen[n.ID()] = true
		last = n.ID()
		parent = n
	}
	require.NoError(t, s.Validate())
}

func TestGetNode(t *testing.T) {
	s := NewScene()
	n := s.CreateNode("a", nil)

	got, err := s.GetNode(n.ID())
	require.NoError(t, err)
	assert.Same(t, n, got)
	assert.True(t, s.Contains(n.ID()))

	_, err = s.GetNode(999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, s.Contains(999))

	_, err = s.GetNode(InvalidEntityID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveNodeErasesSubtree(t *testing.T) {
	s := NewScene()
	a := s.CreateNode("a", nil)
	b := s.CreateNode("b", a)
	c := s.CreateNode("c", b)
	keep := s.CreateNode("keep", nil)
	ids := []EntityID{a.ID(), b.ID(), c.ID()}
	require.Equal(t, 4, s.Len())

	require.True(t, s.RemoveNode(a.ID()))
	for _, id := range ids {
		_, err := s.GetNode(id)
		assert.ErrorIs(t, err, ErrNotFound, "ID %d", id)
	}
	assert.Equal(t, 1, s.Len())
	assert.True(t, a.IsDisposed())
	assert.True(t, c.IsDisposed())
	assert.Equal(t, []*Node{keep}, s.Root().Children())
	assert.NoError(t, s.Validate())

	assert.False(t, s.RemoveNode(a.ID()), "second removal reports false")
	assert.False(t, s.RemoveNode(InvalidEntityID))
	assert.Panics(t, func() { s.AddNode(a, nil) }, "disposed nodes cannot be re-added")
}

func TestRemoveNodeRemovesComponents(t *testing.T) {
	s := NewScene()
	n := s.CreateNode("n", nil)
	sc := NewShapeComponent(NewRectangleShape(1, 1))
	n.AddComponent(sc)

	s.RemoveNode(n.ID())
	assert.Nil(t, sc.Node())

	var rec recordSurface
	s.Draw(&rec)
	assert.Empty(t, rec.calls)
}

func TestRectangleTriangleScenario(t *testing.T) {
	s := NewScene()
	rect := s.CreateNode("rectangle", nil)
	rect.SetPosition(320, 240)
	rect.SetRotation(45)
	rect.AddComponent(NewShapeComponent(NewRectangleShape(50, 50)))
	tri := s.CreateNode("triangle", rect)
	tri.SetPosition(25, 25)
	tri.AddComponent(NewShapeComponent(NewTriangleShape(25)))
	rectID, triID := rect.ID(), tri.ID()

	var rec recordSurface
	s.Draw(&rec)
	require.Len(t, rec.calls, 2)

	require.True(t, s.RemoveNode(rectID))
	assert.False(t, s.Contains(rectID))
	assert.False(t, s.Contains(triID))
	assert.Equal(t, 0, s.Root().NumChildren())

	rec.calls = nil
	s.Update(1.0 / 60)
	s.Draw(&rec)
	assert.Empty(t, rec.calls)
	assert.NoError(t, s.Validate())
}

func TestParentChildInvariants(t *testing.T) {
	s := NewScene()
	a := s.CreateNode("a", nil)
	b := s.CreateNode("b", a)
	c := s.CreateNode("c", a)
	require.NoError(t, s.Validate())

	for _, child := range a.Children() {
		assert.Same(t, a, child.Parent())
	}
	assert.Same(t, s.Root(), a.Parent())

	// Reparent b under c within the scene: IDs are kept.
	bID := b.ID()
	s.AddNode(b, c)
	assert.Equal(t, bID, b.ID())
	assert.Same(t, c, b.Parent())
	assert.Equal(t, []*Node{c}, a.Children())
	require.NoError(t, s.Validate())

	// Same parent again: no-op.
	s.AddNode(b, c)
	assert.Equal(t, 1, c.NumChildren())
	require.NoError(t, s.Validate())

	// Cycle: c under b.
	assert.Panics(t, func() { s.AddNode(c, b) })
	require.NoError(t, s.Validate())
}

func TestDetachNodeKeepsIDs(t *testing.T) {
	beh := &initBehavior{}
	s := NewScene()
	a := s.AddNode(NewBehaviorNode("a", beh), nil)
	b := s.CreateNode("b", a)
	aID, bID := a.ID(), b.ID()

	got, err := s.DetachNode(aID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Nil(t, a.Parent())
	assert.False(t, a.IsLive())
	assert.False(t, s.Contains(aID))
	assert.False(t, s.Contains(bID))
	assert.Same(t, a, b.Parent(), "detached subtree stays intact")
	require.NoError(t, s.Validate())

	s.AddNode(a, nil)
	assert.Equal(t, aID, a.ID())
	assert.Equal(t, bID, b.ID())
	assert.True(t, s.Contains(aID))
	assert.True(t, s.Contains(bID))
	assert.Equal(t, 1, beh.inits, "Init does not run again")
	require.NoError(t, s.Validate())

	_, err = s.DetachNode(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveChildUnregisters(t *testing.T) {
	s := NewScene()
	a := s.CreateNode("a", nil)
	b := s.CreateNode("b", a)

	require.Same(t, b, a.RemoveChild(b))
	assert.False(t, s.Contains(b.ID()))
	assert.NotEqual(t, InvalidEntityID, b.ID())
	require.NoError(t, s.Validate())

	// Building a detached subtree and attaching it registers everything.
	sub := NewNode("sub")
	leaf := sub.AddChild(NewNode("leaf"))
	assert.Equal(t, InvalidEntityID, leaf.ID(), "no IDs outside a scene")
	a.AddChild(sub)
	assert.True(t, s.Contains(sub.ID()))
	assert.True(t, s.Contains(leaf.ID()))
	assert.Equal(t, 3, s.Len())
	require.NoError(t, s.Validate())
}

func TestInitRunsOnceBeforeLinking(t *testing.T) {
	beh := &initBehavior{spawnChild: true}
	s := NewScene()
	n := s.AddNode(NewBehaviorNode("spawner", beh), nil)

	assert.Equal(t, 1, beh.inits)
	assert.Equal(t, n.ID(), beh.idAtInit)
	assert.Same(t, s, beh.sceneAtInit)
	assert.Nil(t, beh.parentAtInit, "Init runs before the node is linked")

	child := n.FindChild("spawner-child")
	require.NotNil(t, child)
	assert.True(t, s.Contains(child.ID()), "children added in Init are registered")
	assert.Greater(t, child.ID(), n.ID())

	// Moving the node around never re-runs Init.
	other := s.CreateNode("other", nil)
	s.AddNode(n, other)
	assert.Equal(t, 1, beh.inits)
	require.NoError(t, s.Validate())
}

// sceneBuilder populates its node through the Scene API from Init.
type sceneBuilder struct {
	BaseBehavior
	kids int
}

func (b sceneBuilder) Init(n *Node) {
	for i := range b.kids {
		n.Scene().CreateNode(fmt.Sprintf("%s-kid%d", n.Name, i), n)
	}
}

func TestInitBuildsThroughScene(t *testing.T) {
	sink := &recordSink{}
	s := NewScene()
	s.SetEventSink(sink)

	var n *Node
	require.NotPanics(t, func() {
		n = s.AddNode(NewBehaviorNode("p", sceneBuilder{kids: 2}), nil)
	})
	require.Equal(t, 2, n.NumChildren())
	assert.Equal(t, 3, s.Len())
	assert.Len(t, sink.events, 3, "each node is registered once")
	assert.Equal(t, n.ID(), sink.events[0].EntityID)
	for _, kid := range n.Children() {
		assert.True(t, s.Contains(kid.ID()))
		assert.Same(t, n, kid.Parent())
	}
	require.NoError(t, s.Validate())

	// A builder nested under a builder, attached as a detached subtree.
	outer := NewBehaviorNode("outer", sceneBuilder{kids: 1})
	outer.AddChild(NewBehaviorNode("inner", sceneBuilder{kids: 1}))
	s.AddNode(outer, nil)
	assert.Equal(t, 2, outer.NumChildren())
	inner := outer.FindChild("inner")
	require.NotNil(t, inner)
	assert.Equal(t, 1, inner.NumChildren())
	assert.Equal(t, 7, s.Len())
	assert.Len(t, sink.events, 7)
	require.NoError(t, s.Validate())
}

func TestForeignSceneNodesPanic(t *testing.T) {
	s1 := NewScene()
	s2 := NewScene()
	n1 := s1.CreateNode("n1", nil)

	assert.Panics(t, func() { s2.AddNode(NewNode("x"), n1) }, "parent from another scene")

	detached, err := s1.DetachNode(n1.ID())
	require.NoError(t, err)
	assert.Panics(t, func() { s2.AddNode(detached, nil) }, "node registered with another scene")

	wrapper := NewNode("wrapper")
	wrapper.AddChild(detached)
	assert.Panics(t, func() { s2.AddNode(wrapper, nil) }, "foreign node deep in the subtree")

	assert.Panics(t, func() { s2.AddNode(s1.Root(), nil) }, "scene root cannot be reparented")
	assert.Panics(t, func() { s1.AddNode(nil, nil) })
}

func TestEventSink(t *testing.T) {
	sink := &recordSink{}
	s := NewScene()
	s.SetEventSink(sink)

	a := s.CreateNode("a", nil)
	b := s.CreateNode("b", a)
	s.RemoveNode(a.ID())

	want := []NodeEvent{
		{Type: NodeAdded, EntityID: a.ID(), Name: "a"},
		{Type: NodeAdded, EntityID: b.ID(), Name: "b"},
		{Type: NodeRemoved, EntityID: b.ID(), Name: "b"},
		{Type: NodeRemoved, EntityID: a.ID(), Name: "a"},
	}
	assert.Equal(t, want, sink.events)

	s.SetEventSink(nil)
	s.CreateNode("quiet", nil)
	assert.Len(t, sink.events, 4)
}

func TestNodeEventTypeString(t *testing.T) {
	assert.Equal(t, "added", NodeAdded.String())
	assert.Equal(t, "removed", NodeRemoved.String())
	assert.Equal(t, "NodeEventType(7)", NodeEventType(7).String())
}

func TestNodesAndFindByName(t *testing.T) {
	s := NewScene()
	a := s.CreateNode("a", nil)
	b := s.CreateNode("target", a)
	s.CreateNode("target", nil)

	ids := map[EntityID]*Node{}
	s.Nodes(func(id EntityID, n *Node) bool {
		ids[id] = n
		return true
	})
	assert.Len(t, ids, 3)
	assert.Same(t, a, ids[a.ID()])

	visited := 0
	s.Nodes(func(EntityID, *Node) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)

	assert.Same(t, b, s.FindByName("target"), "first match in tree order")
	assert.Nil(t, s.FindByName("root"), "root is not searchable")
	assert.Nil(t, s.FindByName("missing"))
}

func TestValidateDetectsCorruption(t *testing.T) {
	s := NewScene()
	a := s.CreateNode("a", nil)
	require.NoError(t, s.Validate())

	s.registry.Del(a.ID())
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestSceneUpdateVisitsLiveNodes(t *testing.T) {
	s := NewScene()
	var total float64
	n := s.CreateNode("n", nil)
	n.AddComponent(UpdateFunc(func(dt float64) { total += dt }))

	s.Update(0.5)
	assert.InDelta(t, 0.5, total, 1e-12)

	detached, err := s.DetachNode(n.ID())
	require.NoError(t, err)
	s.Update(0.5)
	assert.InDelta(t, 0.5, total, 1e-12, "detached nodes are not updated")
	assert.False(t, detached.IsDisposed())
}

// removerBehavior removes its own node from the scene on first update.
type removerBehavior struct {
	BaseBehavior
}

func (removerBehavior) Update(n *Node, dt float64) {
	n.Scene().RemoveNode(n.ID())
}

func TestNodeRemovingItselfDuringUpdate(t *testing.T) {
	s := NewScene()
	s.AddNode(NewBehaviorNode("doomed", removerBehavior{}), nil)
	var after int
	next := s.CreateNode("next", nil)
	next.AddComponent(UpdateFunc(func(float64) { after++ }))

	s.Update(0.1)
	assert.Equal(t, 1, after, "next sibling still updates")
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Validate())
}
