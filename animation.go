package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenRotation,
// TweenColor) and either call Update(dt) yourself or attach it to a node with
// a TweenComponent.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Done is set once every tween has finished.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenPosition animates t.X and t.Y to (toX, toY).
func TweenPosition(t *Transformable, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.X, toX, duration, fn)
	g.add(&t.Y, toY, duration, fn)
	return g
}

// TweenScale animates t.ScaleX and t.ScaleY to (toSX, toSY).
func TweenScale(t *Transformable, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.ScaleX, toSX, duration, fn)
	g.add(&t.ScaleY, toSY, duration, fn)
	return g
}

// TweenRotation animates t.Rotation to the target angle in degrees. The
// value is not normalized while animating, so 0 -> 720 spins twice.
func TweenRotation(t *Transformable, toDeg float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&t.Rotation, toDeg, duration, fn)
	return g
}

// TweenColor animates all four components of *c to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&c.R, to.R, duration, fn)
	g.add(&c.G, to.G, duration, fn)
	g.add(&c.B, to.B, duration, fn)
	g.add(&c.A, to.A, duration, fn)
	return g
}

// TweenComponent drives tween groups from the node's per-frame update.
// Groups that finish are dropped. When the last group finishes, OnDone runs
// once and, if RemoveWhenDone is set, the component detaches itself.
type TweenComponent struct {
	BaseComponent
	groups []*TweenGroup

	OnDone         func()
	RemoveWhenDone bool
}

// NewTweenComponent creates a component running the given groups in parallel.
func NewTweenComponent(groups ...*TweenGroup) *TweenComponent {
	return &TweenComponent{groups: groups}
}

// Add starts another group.
func (c *TweenComponent) Add(g *TweenGroup) {
	c.groups = append(c.groups, g)
}

// Running reports the number of unfinished groups.
func (c *TweenComponent) Running() int {
	return len(c.groups)
}

// Update advances every running group.
func (c *TweenComponent) Update(dt float64) {
	if len(c.groups) == 0 {
		return
	}
	kept := c.groups[:0]
	for _, g := range c.groups {
		g.Update(float32(dt))
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(c.groups); i++ {
		c.groups[i] = nil
	}
	c.groups = kept
	if len(c.groups) > 0 {
		return
	}
	if c.OnDone != nil {
		c.OnDone()
	}
	if c.RemoveWhenDone && c.node != nil {
		c.node.RemoveComponent(c)
	}
}

// Draw does nothing.
func (c *TweenComponent) Draw(Surface, Affine) {}
