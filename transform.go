package arbor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Affine is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine [6]float64

// IdentityAffine is the identity matrix.
var IdentityAffine = Affine{1, 0, 0, 1, 0, 0}

// Multiply returns m * c. Applying the result to a point applies c first,
// then m, so a parent frame multiplied by a child's local matrix yields the
// child's frame.
func (m Affine) Multiply(c Affine) Affine {
	return Affine{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert computes the inverse of m.
// Returns the identity matrix if m is singular (determinant ~ 0).
func (m Affine) Invert() Affine {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Affine{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Translation returns the translation part of m.
func (m Affine) Translation() Vec2 {
	return Vec2{m[4], m[5]}
}

// GeoM converts m to an ebiten.GeoM.
func (m Affine) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Transformable holds a local 2D transform: position, rotation in degrees,
// scale and origin. The origin is the point, in local units, that position,
// rotation and scale are relative to.
//
// The zero value has a zero scale; use NewTransformable or the Node and shape
// constructors, which start from scale (1, 1).
type Transformable struct {
	X, Y             float64
	Rotation         float64 // degrees, clockwise with Y pointing down
	ScaleX, ScaleY   float64
	OriginX, OriginY float64
}

// NewTransformable returns an identity transform.
func NewTransformable() Transformable {
	return Transformable{ScaleX: 1, ScaleY: 1}
}

// SetPosition sets the local position.
func (t *Transformable) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
}

// Position returns the local position.
func (t *Transformable) Position() Vec2 {
	return Vec2{t.X, t.Y}
}

// Move offsets the local position by (dx, dy).
func (t *Transformable) Move(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// SetRotation sets the rotation in degrees, normalized to [0, 360).
func (t *Transformable) SetRotation(deg float64) {
	t.Rotation = normalizeDegrees(deg)
}

// Rotate adds deg degrees to the current rotation.
func (t *Transformable) Rotate(deg float64) {
	t.SetRotation(t.Rotation + deg)
}

// SetScale sets the scale factors.
func (t *Transformable) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
}

// SetOrigin sets the local origin.
func (t *Transformable) SetOrigin(ox, oy float64) {
	t.OriginX = ox
	t.OriginY = oy
}

// Matrix computes the local affine matrix.
//
// Composition order:
//
//	Translate(-OriginX, -OriginY) -> Scale -> Rotate -> Translate(X, Y)
func (t *Transformable) Matrix() Affine {
	sin, cos := math.Sincos(t.Rotation * math.Pi / 180)
	sx, sy := t.ScaleX, t.ScaleY

	a := cos * sx
	b := sin * sx
	c := -sin * sy
	d := cos * sy

	return Affine{
		a, b, c, d,
		-t.OriginX*a - t.OriginY*c + t.X,
		-t.OriginX*b - t.OriginY*d + t.Y,
	}
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// --- Node transforms ---

// WorldTransform composes the local matrices of every ancestor and this node,
// root to node. The scene's own transform is not included.
func (n *Node) WorldTransform() Affine {
	m := n.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Matrix().Multiply(m)
	}
	return m
}

// LocalToWorld converts a point in this node's local space to world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.WorldTransform().Apply(lx, ly)
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.WorldTransform().Invert().Apply(wx, wy)
}
