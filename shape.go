package arbor

import "math"

// Shape is a filled convex primitive with its own local transform. Shapes are
// plain data; a Surface rasterizes them.
type Shape interface {
	// Matrix is the shape's local transform relative to the frame it is
	// drawn in.
	Matrix() Affine
	// Outline returns the convex outline in shape-local units.
	Outline() []Vec2
	// FillColor is the color the outline is filled with.
	FillColor() Color
}

// RectangleShape is an axis-aligned rectangle of Width x Height with its
// top-left corner at the local origin.
type RectangleShape struct {
	Transformable
	Width, Height float64
	Color         Color

	outline [4]Vec2
}

// NewRectangleShape creates a white rectangle.
func NewRectangleShape(width, height float64) *RectangleShape {
	return &RectangleShape{
		Transformable: NewTransformable(),
		Width:         width,
		Height:        height,
		Color:         ColorWhite,
	}
}

// SetSize sets the rectangle's width and height.
func (r *RectangleShape) SetSize(width, height float64) {
	r.Width = width
	r.Height = height
}

// Outline returns the four corners, clockwise from the top-left.
func (r *RectangleShape) Outline() []Vec2 {
	r.outline = [4]Vec2{{0, 0}, {r.Width, 0}, {r.Width, r.Height}, {0, r.Height}}
	return r.outline[:]
}

// FillColor returns r.Color.
func (r *RectangleShape) FillColor() Color {
	return r.Color
}

// defaultCircleSegments is the point count used when CircleShape.Segments is unset.
const defaultCircleSegments = 30

// maxOutlinePoints is the largest outline a Surface can index with uint16
// vertex indices.
const maxOutlinePoints = math.MaxUint16 + 1

// CircleShape is a circle approximated by a regular polygon. Its bounding box
// has its top-left corner at the local origin, so the center is at
// (Radius, Radius).
type CircleShape struct {
	Transformable
	Radius   float64
	Segments int
	Color    Color

	outline []Vec2
}

// NewCircleShape creates a white circle.
func NewCircleShape(radius float64) *CircleShape {
	return &CircleShape{
		Transformable: NewTransformable(),
		Radius:        radius,
		Segments:      defaultCircleSegments,
		Color:         ColorWhite,
	}
}

// Outline returns the polygon approximating the circle. Segments is capped at
// maxOutlinePoints.
func (c *CircleShape) Outline() []Vec2 {
	segs := c.Segments
	if segs < 3 {
		segs = defaultCircleSegments
	}
	segs = min(segs, maxOutlinePoints)
	c.outline = c.outline[:0]
	for i := range segs {
		angle := float64(i) * 2 * math.Pi / float64(segs)
		sin, cos := math.Sincos(angle - math.Pi/2)
		c.outline = append(c.outline, Vec2{c.Radius + c.Radius*cos, c.Radius + c.Radius*sin})
	}
	return c.outline
}

// FillColor returns c.Color.
func (c *CircleShape) FillColor() Color {
	return c.Color
}

// PolygonShape is a convex polygon given by its points in local units.
type PolygonShape struct {
	Transformable
	Points []Vec2
	Color  Color
}

// NewPolygonShape creates a white polygon.
func NewPolygonShape(points []Vec2) *PolygonShape {
	return &PolygonShape{
		Transformable: NewTransformable(),
		Points:        points,
		Color:         ColorWhite,
	}
}

// NewTriangleShape creates an isosceles triangle pointing up, size wide and
// size tall, with its bounding box's top-left corner at the local origin.
func NewTriangleShape(size float64) *PolygonShape {
	return NewPolygonShape([]Vec2{{size / 2, 0}, {size, size}, {0, size}})
}

// Outline returns p.Points.
func (p *PolygonShape) Outline() []Vec2 {
	return p.Points
}

// FillColor returns p.Color.
func (p *PolygonShape) FillColor() Color {
	return p.Color
}

// ShapeComponent is a component that owns one shape and draws it in the
// node's frame. A nil shape draws nothing.
type ShapeComponent struct {
	BaseComponent
	shape Shape
}

// NewShapeComponent creates a component drawing s.
func NewShapeComponent(s Shape) *ShapeComponent {
	return &ShapeComponent{shape: s}
}

// Shape returns the owned shape, or nil.
func (c *ShapeComponent) Shape() Shape {
	return c.shape
}

// SetShape replaces the owned shape. Pass nil to clear it.
func (c *ShapeComponent) SetShape(s Shape) {
	c.shape = s
}

// Draw draws the shape with frame composed with the shape's own transform.
func (c *ShapeComponent) Draw(dst Surface, frame Affine) {
	if c.shape == nil {
		return
	}
	dst.DrawShape(c.shape, frame.Multiply(c.shape.Matrix()))
}
