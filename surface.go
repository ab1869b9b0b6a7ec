package arbor

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the render target the scene draws into. The scene calls
// DrawShape once per shape per frame with the fully composed transform; it
// never reads the surface back.
type Surface interface {
	DrawShape(s Shape, m Affine)
}

// ImageTarget is implemented by surfaces backed by an *ebiten.Image, for
// components that draw images or text instead of shapes.
type ImageTarget interface {
	Image() *ebiten.Image
}

// ImageSurface rasterizes shapes into an *ebiten.Image with DrawTriangles.
// Vertex and index buffers are reused across calls.
type ImageSurface struct {
	target *ebiten.Image
	verts  []ebiten.Vertex
	inds   []uint16
	op     ebiten.DrawTrianglesOptions

	// AntiAlias enables anti-aliased triangle edges.
	AntiAlias bool
}

// NewImageSurface creates a surface drawing into target.
func NewImageSurface(target *ebiten.Image) *ImageSurface {
	return &ImageSurface{target: target}
}

// SetTarget switches the destination image, typically once per frame.
func (s *ImageSurface) SetTarget(target *ebiten.Image) {
	s.target = target
}

// Image returns the destination image.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.target
}

// DrawShape fills the shape's outline, transformed by m, with its color.
// Outlines with fewer than three points or more than maxOutlinePoints are
// skipped.
func (s *ImageSurface) DrawShape(shape Shape, m Affine) {
	if s.target == nil {
		return
	}
	s.verts, s.inds = buildPolygonFan(s.verts[:0], s.inds[:0], shape.Outline(), m, shape.FillColor())
	if len(s.inds) == 0 {
		return
	}
	s.op.AntiAlias = s.AntiAlias
	s.op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	s.target.DrawTriangles(s.verts, s.inds, ensureWhitePixel(), &s.op)
}

// buildPolygonFan appends fan-triangulated vertices and indices for a convex
// outline, transformed by m and tinted with c (premultiplied).
// N points produce N vertices and 3*(N-2) indices. Outlines that would push
// the vertex count past the uint16 index range are skipped.
func buildPolygonFan(verts []ebiten.Vertex, inds []uint16, points []Vec2, m Affine, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(points)
	base := len(verts)
	if n < 3 || base+n > maxOutlinePoints {
		return verts, inds
	}
	a := float32(clamp01(c.A))
	r := float32(clamp01(c.R)) * a
	g := float32(clamp01(c.G)) * a
	b := float32(clamp01(c.B)) * a

	for _, p := range points {
		x, y := m.Apply(p.X, p.Y)
		verts = append(verts, ebiten.Vertex{
			DstX: float32(x),
			DstY: float32(y),
			// Untextured: map to center of white pixel (0.5, 0.5)
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}

	// Fan triangulation: the first appended vertex is the hub.
	hub := uint16(base)
	for i := 0; i < n-2; i++ {
		inds = append(inds, hub, hub+uint16(i+1), hub+uint16(i+2))
	}
	return verts, inds
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
