package arbor

import (
	"errors"
	"image/color"
)

// EntityID identifies a node within its Scene. IDs are allocated by the Scene
// when a node first joins the tree, start at 1 and are never reused.
type EntityID uint64

// InvalidEntityID is the zero ID carried by nodes that were never registered.
const InvalidEntityID EntityID = 0

// ErrNotFound is returned when an EntityID is not present in a Scene's registry.
var ErrNotFound = errors.New("node not found")

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and shape outlines.
type Vec2 struct {
	X, Y float64
}
