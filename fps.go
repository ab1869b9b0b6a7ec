package arbor

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsRefreshInterval is how often, in seconds, the FPS text is refreshed.
const fpsRefreshInterval = 0.5

// FPSComponent displays the current FPS and TPS at the node's origin.
// It only draws on surfaces implementing ImageTarget.
type FPSComponent struct {
	BaseComponent
	img     *ebiten.Image
	elapsed float64
	text    string
}

// NewFPSComponent creates an FPS overlay component.
func NewFPSComponent() *FPSComponent {
	return &FPSComponent{elapsed: fpsRefreshInterval}
}

// Text returns the most recently rendered text.
func (c *FPSComponent) Text() string {
	return c.text
}

// Update refreshes the text every fpsRefreshInterval seconds.
func (c *FPSComponent) Update(dt float64) {
	c.elapsed += dt
	if c.elapsed < fpsRefreshInterval {
		return
	}
	c.elapsed = 0
	c.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	if c.img == nil {
		return
	}
	c.redraw()
}

func (c *FPSComponent) redraw() {
	c.img.Clear()
	// Semi-transparent background for readability
	c.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(c.img, c.text)
}

// Draw blits the overlay with frame.
func (c *FPSComponent) Draw(dst Surface, frame Affine) {
	target, ok := dst.(ImageTarget)
	if !ok || target.Image() == nil {
		return
	}
	if c.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		c.img = ebiten.NewImage(100, 32)
		c.redraw()
	}
	op := &ebiten.DrawImageOptions{GeoM: frame.GeoM()}
	target.Image().DrawImage(c.img, op)
}
