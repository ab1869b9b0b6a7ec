package arbor

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window and loop started by Run.
type RunConfig struct {
	Title         string
	Width, Height int

	// TPS is the update rate. Zero keeps Ebitengine's default (60).
	TPS int

	// ClearColor fills the screen before the scene draws. A zero alpha skips
	// the fill.
	ClearColor Color

	// ShowFPS draws an FPS/TPS overlay in the top-left corner.
	ShowFPS bool

	// ExitOnEscape ends the loop when Escape is pressed.
	ExitOnEscape bool

	// ScreenshotDir enables F12 screenshots, written as PNG files to this
	// directory after the next frame is drawn.
	ScreenshotDir string

	// Resizable lets the user resize the window. The logical screen keeps
	// Width x Height.
	Resizable bool

	// Update runs every tick before Scene.Update. Returning a non-nil error
	// stops the loop; Run returns nil for ebiten.Termination.
	Update func(dt float64) error
}

// Run opens a window and drives scene with an Ebitengine game loop until the
// window closes or cfg.Update returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	err := ebiten.RunGame(newGame(scene, cfg))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene   *Scene
	cfg     RunConfig
	surface *ImageSurface
	fps     *FPSComponent
	shots   *screenshotQueue
	ticks   int
}

func newGame(scene *Scene, cfg RunConfig) *game {
	g := &game{
		scene:   scene,
		cfg:     cfg,
		surface: NewImageSurface(nil),
	}
	if cfg.ShowFPS {
		g.fps = NewFPSComponent()
	}
	if cfg.ScreenshotDir != "" {
		g.shots = &screenshotQueue{dir: cfg.ScreenshotDir}
	}
	return g
}

func (g *game) Update() error {
	if g.cfg.ExitOnEscape && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.ticks++
	if g.shots != nil && inpututil.IsKeyJustPressed(screenshotKey) {
		g.shots.request(fmt.Sprintf("tick_%d", g.ticks))
	}
	dt := 1.0 / float64(ebiten.TPS())
	if g.cfg.Update != nil {
		if err := g.cfg.Update(dt); err != nil {
			return err
		}
	}
	g.scene.Update(dt)
	if g.fps != nil {
		g.fps.Update(dt)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.RGBA())
	}
	g.surface.SetTarget(screen)
	g.scene.Draw(g.surface)
	if g.fps != nil {
		g.fps.Draw(g.surface, IdentityAffine)
	}
	if g.shots != nil {
		g.shots.flush(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
