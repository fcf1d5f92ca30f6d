package stagehand

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneUpdater is implemented by scenes with per-tick logic. The Stage calls
// Update on every visible scene after advancing the Director.
type SceneUpdater interface {
	Update() error
}

// Stage runs a Director as an ebiten.Game. Each tick advances transition
// animations, then updates the visible scenes; each frame draws them, the
// exiting scene below the current one.
type Stage struct {
	director *Director
	width    int
	height   int

	// ClearColor fills the screen before drawing. A zero alpha skips the
	// fill.
	ClearColor Color

	// OnUpdate, when set, runs at the end of every tick. A non-nil error
	// stops the game.
	OnUpdate func() error

	// Script, when set, is stepped once per tick after the Director. Its
	// screenshot steps capture this Stage.
	Script *ScriptRunner

	// Keys are checked once per tick while no navigation is in flight.
	Keys []KeyBinding

	// ShowOverlay draws a debug panel with frame rate and navigator state.
	ShowOverlay bool

	// ScreenshotDir receives captures queued by Screenshot. Empty means
	// DefaultScreenshotDir.
	ScreenshotDir string

	pixel           *ebiten.Image
	input           inputSource
	overlay         overlay
	screenshotQueue []string
}

// NewStage creates a Stage drawing d at width x height logical pixels.
func NewStage(d *Director, width, height int) *Stage {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Stage{
		director:   d,
		width:      width,
		height:     height,
		ClearColor: ColorBlack,
		input:      ebitenInput(),
	}
}

// Director returns the Director this Stage drives.
func (s *Stage) Director() *Director {
	return s.director
}

// Update implements ebiten.Game. Order per tick: advance animations, handle
// input, step the script, update visible scenes, then OnUpdate.
func (s *Stage) Update() error {
	s.director.Update()
	if s.ShowOverlay {
		s.overlay.update(1/float64(max(ebiten.TPS(), 1)), s.director)
	}
	if err := s.processInput(); err != nil {
		return err
	}
	if s.Script != nil {
		if s.Script.capture == nil {
			s.Script.capture = s.Screenshot
		}
		if err := s.Script.Step(s.director); err != nil {
			return err
		}
	}
	for _, scene := range s.director.VisibleScenes() {
		if u, ok := scene.(SceneUpdater); ok {
			if err := u.Update(); err != nil {
				return err
			}
		}
	}
	if s.OnUpdate != nil {
		return s.OnUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	for _, scene := range s.director.VisibleScenes() {
		s.drawScene(screen, scene)
	}
	s.flushScreenshots(screen)
	if s.ShowOverlay {
		s.overlay.draw(screen)
	}
}

// Layout implements ebiten.Game with a fixed logical size.
func (s *Stage) Layout(_, _ int) (int, int) {
	return s.width, s.height
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	TPS        int
	ClearColor Color
	Overlay    bool
}

// RunConfigFrom extracts window settings from cfg.
func RunConfigFrom(cfg Config) RunConfig {
	return RunConfig{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		TPS:        cfg.TPS,
		ClearColor: ColorBlack,
		Overlay:    cfg.Debug,
	}
}

// Run opens a window and drives d until the window closes or a scene's
// Update returns an error.
func Run(d *Director, cfg RunConfig) error {
	stage := NewStage(d, cfg.Width, cfg.Height)
	stage.ClearColor = cfg.ClearColor
	stage.ShowOverlay = cfg.Overlay
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(stage.width, stage.height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(stage)
}
