package stagehand

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefresh is how often, in seconds, the overlay text is rebuilt.
const overlayRefresh = 0.5

// overlay is a small debug panel showing frame rate and navigator state.
type overlay struct {
	img     *ebiten.Image
	text    string
	elapsed float64
}

// overlayText formats the panel contents.
func overlayText(fps, tps float64, d *Director) string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\n%s | depth %d | pending %d\ncurrent: %s",
		fps, tps, d.Status(), d.Depth(), d.Pending(), sceneName(d.Current()))
}

// update advances the refresh timer by dt and rebuilds the text when due.
func (o *overlay) update(dt float64, d *Director) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0
	o.text = overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), d)
}

// draw renders the panel in the top-left corner.
func (o *overlay) draw(screen *ebiten.Image) {
	if o.img == nil {
		o.img = ebiten.NewImage(220, 48)
	}
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	screen.DrawImage(o.img, nil)
}
