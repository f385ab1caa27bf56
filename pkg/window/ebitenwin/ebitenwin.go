// Package ebitenwin presents frames in a desktop window using ebiten.
package ebitenwin

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-realtime-pathtracer/pkg/window"
)

// Config contains window settings
type Config struct {
	Title     string
	Width     int  // Initial client width in pixels
	Height    int  // Initial client height in pixels
	Resizable bool // Allow the user to resize the window
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Title:     "Realtime Path Tracer",
		Width:     800,
		Height:    600,
		Resizable: true,
	}
}

// keyMap translates the keys the app polls to ebiten keys
var keyMap = map[window.Key]ebiten.Key{
	window.KeyW:      ebiten.KeyW,
	window.KeyA:      ebiten.KeyA,
	window.KeyS:      ebiten.KeyS,
	window.KeyD:      ebiten.KeyD,
	window.KeyQ:      ebiten.KeyQ,
	window.KeyE:      ebiten.KeyE,
	window.KeyEscape: ebiten.KeyEscape,
	window.KeyF11:    ebiten.KeyF11,
}

var buttonMap = map[window.MouseButton]ebiten.MouseButton{
	window.MouseButtonLeft:   ebiten.MouseButtonLeft,
	window.MouseButtonRight:  ebiten.MouseButtonRight,
	window.MouseButtonMiddle: ebiten.MouseButtonMiddle,
}

// Window is a window.Presenter backed by an ebiten game loop. The pixel
// buffer always matches the logical screen size reported by Layout.
type Window struct {
	config     Config
	frame      window.Frame
	fn         func(*window.Frame) bool
	lastUpdate time.Time
}

// New creates a window; nothing is shown until Run
func New(config Config) *Window {
	return &Window{config: config}
}

// Run opens the window and blocks until fn returns false or the window is closed
func (w *Window) Run(fn func(*window.Frame) bool) error {
	pixels, err := window.NewPixelBuffer(w.config.Width, w.config.Height)
	if err != nil {
		return err
	}
	w.frame = window.Frame{
		Pixels:  pixels,
		Width:   w.config.Width,
		Height:  w.config.Height,
		Resized: true,
	}
	w.fn = fn
	w.lastUpdate = time.Now()

	ebiten.SetWindowTitle(w.config.Title)
	ebiten.SetWindowSize(w.config.Width, w.config.Height)
	if w.config.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	err = ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	now := time.Now()
	w.frame.DeltaTime = now.Sub(w.lastUpdate).Seconds()
	w.lastUpdate = now

	w.pollInput()

	if !w.fn(&w.frame) {
		return ebiten.Termination
	}
	w.frame.Resized = false
	return nil
}

// pollInput shifts the current input into the previous state and reads the new one
func (w *Window) pollInput() {
	var keys window.KeySet
	for key, ebitenKey := range keyMap {
		if ebiten.IsKeyPressed(ebitenKey) {
			keys = keys.With(key)
		}
	}

	var buttons window.ButtonSet
	for button, ebitenButton := range buttonMap {
		if ebiten.IsMouseButtonPressed(ebitenButton) {
			buttons = buttons.With(button)
		}
	}

	x, y := ebiten.CursorPosition()
	w.frame.Input.Poll(keys, buttons, float64(x), float64(y))
}

// Draw implements ebiten.Game
func (w *Window) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	if bounds.Dx() != w.frame.Width || bounds.Dy() != w.frame.Height {
		// Layout changed after the last Update; the next one fills the new buffer
		return
	}
	screen.WritePixels(w.frame.Pixels)
}

// Layout implements ebiten.Game. The logical screen follows the window size one to one.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.frame.Width || outsideHeight != w.frame.Height {
		pixels, err := window.NewPixelBuffer(outsideWidth, outsideHeight)
		if err != nil {
			// Minimized windows report a zero size; keep the old buffer
			return w.frame.Width, w.frame.Height
		}
		w.frame.Pixels = pixels
		w.frame.Width = outsideWidth
		w.frame.Height = outsideHeight
		w.frame.Resized = true
	}
	return w.frame.Width, w.frame.Height
}
