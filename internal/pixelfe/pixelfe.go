// Package pixelfe is the windowed renderer front end: it owns a pixelgl
// window, converts the core's packed framebuffer export into quads, and
// translates keyboard events into chip8.KeyEvent values for the driver.
// This package - not the core - is the "renderer" the spec's §1 exclusion
// talks about.
package pixelfe

import (
	"fmt"
	"time"

	"github.com/ashgriffith/chip8vm/internal/chip8"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"
)

const (
	cols         = 64
	rows         = 32
	screenWidth  = 1024
	screenHeight = 512
	keyRepeatDur = time.Second / 5
)

// keyMap is the same COSMAC-VIP-shaped layout most CHIP-8 front ends use: the left
// 4x4 block of a QWERTY keyboard mapped onto the 4x4 hex keypad.
var keyMap = map[byte]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// KeyEventPusher is the subset of *driver.Driver this package depends on,
// so it can be unit tested without pulling in the real driver.
type KeyEventPusher interface {
	PushKeyEvent(chip8.KeyEvent)
}

// Window wraps a pixelgl window with the chip8-specific key bookkeeping
// pulled out into its own type so it can push events onto a driver instead
// of polling a keypad array in place.
type Window struct {
	*pixelgl.Window
	driver   KeyEventPusher
	keysDown map[byte]*time.Ticker
}

// NewWindow opens a pixelgl window sized for a 64x32 CHIP-8 display scaled
// up for visibility, wired to push key events onto driver.
func NewWindow(driver KeyEventPusher) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  "chip8vm",
		Bounds: pixel.R(0, 0, screenWidth, screenHeight),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("pixelfe: error creating window: %w", err)
	}
	return &Window{
		Window:   w,
		driver:   driver,
		keysDown: make(map[byte]*time.Ticker),
	}, nil
}

// Render draws the packed framebuffer export: 32 rows of 8 bytes, MSB-first
// per byte. Each set bit becomes one filled quad scaled to the window.
func (w *Window) Render(fb [32][8]byte) {
	w.Clear(colornames.Black)
	draw := imdraw.New(nil)
	draw.Color = pixel.RGB(1, 1, 1)

	cellW, cellH := float64(screenWidth)/cols, float64(screenHeight)/rows

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			byteIdx := col / 8
			bitIdx := uint(col % 8)
			if fb[row][byteIdx]&(0x80>>bitIdx) == 0 {
				continue
			}
			// pixelgl's origin is bottom-left; the framebuffer's
			// row 0 is the top of the screen.
			screenRow := rows - 1 - row
			draw.Push(pixel.V(cellW*float64(col), cellH*float64(screenRow)))
			draw.Push(pixel.V(cellW*float64(col)+cellW, cellH*float64(screenRow)+cellH))
			draw.Rectangle(0)
		}
	}

	draw.Draw(w)
	w.Update()
}

// PollInput checks every mapped key for a just-pressed/just-released
// transition since the last call and forwards it to the driver as a
// chip8.KeyEvent. Held keys re-fire a press event on keyRepeatDur, the same
// auto-repeat a held key would get from a native keyboard driver. Call this once per
// render pass.
func (w *Window) PollInput() {
	for digit, button := range keyMap {
		switch {
		case w.JustReleased(button) && w.keysDown[digit] != nil:
			w.keysDown[digit].Stop()
			delete(w.keysDown, digit)
			w.driver.PushKeyEvent(chip8.KeyEvent{Digit: digit, Released: true})
			continue
		case w.JustPressed(button):
			if w.keysDown[digit] == nil {
				w.keysDown[digit] = time.NewTicker(keyRepeatDur)
			}
			w.driver.PushKeyEvent(chip8.KeyEvent{Digit: digit, Released: false})
		}

		ticker := w.keysDown[digit]
		if ticker == nil {
			continue
		}
		select {
		case <-ticker.C:
			w.driver.PushKeyEvent(chip8.KeyEvent{Digit: digit, Released: false})
		default:
		}
	}
	w.UpdateInput()
}
