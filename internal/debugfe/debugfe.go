// Package debugfe is a terminal single-step / step-back debugger front end.
// It is explicitly an external collaborator per the core's scope: the core
// only exposes Driver.Step, Driver.StepBack, Driver.Pause/Resume, and the
// rendered framebuffer/fault - everything about drawing a terminal view and
// reading keypresses for it lives here.
package debugfe

import (
	"fmt"

	"github.com/ashgriffith/chip8vm/internal/chip8"
	"github.com/ashgriffith/chip8vm/internal/driver"
	"github.com/nsf/termbox-go"
)

const (
	onCell  = '#'
	offCell = ' '
)

// keyMap mirrors pixelfe's COSMAC-VIP-shaped layout: the left 4x4 block of a
// QWERTY keyboard mapped onto the 4x4 hex keypad. Everything outside this
// map stays a debugger shortcut.
var keyMap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// View renders a chip8.State's framebuffer plus a register/PC/fault panel
// into a termbox buffer, and turns keypresses into driver.Driver calls. It
// implements driver.Renderer and driver.FaultReporter.
type View struct {
	drv      *driver.Driver
	lastErr  string
	lastInst string
}

// New wires a View to drv. The caller still owns starting/stopping the
// driver's own Run loop; View only drives Step/StepBack/Pause in response
// to keys and renders when the driver calls Render.
func New(drv *driver.Driver) *View {
	return &View{drv: drv}
}

// Open initializes termbox. Callers must call Close when done.
func Open() error {
	return termbox.Init()
}

// Close tears down termbox.
func Close() {
	termbox.Close()
}

// ReportFault implements driver.FaultReporter: it remembers the faulting
// instruction and fault text so the next Render call highlights them.
func (v *View) ReportFault(st *chip8.State, instr chip8.Instruction, err error) {
	v.lastInst = instr.String()
	v.lastErr = err.Error()
}

// Render draws the framebuffer at the top of the terminal and a status
// panel below it: PC, SP, I, the general registers, the two timers, and -
// once one has occurred - the faulting instruction and fault message.
func (v *View) Render(fb [32][8]byte) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	for row := 0; row < 32; row++ {
		for col := 0; col < 64; col++ {
			byteIdx := col / 8
			bitIdx := uint(col % 8)
			ch := rune(offCell)
			if fb[row][byteIdx]&(0x80>>bitIdx) != 0 {
				ch = onCell
			}
			termbox.SetCell(col, row, ch, termbox.ColorWhite, termbox.ColorDefault)
		}
	}

	st := v.drv.State
	panelRow := 33
	writeLine(panelRow, fmt.Sprintf("pc=%#03x sp=%d i=%#03x dt=%d st=%d", st.PC, st.SP, st.I, st.DelayTimer, st.SoundTimer))
	writeLine(panelRow+1, fmt.Sprintf("v=%02X", st.V))
	mode := "running"
	if v.drv.Paused() {
		mode = "PAUSED (space=step, b=step-back, p=resume, esc=quit)"
	}
	writeLine(panelRow+2, mode)
	if v.lastErr != "" {
		writeLine(panelRow+3, fmt.Sprintf("FAULT at %s: %s", v.lastInst, v.lastErr))
	}

	termbox.Flush()
}

func writeLine(row int, s string) {
	for col, r := range s {
		termbox.SetCell(col, row, r, termbox.ColorYellow, termbox.ColorDefault)
	}
}

// PollInput blocks for the next termbox key event and applies it: keys in
// keyMap become hex keypad events for the driver, space single-steps, b
// steps back, p toggles pause, and Esc reports quit=true so the caller can
// stop the driver's Run loop and call Close.
func (v *View) PollInput() (quit bool) {
	ev := termbox.PollEvent()
	if ev.Type != termbox.EventKey {
		return false
	}
	if digit, ok := keyMap[ev.Ch]; ok {
		// termbox never reports key-up, so each press is forwarded as a
		// press/release pair - the release is what the wait-for-key latch
		// consumes.
		v.drv.PushKeyEvent(chip8.KeyEvent{Digit: digit})
		v.drv.PushKeyEvent(chip8.KeyEvent{Digit: digit, Released: true})
		return false
	}
	switch {
	case ev.Key == termbox.KeyEsc:
		return true
	case ev.Key == termbox.KeySpace:
		v.drv.RequestStep()
	case ev.Ch == 'b':
		v.drv.RequestStepBack()
	case ev.Ch == 'p':
		if v.drv.Paused() {
			v.drv.RequestResume()
		} else {
			v.drv.RequestPause()
		}
	}
	return false
}
